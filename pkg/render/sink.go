package render

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	errs "github.com/mnemonic-no/act-utils/pkg/errors"
	"github.com/mnemonic-no/act-utils/pkg/graph"
)

// DefaultOutputDir is where images go when Sink.OutputDir is empty.
const DefaultOutputDir = "output"

// Sink writes rendered graphs to disk.
type Sink struct {
	OutputDir string   // image directory; DefaultOutputDir when empty
	SourceDir string   // DOT dump directory; no dump when empty
	Formats   []Format // image formats; png when empty
	Renderer  Renderer // Graphviz when nil
	Logger    *log.Logger
}

// Artifacts are the files written for one graph.
type Artifacts struct {
	Graph  string
	Images []string // in Sink.Formats order; a dot image that is the source dump is omitted
	Source string   // DOT dump path, empty without Sink.SourceDir
}

// Write renders g in every format and dumps its source when configured.
// The source is written first so it survives a rendering failure.
func (s *Sink) Write(ctx context.Context, g *graph.Graph) (Artifacts, error) {
	if err := errs.ValidateFileName(g.Name()); err != nil {
		return Artifacts{}, err
	}
	art := Artifacts{Graph: g.Name()}
	dot := ToDOT(g)

	if s.SourceDir != "" {
		path := filepath.Join(s.SourceDir, g.Name()+".dot")
		if err := writeFile(path, []byte(dot)); err != nil {
			return art, err
		}
		art.Source = path
		s.logger().Debug("wrote source", "graph", g.Name(), "path", path)
	}

	for _, f := range s.formats() {
		path := filepath.Join(s.outputDir(), g.Name()+"."+string(f))
		if path == art.Source {
			continue
		}
		data, err := s.renderer().Render(ctx, dot, f)
		if err != nil {
			return art, errs.Wrap(errs.ErrCodeRenderFailed, err, "render %s", g.Name())
		}
		if err := writeFile(path, data); err != nil {
			return art, err
		}
		art.Images = append(art.Images, path)
		s.logger().Debug("wrote image", "graph", g.Name(), "path", path, "bytes", len(data))
	}
	return art, nil
}

func (s *Sink) outputDir() string {
	if s.OutputDir == "" {
		return DefaultOutputDir
	}
	return s.OutputDir
}

func (s *Sink) formats() []Format {
	if len(s.Formats) == 0 {
		return []Format{FormatPNG}
	}
	return s.Formats
}

func (s *Sink) renderer() Renderer {
	if s.Renderer == nil {
		return Graphviz{}
	}
	return s.Renderer
}

func (s *Sink) logger() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeRenderFailed, err, "create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeRenderFailed, err, "write %s", path)
	}
	return nil
}
