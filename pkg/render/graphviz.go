package render

import (
	"bytes"
	"context"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	errs "github.com/mnemonic-no/act-utils/pkg/errors"
)

// Format is an output format of the sink.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
	// FormatDOT writes the DOT source itself next to the images.
	FormatDOT Format = "dot"
)

// Formats lists the supported formats.
var Formats = []Format{FormatPNG, FormatSVG, FormatDOT}

// ParseFormats parses format names such as "png" or "SVG".
// An empty list yields png.
func ParseFormats(names []string) ([]Format, error) {
	if len(names) == 0 {
		return []Format{FormatPNG}, nil
	}
	out := make([]Format, 0, len(names))
	for _, n := range names {
		f := Format(strings.ToLower(strings.TrimSpace(n)))
		if !slices.Contains(Formats, f) {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported format %q", n)
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// ContentType returns the MIME type of files in format f.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

// Renderer turns DOT source into an image.
type Renderer interface {
	Render(ctx context.Context, dot string, f Format) ([]byte, error)
}

// Graphviz renders with the embedded Graphviz library.
type Graphviz struct{}

// Render renders dot as f. FormatDOT returns dot unchanged.
func (Graphviz) Render(ctx context.Context, dot string, f Format) ([]byte, error) {
	var gf graphviz.Format
	switch f {
	case FormatPNG:
		gf = graphviz.PNG
	case FormatSVG:
		gf = graphviz.SVG
	case FormatDOT:
		return []byte(dot), nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported format %q", f)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gf, &buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "render %s", f)
	}
	return buf.Bytes(), nil
}
