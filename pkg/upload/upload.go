// Package upload publishes rendered artifacts.
//
// Two sinks implement [Uploader]:
//
//   - [Confluence]: attaches files to a wiki page, replacing earlier versions
//   - [S3Publisher]: stores files in an S3 bucket under a key prefix
//
// Upload titles follow the graph names; see [ImageTitle] and [SourceTitle].
package upload

import (
	"context"
	"path/filepath"
	"strings"
)

// Uploader publishes one file.
type Uploader interface {
	// Upload sends the file at path, described by title.
	Upload(ctx context.Context, path, title string) error
	// Target names the sink for logs and metrics.
	Target() string
}

var imageTitles = map[string]string{
	"double":   "Double Edged Facts",
	"single":   "Single Edged Facts",
	"complete": "All Double Edged Facts",
}

// ImageTitle returns the title of the rendered image of a graph.
func ImageTitle(graph string) string {
	if t, ok := imageTitles[graph]; ok {
		return t
	}
	return graph
}

// SourceTitle returns the title of the DOT source of a graph.
func SourceTitle(graph string) string {
	return graph + " source"
}

// ContentType guesses the MIME type of an artifact from its extension.
func ContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	case ".dot", ".gv":
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}
