// Package render turns projected graphs into Graphviz source and images.
//
// # DOT Source
//
// [ToDOT] writes a deterministic DOT document: nodes and edges appear in
// insertion order, so the same model always yields byte-identical source.
//
//	dot := render.ToDOT(g)
//
// # Images
//
// [Graphviz] renders DOT through the embedded Graphviz build of
// github.com/goccy/go-graphviz, so no dot binary is needed on the host.
//
//	png, err := render.Graphviz{}.Render(ctx, dot, render.FormatPNG)
//
// # Sink
//
// [Sink] writes every configured format of a graph to its output directory
// and optionally dumps the DOT source elsewhere:
//
//	sink := render.Sink{OutputDir: "output", SourceDir: "dot", Formats: []render.Format{render.FormatPNG}}
//	art, err := sink.Write(ctx, g)
//	// art.Images: ["output/double.png"], art.Source: "dot/double.dot"
package render
