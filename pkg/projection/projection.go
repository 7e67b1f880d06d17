// Package projection derives the three graph views of an ACT data model.
//
//   - [Double]: binary facts between object types, without "mentions".
//   - [Single]: unary facts, each drawn as a diamond attached to its source type.
//   - [Complete]: every object type plus every binary fact, "mentions" included.
//
// Each projection builds its own [graph.Graph] from scratch; graphs never
// share node state.
package projection

import (
	"iter"

	"github.com/mnemonic-no/act-utils/pkg/datamodel"
	"github.com/mnemonic-no/act-utils/pkg/graph"
)

// MentionsFact is the relation left out of the double edge graph.
const MentionsFact = "mentions"

// Graph names. They double as output file stems.
const (
	NameDouble   = "double"
	NameSingle   = "single"
	NameComplete = "complete"
)

// Captions written into each graph.
const (
	CommentDouble   = "Double edge facts"
	CommentSingle   = "Single edge facts"
	CommentComplete = "All Double edge facts"
)

// Double returns the graph of binary facts, skipping [MentionsFact].
func Double(facts iter.Seq[datamodel.FactBinding]) *graph.Graph {
	g := graph.New(NameDouble, CommentDouble)
	for f := range facts {
		if f.Name == MentionsFact {
			continue
		}
		addBinary(g, f)
	}
	return g
}

// Single returns the graph of unary facts. The fact name becomes a diamond
// node with an edge from its source type.
func Single(facts iter.Seq[datamodel.FactBinding]) *graph.Graph {
	g := graph.New(NameSingle, CommentSingle)
	for f := range facts {
		if !f.IsUnary() {
			continue
		}
		g.AddNode(graph.Node{ID: f.Name, Label: f.Name, Shape: graph.ShapeDiamond})
		g.AddNode(graph.Node{ID: f.Source, Label: f.Source})
		g.AddEdge(graph.Edge{From: f.Source, To: f.Name})
	}
	return g
}

// Complete returns every object type as a node plus all binary facts.
func Complete(objects iter.Seq[string], facts iter.Seq[datamodel.FactBinding]) *graph.Graph {
	g := graph.New(NameComplete, CommentComplete)
	for o := range objects {
		g.AddNode(graph.Node{ID: o, Label: o})
	}
	for f := range facts {
		addBinary(g, f)
	}
	return g
}

// All returns the double, single and complete graphs of m, in that order.
func All(m *datamodel.Model) []*graph.Graph {
	return []*graph.Graph{
		Double(m.Facts()),
		Single(m.Facts()),
		Complete(m.Objects(), m.Facts()),
	}
}

func addBinary(g *graph.Graph, f datamodel.FactBinding) {
	if f.IsUnary() {
		return
	}
	g.AddNode(graph.Node{ID: f.Source, Label: f.Source})
	g.AddNode(graph.Node{ID: f.Destination, Label: f.Destination})

	dir := graph.DirForward
	if f.Bidirectional {
		dir = graph.DirBoth
	}
	g.AddEdge(graph.Edge{From: f.Source, To: f.Destination, Label: f.Name, Dir: dir})
}
