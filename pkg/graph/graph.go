package graph

import (
	"iter"
	"slices"
)

// Shape selects how a node is drawn.
type Shape string

const (
	// ShapeDefault leaves the shape to the renderer.
	ShapeDefault Shape = ""
	// ShapeDiamond draws the node as a diamond. Marks unary fact types.
	ShapeDiamond Shape = "diamond"
)

// Dir is the arrowhead style of an edge.
type Dir string

const (
	// DirForward draws a single arrowhead at the destination.
	DirForward Dir = "forward"
	// DirBoth draws arrowheads at both ends.
	DirBoth Dir = "both"
)

// Node is a vertex. ID is the unique key; Label is what gets drawn and
// defaults to ID when empty.
type Node struct {
	ID    string
	Label string
	Shape Shape
}

// DisplayLabel returns Label, or ID when no label was set.
func (n Node) DisplayLabel() string {
	if n.Label == "" {
		return n.ID
	}
	return n.Label
}

// Edge is a connection between two node IDs. The zero Dir means [DirForward].
type Edge struct {
	From  string
	To    string
	Label string
	Dir   Dir
}

// Bidirectional reports whether the edge carries arrowheads at both ends.
func (e Edge) Bidirectional() bool { return e.Dir == DirBoth }

// Graph is a named collection of nodes and edges kept in insertion order.
//
// The zero value is not usable; use New. A Graph is not safe for concurrent use.
type Graph struct {
	name    string
	comment string
	nodes   []Node
	index   map[string]int
	edges   []Edge
}

// New creates an empty graph. The name becomes the output file stem and the
// comment is written as the graph caption.
func New(name, comment string) *Graph {
	return &Graph{
		name:    name,
		comment: comment,
		index:   make(map[string]int),
	}
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// Comment returns the graph caption.
func (g *Graph) Comment() string { return g.comment }

// AddNode inserts n, or updates the label and shape of the existing node
// with the same ID. The latest call wins; the position is kept.
func (g *Graph) AddNode(n Node) {
	if i, ok := g.index[n.ID]; ok {
		g.nodes[i].Label = n.Label
		g.nodes[i].Shape = n.Shape
		return
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// AddEdge appends e. Identical edges are kept as parallel edges.
func (g *Graph) AddEdge(e Edge) {
	if e.Dir == "" {
		e.Dir = DirForward
	}
	g.edges = append(g.edges, e)
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// HasNode reports whether id was added with AddNode.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() iter.Seq[Node] { return slices.Values(g.nodes) }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() iter.Seq[Edge] { return slices.Values(g.edges) }

// NodeCount returns the number of distinct nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, parallel edges included.
func (g *Graph) EdgeCount() int { return len(g.edges) }
