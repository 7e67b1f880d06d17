// Package graph provides the in-memory graph that projections populate and
// renderers consume.
//
// A [Graph] is a named, ordered collection of nodes and edges. It is
// deliberately permissive:
//
//   - [Graph.AddNode] is idempotent per ID; re-adding a node keeps its
//     original position and replaces its label and shape.
//   - [Graph.AddEdge] never deduplicates; two identical calls produce two
//     parallel edges.
//   - Edges may reference IDs that were never added as nodes. Renderers treat
//     such endpoints as implicit nodes.
//
// Iteration order is insertion order, so rendering a graph twice from the
// same input yields byte-identical output.
package graph
