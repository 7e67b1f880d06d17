// Package datamodel holds the ACT type model fetched in one run: the object
// type catalog and the fact type catalog with their object bindings.
//
// # Overview
//
// A [Model] wraps the two decoded catalogs and exposes them through lazy,
// restartable views:
//
//   - [Model.Objects]: the object type names
//   - [Model.Facts]: one [FactBinding] per binding of every fact type
//
// Views are recomputed from the immutable payload on every call, so ranging
// over them twice yields the same sequence:
//
//	for name := range m.Objects() {
//	    fmt.Println(name)
//	}
//	for b := range m.Facts() {
//	    fmt.Println(b.Name, b.Source, b.Destination, b.Bidirectional)
//	}
//
// # Equality
//
// Two models are equal when their de-duplicated object name sets and their
// de-duplicated fact binding sets are equal. Order and duplicates in the raw
// payload do not matter. [Model.Equal] is the only test used to decide whether
// the model changed between runs.
//
// # Snapshots
//
// [Model.Snapshot] returns the comparable projection of a model (sorted
// object names and fact bindings). It is what gets persisted between runs;
// [FromSnapshot] rebuilds a model that compares equal to the original.
//
// # Poisoned models
//
// A model built from a failed fetch holds no payload. Its views are empty and
// [Model.Loaded] reports false. Callers must check Loaded before comparing.
package datamodel
