// Package pkg provides the libraries behind act-datamodel, which draws the
// data model of an ACT threat intelligence platform.
//
// # Overview
//
// The ACT platform describes its data model as two catalogs: object types
// (ipv4, fqdn, threatActor, ...) and fact types, where each fact type lists
// the object types it may bind. act-datamodel fetches both catalogs, decides
// whether they changed since the previous run, and when they did renders
// three Graphviz graphs of the model and optionally publishes them.
//
// # Architecture
//
// One run flows through the packages like this:
//
//	ACT REST API (/v1/objectType, /v1/factType)
//	         ↓
//	    [actapi] (fetch both catalogs, HTTP status is the outcome)
//	         ↓
//	    [datamodel] (distinct objects and fact bindings, equality)
//	         ↓
//	    [snapshot] (compare with the stored snapshot, write-then-render)
//	         ↓
//	    [projection] → [graph] (double, single and complete graphs)
//	         ↓
//	    [render] (DOT source, PNG/SVG via go-graphviz)
//	         ↓
//	    [upload] (Confluence attachments, S3 objects)
//
// [pipeline] sequences the stages; [observability] and [metrics] watch them.
//
// # Quick Start
//
//	client, _ := actapi.NewClient(actapi.Options{BaseURL: "https://act.example.com", UserID: 1}, nil)
//	detector := snapshot.NewDetector(snapshot.NewFileStore(""), nil)
//	sink := &render.Sink{Formats: []render.Format{render.FormatPNG}}
//
//	res, err := pipeline.NewRunner(client, detector, sink, nil).Run(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Outcome) // "rendered" on the first run, "unchanged" after
//
// # Supporting Packages
//
// [config] layers defaults, a TOML file, the environment and flags.
// [errors] carries coded errors. [httputil] builds the TLS and proxy aware
// HTTP clients. [buildinfo] holds the version stamped in at link time.
//
// [actapi]: https://pkg.go.dev/github.com/mnemonic-no/act-utils/pkg/actapi
// [datamodel]: https://pkg.go.dev/github.com/mnemonic-no/act-utils/pkg/datamodel
// [snapshot]: https://pkg.go.dev/github.com/mnemonic-no/act-utils/pkg/snapshot
// [projection]: https://pkg.go.dev/github.com/mnemonic-no/act-utils/pkg/projection
// [graph]: https://pkg.go.dev/github.com/mnemonic-no/act-utils/pkg/graph
// [render]: https://pkg.go.dev/github.com/mnemonic-no/act-utils/pkg/render
// [upload]: https://pkg.go.dev/github.com/mnemonic-no/act-utils/pkg/upload
// [pipeline]: https://pkg.go.dev/github.com/mnemonic-no/act-utils/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/mnemonic-no/act-utils/pkg/observability
// [metrics]: https://pkg.go.dev/github.com/mnemonic-no/act-utils/pkg/metrics
// [config]: https://pkg.go.dev/github.com/mnemonic-no/act-utils/pkg/config
// [errors]: https://pkg.go.dev/github.com/mnemonic-no/act-utils/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/mnemonic-no/act-utils/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/mnemonic-no/act-utils/pkg/buildinfo
package pkg
