// Package pipeline runs one fetch → detect → project → render → upload cycle.
//
// # Stages
//
//  1. Fetch: retrieve both ACT catalogs. A failed fetch ends the run and
//     leaves the stored snapshot untouched.
//  2. Detect: compare against the stored snapshot. An unchanged model ends
//     the run quietly; otherwise the new snapshot is saved first.
//  3. Project: build the double, single and complete graphs.
//  4. Render: write images (and optionally DOT sources) through the sink.
//  5. Upload: publish images, then sources, to every configured uploader.
//
// # Usage
//
//	runner := pipeline.NewRunner(client, detector, sink, logger)
//	runner.Uploaders = []upload.Uploader{wiki}
//	res, err := runner.Run(ctx)
//	switch res.Outcome {
//	case pipeline.OutcomeFetchFailed: // res.Status holds the HTTP status
//	case pipeline.OutcomeUnchanged:   // nothing to do
//	case pipeline.OutcomeRendered:    // res.Graphs lists the artifacts
//	}
package pipeline

import (
	"time"

	"github.com/mnemonic-no/act-utils/pkg/datamodel"
	"github.com/mnemonic-no/act-utils/pkg/render"
	"github.com/mnemonic-no/act-utils/pkg/snapshot"
)

// Outcome classifies how a run ended.
type Outcome string

const (
	// OutcomeFetchFailed means a catalog could not be retrieved.
	OutcomeFetchFailed Outcome = "fetch_failed"
	// OutcomeUnchanged means the model equals the stored snapshot.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeRendered means graphs were rendered and uploaded.
	OutcomeRendered Outcome = "rendered"
	// OutcomeFailed means the snapshot store or rendering failed.
	OutcomeFailed Outcome = "failed"
	// OutcomeUploadFailed means graphs were rendered but an upload failed.
	OutcomeUploadFailed Outcome = "upload_failed"
)

// Result describes a finished run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	Outcome Outcome

	// Status is the HTTP status of the fetch; 0 for transport failures.
	Status int

	// FetchURL is the catalog endpoint that produced Status.
	FetchURL string

	// Decision is the change detector verdict. Only meaningful once the
	// fetch succeeded.
	Decision snapshot.Decision

	// Model summarizes the fetched model.
	Model datamodel.Stats

	// Anomalies lists catalog entries that were skipped.
	Anomalies []datamodel.Anomaly

	// Graphs lists the rendered graphs in projection order.
	Graphs []GraphResult

	// Uploads counts successfully published files.
	Uploads int

	Stats Stats
}

// GraphResult is one rendered projection.
type GraphResult struct {
	Name      string
	Nodes     int
	Edges     int
	Artifacts render.Artifacts
}

// Stats contains run timings.
type Stats struct {
	FetchTime  time.Duration
	RenderTime time.Duration
	UploadTime time.Duration
	Total      time.Duration
}
