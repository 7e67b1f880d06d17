package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mnemonic-no/act-utils/pkg/actapi"
	"github.com/mnemonic-no/act-utils/pkg/datamodel"
	errs "github.com/mnemonic-no/act-utils/pkg/errors"
	"github.com/mnemonic-no/act-utils/pkg/graph"
	"github.com/mnemonic-no/act-utils/pkg/observability"
	"github.com/mnemonic-no/act-utils/pkg/projection"
	"github.com/mnemonic-no/act-utils/pkg/render"
	"github.com/mnemonic-no/act-utils/pkg/snapshot"
	"github.com/mnemonic-no/act-utils/pkg/upload"
)

// Fetcher retrieves the ACT catalogs. *actapi.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context) (*actapi.Result, error)
}

// Sink writes a graph to disk. *render.Sink implements it.
type Sink interface {
	Write(ctx context.Context, g *graph.Graph) (render.Artifacts, error)
}

// sourceOrder is the order DOT sources are published in.
var sourceOrder = []string{projection.NameComplete, projection.NameDouble, projection.NameSingle}

// Runner executes the pipeline. It is not safe for concurrent runs since
// the snapshot store has a single slot.
type Runner struct {
	Fetcher   Fetcher
	Detector  *snapshot.Detector
	Sink      Sink
	Uploaders []upload.Uploader
	Hooks     observability.Hooks // observability.Default() when nil
	Logger    *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(f Fetcher, d *snapshot.Detector, s Sink, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Fetcher: f, Detector: d, Sink: s, Logger: logger}
}

// Run performs one cycle.
//
// A non-200 fetch is not an error: it yields OutcomeFetchFailed with the
// status set. Errors are returned for transport failures, snapshot store
// failures, rendering failures and upload failures; the Result is always
// non-nil.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	hooks := r.hooks()
	res := &Result{RunID: uuid.NewString()}
	logger := r.logger().With("run", res.RunID[:8])

	defer func() {
		res.Stats.Total = time.Since(start)
		hooks.OnRunComplete(ctx, string(res.Outcome), res.Stats.Total)
	}()

	// Stage 1: Fetch
	fetched, err := r.Fetcher.Fetch(ctx)
	if fetched != nil {
		res.Status = fetched.Status
		res.FetchURL = fetched.URL
		res.Stats.FetchTime = fetched.Duration
	}
	hooks.OnFetch(ctx, res.Status, res.Stats.FetchTime, err)
	if err != nil {
		res.Outcome = OutcomeFetchFailed
		return res, err
	}
	if !fetched.OK() {
		res.Outcome = OutcomeFetchFailed
		logger.Error("Status code", "status", res.Status)
		return res, nil
	}

	model := fetched.Model(datamodel.WithLogger(logger))
	res.Model = model.Stats()
	res.Anomalies = model.Anomalies()

	// Stage 2: Detect
	decision, err := r.Detector.Check(ctx, model)
	if err != nil {
		res.Outcome = OutcomeFailed
		return res, err
	}
	res.Decision = decision
	hooks.OnDecision(ctx, decision.String())
	if !decision.Proceed() {
		res.Outcome = OutcomeUnchanged
		logger.Debug("no changes", "objects", res.Model.Objects, "bindings", res.Model.Bindings)
		return res, nil
	}

	logger.Info("Graphing changes",
		"decision", decision,
		"objects", res.Model.Objects,
		"fact_types", res.Model.FactTypes,
		"bindings", res.Model.Bindings)

	// Stages 3 and 4: Project and render
	renderStart := time.Now()
	for _, g := range projection.All(model) {
		art, err := r.Sink.Write(ctx, g)
		if err != nil {
			res.Outcome = OutcomeFailed
			return res, err
		}
		hooks.OnGraph(ctx, g.Name(), g.NodeCount(), g.EdgeCount())
		res.Graphs = append(res.Graphs, GraphResult{
			Name:      g.Name(),
			Nodes:     g.NodeCount(),
			Edges:     g.EdgeCount(),
			Artifacts: art,
		})
		logger.Debug("rendered graph", "graph", g.Name(), "nodes", g.NodeCount(), "edges", g.EdgeCount())
	}
	res.Stats.RenderTime = time.Since(renderStart)

	// Stage 5: Upload
	uploadStart := time.Now()
	if err := r.upload(ctx, logger, hooks, res); err != nil {
		res.Stats.UploadTime = time.Since(uploadStart)
		res.Outcome = OutcomeUploadFailed
		return res, err
	}
	res.Stats.UploadTime = time.Since(uploadStart)

	res.Outcome = OutcomeRendered
	return res, nil
}

type uploadItem struct {
	path  string
	title string
}

// uploadPlan lists images in projection order, then sources. A path is
// listed once, under its first title.
func uploadPlan(graphs []GraphResult) []uploadItem {
	var items []uploadItem
	seen := make(map[string]struct{})
	add := func(path, title string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		items = append(items, uploadItem{path: path, title: title})
	}

	byName := make(map[string]GraphResult, len(graphs))
	for _, g := range graphs {
		byName[g.Name] = g
		for _, img := range g.Artifacts.Images {
			add(img, upload.ImageTitle(g.Name))
		}
	}
	for _, name := range sourceOrder {
		if g, ok := byName[name]; ok && g.Artifacts.Source != "" {
			add(g.Artifacts.Source, upload.SourceTitle(name))
		}
	}
	return items
}

// upload publishes every artifact to every uploader. An uploader stops at
// its first failure; the remaining uploaders still run.
func (r *Runner) upload(ctx context.Context, logger *log.Logger, hooks observability.Hooks, res *Result) error {
	if len(r.Uploaders) == 0 {
		return nil
	}
	items := uploadPlan(res.Graphs)

	var failures []error
	for _, u := range r.Uploaders {
		for _, it := range items {
			err := u.Upload(ctx, it.path, it.title)
			hooks.OnUpload(ctx, u.Target(), it.title, err)
			if err != nil {
				logger.Error("upload failed", "target", u.Target(), "file", it.path, "err", err)
				failures = append(failures, err)
				break
			}
			res.Uploads++
			logger.Debug("uploaded", "target", u.Target(), "file", it.path, "title", it.title)
		}
	}
	if len(failures) > 0 {
		return errs.Wrap(errs.ErrCodeUploadFailed, errors.Join(failures...), "%d of %d uploaders failed", len(failures), len(r.Uploaders))
	}
	return nil
}

func (r *Runner) hooks() observability.Hooks {
	if r.Hooks == nil {
		return observability.Default()
	}
	return r.Hooks
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}
