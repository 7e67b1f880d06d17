package cli

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mnemonic-no/act-utils/pkg/actapi"
	"github.com/mnemonic-no/act-utils/pkg/config"
	errs "github.com/mnemonic-no/act-utils/pkg/errors"
	"github.com/mnemonic-no/act-utils/pkg/metrics"
	"github.com/mnemonic-no/act-utils/pkg/observability"
	"github.com/mnemonic-no/act-utils/pkg/pipeline"
	"github.com/mnemonic-no/act-utils/pkg/render"
	"github.com/mnemonic-no/act-utils/pkg/snapshot"
	"github.com/mnemonic-no/act-utils/pkg/upload"
)

// graphFlags holds the values of the graph command flags. Only flags the
// user set override the configuration.
type graphFlags struct {
	configFlags

	userID       int
	httpUsername string
	httpPassword string
	cacert       string
	insecure     bool

	parentID           string
	confluenceURL      string
	confluenceUser     string
	confluencePassword string

	output     string
	dumpSource string
	formats    string

	snapshotFile  string
	snapshotRedis string
	snapshotMongo string
	force         bool

	s3Bucket   string
	s3Prefix   string
	s3Region   string
	s3Endpoint string

	metricsFile string
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var flags graphFlags

	cmd := &cobra.Command{
		Use:   "graph [url]",
		Short: "Render the ACT data model when it changed",
		Long: `Fetch the object and fact types from the ACT platform at url and compare
them with the snapshot of the previous run. When they changed, render three
graphs (double, single, complete) and upload them when a destination is
configured.

The URL may also come from the configuration file or ACT_URL.`,
		Example: `  # Render into ./output and remember the model in ./cache.json
  act-datamodel graph https://act.example.com

  # Attach PNG and SVG images to a Confluence page
  act-datamodel graph https://act.example.com --format png,svg \
    --confluence-url https://wiki.example.com --parent-id 123456`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(flags.configFlags)
			if err != nil {
				return err
			}
			flags.apply(cmd, args, cfg)
			if err := config.Validate(cfg); err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), cfg, flags.force)
		},
	}

	flags.register(cmd)

	return cmd
}

// register defines the graph flags on cmd.
func (f *graphFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.userID, "uid", 1, "ACT user id sent in the ACT-User-ID header")
	cmd.Flags().StringVar(&f.httpUsername, "http-username", "", "HTTP basic auth user for ACT")
	cmd.Flags().StringVar(&f.httpPassword, "http-password", "", "HTTP basic auth password for ACT")
	cmd.Flags().StringVar(&f.cacert, "cacert", "", "CA bundle used to verify the servers")
	cmd.Flags().BoolVar(&f.insecure, "insecure", false, "skip TLS certificate verification")
	cmd.MarkFlagsMutuallyExclusive("cacert", "insecure")

	cmd.Flags().StringVar(&f.parentID, "parent-id", "", "Confluence page the images are attached to")
	cmd.Flags().StringVar(&f.confluenceURL, "confluence-url", "", "Confluence base URL")
	cmd.Flags().StringVar(&f.confluenceUser, "confluence-user", "", "Confluence user")
	cmd.Flags().StringVar(&f.confluencePassword, "confluence-password", "", "Confluence password")

	cmd.Flags().StringVarP(&f.output, "output", "o", render.DefaultOutputDir, "image directory")
	cmd.Flags().StringVar(&f.dumpSource, "dump-source", "", "also write the DOT sources to this directory")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "png", "image formats: png, svg, dot (comma-separated)")

	cmd.Flags().StringVar(&f.snapshotFile, "snapshot", snapshot.DefaultFile, "snapshot file")
	cmd.Flags().StringVar(&f.snapshotRedis, "snapshot-redis", "", "keep the snapshot in Redis (redis://host:port/db)")
	cmd.Flags().BoolVar(&f.force, "force", false, "ignore the stored snapshot and render anyway")
	cmd.Flags().StringVar(&f.snapshotMongo, "snapshot-mongo", "", "keep the snapshot in MongoDB (mongodb://host:port)")
	cmd.MarkFlagsMutuallyExclusive("snapshot", "snapshot-redis", "snapshot-mongo")

	cmd.Flags().StringVar(&f.s3Bucket, "s3-bucket", "", "publish artifacts to this S3 bucket")
	cmd.Flags().StringVar(&f.s3Prefix, "s3-prefix", "", "key prefix for published artifacts")
	cmd.Flags().StringVar(&f.s3Region, "s3-region", "", "AWS region of the bucket")
	cmd.Flags().StringVar(&f.s3Endpoint, "s3-endpoint", "", "S3-compatible endpoint, e.g. MinIO")

	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format")

	f.configFlags.register(cmd)
}

// apply overlays the flags the user set, and the url argument, onto cfg.
func (f *graphFlags) apply(cmd *cobra.Command, args []string, cfg *config.Config) {
	changed := cmd.Flags().Changed
	setString := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}

	if len(args) == 1 {
		cfg.ACT.URL = args[0]
	}
	if changed("uid") {
		cfg.ACT.UserID = f.userID
	}
	setString("http-username", &cfg.ACT.HTTPUsername, f.httpUsername)
	setString("http-password", &cfg.ACT.HTTPPassword, f.httpPassword)
	if changed("cacert") {
		cfg.ACT.CACert, cfg.ACT.Insecure = f.cacert, false
	}
	if changed("insecure") {
		cfg.ACT.Insecure = f.insecure
		if f.insecure {
			cfg.ACT.CACert = ""
		}
	}

	setString("parent-id", &cfg.Confluence.PageID, f.parentID)
	setString("confluence-url", &cfg.Confluence.URL, f.confluenceURL)
	setString("confluence-user", &cfg.Confluence.User, f.confluenceUser)
	setString("confluence-password", &cfg.Confluence.Password, f.confluencePassword)

	setString("output", &cfg.Output.Dir, f.output)
	setString("dump-source", &cfg.Output.SourceDir, f.dumpSource)
	if changed("format") {
		cfg.Output.Formats = splitList(f.formats)
	}

	setString("snapshot", &cfg.Snapshot.File, f.snapshotFile)
	setString("snapshot-redis", &cfg.Snapshot.Redis, f.snapshotRedis)
	setString("snapshot-mongo", &cfg.Snapshot.Mongo, f.snapshotMongo)
	switch {
	case changed("snapshot"):
		cfg.Snapshot.Redis, cfg.Snapshot.Mongo = "", ""
	case changed("snapshot-redis"):
		cfg.Snapshot.Mongo = ""
	case changed("snapshot-mongo"):
		cfg.Snapshot.Redis = ""
	}

	setString("s3-bucket", &cfg.S3.Bucket, f.s3Bucket)
	setString("s3-prefix", &cfg.S3.Prefix, f.s3Prefix)
	setString("s3-region", &cfg.S3.Region, f.s3Region)
	setString("s3-endpoint", &cfg.S3.Endpoint, f.s3Endpoint)

	setString("metrics-file", &cfg.MetricsFile, f.metricsFile)
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// =============================================================================
// Execution
// =============================================================================

// runGraph wires the components described by cfg and performs one run.
func (c *CLI) runGraph(ctx context.Context, cfg *config.Config, force bool) error {
	logger := loggerFromContext(ctx)

	runner, cleanup, err := c.newRunner(ctx, cfg, force)
	if err != nil {
		return err
	}
	defer cleanup()

	reg := metrics.NewRegistry()
	observability.SetHooks(reg)
	defer observability.Reset()

	watch := startStopwatch(logger)
	res, runErr := runner.Run(ctx)
	watch.stop(runLogLevel(res), "Run finished", "outcome", res.Outcome)

	if cfg.MetricsFile != "" {
		if err := reg.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("write metrics", "path", cfg.MetricsFile, "err", err)
		}
	}

	c.out.result(res)

	if runErr != nil {
		return runErr
	}
	if res.Outcome == pipeline.OutcomeFetchFailed {
		return errs.Wrap(errs.ErrCodeFetchFailed,
			&errs.StatusError{URL: res.FetchURL, StatusCode: res.Status}, "fetch catalogs")
	}
	return nil
}

// runLogLevel keeps the unchanged steady state quiet unless --verbose.
func runLogLevel(res *pipeline.Result) log.Level {
	if res != nil && res.Outcome == pipeline.OutcomeUnchanged {
		return log.DebugLevel
	}
	return log.InfoLevel
}

// newRunner builds the pipeline runner for cfg. cleanup releases the
// snapshot store.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, force bool) (*pipeline.Runner, func(), error) {
	logger := loggerFromContext(ctx)

	client, err := actapi.NewClient(actapi.Options{
		BaseURL:   cfg.ACT.URL,
		Username:  cfg.ACT.HTTPUsername,
		Password:  cfg.ACT.HTTPPassword,
		UserID:    cfg.ACT.UserID,
		Transport: cfg.Transport(),
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("catalog endpoints", "objects", client.ObjectsURL(), "facts", client.FactsURL())

	formats, err := render.ParseFormats(cfg.Output.Formats)
	if err != nil {
		return nil, nil, err
	}
	sink := &render.Sink{
		OutputDir: cfg.Output.Dir,
		SourceDir: cfg.Output.SourceDir,
		Formats:   formats,
		Logger:    logger,
	}

	uploaders, err := newUploaders(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := newStore(ctx, cfg, force)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("snapshot store", "location", store.Location())

	runner := pipeline.NewRunner(client, snapshot.NewDetector(store, logger), sink, logger)
	runner.Uploaders = uploaders
	return runner, func() { closeStore(ctx, store) }, nil
}

// newUploaders creates the upload destinations cfg enables.
func newUploaders(ctx context.Context, cfg *config.Config) ([]upload.Uploader, error) {
	logger := loggerFromContext(ctx)
	var out []upload.Uploader

	if cfg.ConfluenceEnabled() {
		wiki, err := upload.NewConfluence(upload.ConfluenceOptions{
			URL:       cfg.Confluence.URL,
			Username:  cfg.Confluence.User,
			Password:  cfg.Confluence.Password,
			PageID:    cfg.Confluence.PageID,
			Transport: cfg.ConfluenceTransport(),
		}, logger)
		if err != nil {
			return nil, err
		}
		out = append(out, wiki)
	}

	if cfg.S3Enabled() {
		pub, err := upload.NewS3Publisher(ctx, upload.S3Options{
			Bucket:   cfg.S3.Bucket,
			Prefix:   cfg.S3.Prefix,
			Region:   cfg.S3.Region,
			Endpoint: cfg.S3.Endpoint,

			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		}, logger)
		if err != nil {
			return nil, err
		}
		out = append(out, pub)
	}
	return out, nil
}

// =============================================================================
// Output
// =============================================================================

// result summarizes a run.
func (p *printer) result(res *pipeline.Result) {
	if res == nil {
		return
	}
	switch res.Outcome {
	case pipeline.OutcomeFetchFailed, pipeline.OutcomeFailed:
		p.failure("Run %s", res.Outcome)
		return
	case pipeline.OutcomeUnchanged:
		return
	}

	if len(res.Anomalies) > 0 {
		p.warning("Skipped %d malformed catalog entries", len(res.Anomalies))
	}
	p.success("Rendered %d graphs (%s)", len(res.Graphs), res.Decision)
	for _, g := range res.Graphs {
		p.graph(g.Name, g.Nodes, g.Edges)
		for _, path := range g.Artifacts.Images {
			p.file(path)
		}
		if g.Artifacts.Source != "" {
			p.file(g.Artifacts.Source)
		}
	}
	if res.Uploads > 0 {
		p.detail("%d files uploaded", res.Uploads)
	}
	if res.Outcome == pipeline.OutcomeUploadFailed {
		p.failure("Upload failed")
	}
	p.keyValue("Duration", res.Stats.Total.Round(time.Millisecond).String())
}
