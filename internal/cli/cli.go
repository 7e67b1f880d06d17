package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mnemonic-no/act-utils/pkg/buildinfo"
	"github.com/mnemonic-no/act-utils/pkg/config"
	errs "github.com/mnemonic-no/act-utils/pkg/errors"
	"github.com/mnemonic-no/act-utils/pkg/snapshot"
)

// appName is the command name shown in usage and completion scripts.
const appName = buildinfo.Name

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit statuses returned by ExitCode.
const (
	ExitOK       = 0
	ExitFailure  = 1   // the run failed
	ExitUsage    = 2   // invalid flags, configuration or input
	ExitCanceled = 130 // interrupted, shell convention for SIGINT
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out *printer

	// lookupEnv reads the environment; tests replace it.
	lookupEnv func(string) (string, bool)
}

// New creates a CLI that logs to w and prints summaries to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), out: newPrinter(os.Stdout)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           appName,
		Short:         "Graph the data model of an ACT platform",
		Long:          `act-datamodel fetches the object and fact type catalogs of an ACT platform, and when they changed since the last run renders them as Graphviz graphs and optionally publishes the images.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.graphCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the command line in args and returns the process exit status.
// Errors are reported on stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := New(stderr, LogInfo)
	c.out = newPrinter(stdout)

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		newPrinter(stderr).failure("%s", errs.UserMessage(err))
		c.Logger.Debug("command failed", "code", errs.GetCode(err), "err", err)
	}
	return ExitCode(err)
}

// ExitCode maps a command error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidConfig, errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat:
		return ExitUsage
	}
	return ExitFailure
}

// =============================================================================
// Configuration
// =============================================================================

// configFlags are the flags every command reading the configuration shares.
type configFlags struct {
	file    string
	envFile string
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "config", "", "TOML configuration file")
	cmd.Flags().StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded into the environment when present")
}

// loadConfig merges defaults, the config file and the environment.
// Flags are applied by the caller.
func (c *CLI) loadConfig(f configFlags) (*config.Config, error) {
	cfg := config.Default()
	if f.file != "" {
		if err := config.LoadFile(f.file, cfg); err != nil {
			return nil, err
		}
	}
	if c.lookupEnv != nil {
		if err := config.ApplyEnv(cfg, c.lookupEnv); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err := config.LoadEnv(f.envFile, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// =============================================================================
// Snapshot Store Factory
// =============================================================================

// newStore opens the snapshot store selected by cfg. force selects a store
// that never remembers anything, so every run is a first run.
func newStore(ctx context.Context, cfg *config.Config, force bool) (snapshot.Store, error) {
	switch {
	case force:
		return snapshot.NewNullStore(), nil
	case cfg.Snapshot.Redis != "":
		return snapshot.NewRedisStore(snapshot.RedisOptions{
			URL: cfg.Snapshot.Redis,
			Key: cfg.Snapshot.RedisKey,
		})
	case cfg.Snapshot.Mongo != "":
		return snapshot.NewMongoStore(ctx, snapshot.MongoOptions{
			URI:      cfg.Snapshot.Mongo,
			Database: cfg.Snapshot.MongoDatabase,
		})
	default:
		return snapshot.NewFileStore(cfg.Snapshot.File), nil
	}
}

// closeStore closes s, logging instead of failing the command.
func closeStore(ctx context.Context, s snapshot.Store) {
	if err := s.Close(); err != nil {
		loggerFromContext(ctx).Warn("close snapshot store", "err", err)
	}
}
