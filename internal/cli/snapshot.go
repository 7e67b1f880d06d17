package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mnemonic-no/act-utils/pkg/snapshot"
)

// snapshotFlags selects the store the snapshot subcommands operate on.
type snapshotFlags struct {
	configFlags
	file  string
	redis string
	mongo string
}

func (f *snapshotFlags) register(cmd *cobra.Command) {
	f.configFlags.register(cmd)
	cmd.Flags().StringVar(&f.file, "snapshot", snapshot.DefaultFile, "snapshot file")
	cmd.Flags().StringVar(&f.redis, "snapshot-redis", "", "Redis URL holding the snapshot")
	cmd.Flags().StringVar(&f.mongo, "snapshot-mongo", "", "MongoDB URI holding the snapshot")
	cmd.MarkFlagsMutuallyExclusive("snapshot", "snapshot-redis", "snapshot-mongo")
}

// openSnapshot resolves the configured store.
func (c *CLI) openSnapshot(cmd *cobra.Command, f *snapshotFlags) (snapshot.Store, error) {
	cfg, err := c.loadConfig(f.configFlags)
	if err != nil {
		return nil, err
	}
	switch {
	case cmd.Flags().Changed("snapshot"):
		cfg.Snapshot.File, cfg.Snapshot.Redis, cfg.Snapshot.Mongo = f.file, "", ""
	case cmd.Flags().Changed("snapshot-redis"):
		cfg.Snapshot.Redis, cfg.Snapshot.Mongo = f.redis, ""
	case cmd.Flags().Changed("snapshot-mongo"):
		cfg.Snapshot.Redis, cfg.Snapshot.Mongo = "", f.mongo
	}
	return newStore(cmd.Context(), cfg, false)
}

// snapshotCommand creates the snapshot management command.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect or reset the stored data model snapshot",
	}

	cmd.AddCommand(c.snapshotShowCommand())
	cmd.AddCommand(c.snapshotClearCommand())

	return cmd
}

// snapshotShowCommand creates the "snapshot show" subcommand.
func (c *CLI) snapshotShowCommand() *cobra.Command {
	var flags snapshotFlags
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Summarize the stored snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openSnapshot(cmd, &flags)
			if err != nil {
				return err
			}
			defer closeStore(ctx, store)

			rec, err := store.Load(ctx)
			switch {
			case errors.Is(err, snapshot.ErrNotFound):
				c.out.info("No snapshot stored")
				c.out.detail("Location: %s", store.Location())
				return nil
			case err != nil:
				return err
			}

			c.out.keyValue("Location", store.Location())
			c.out.keyValue("Saved", rec.SavedAt.Local().Format(time.DateTime))
			c.out.keyValue("Version", strconv.Itoa(rec.Version))
			c.out.keyValue("Digest", rec.Digest()[:12])
			c.out.keyValue("Objects", strconv.Itoa(len(rec.Objects)))
			c.out.keyValue("Bindings", strconv.Itoa(len(rec.Facts)))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// snapshotClearCommand creates the "snapshot clear" subcommand.
func (c *CLI) snapshotClearCommand() *cobra.Command {
	var flags snapshotFlags
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored snapshot so the next run renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openSnapshot(cmd, &flags)
			if err != nil {
				return err
			}
			defer closeStore(ctx, store)

			if err := store.Clear(ctx); err != nil {
				return fmt.Errorf("clear snapshot: %w", err)
			}
			c.out.success("Snapshot cleared")
			c.out.detail("Location: %s", store.Location())
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
