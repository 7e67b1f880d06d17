package snapshot

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/mnemonic-no/act-utils/pkg/datamodel"
	errs "github.com/mnemonic-no/act-utils/pkg/errors"
)

// Decision is the outcome of a change check.
type Decision int

const (
	// DecisionFirstRun means no usable snapshot existed.
	DecisionFirstRun Decision = iota
	// DecisionUnchanged means the model equals the stored snapshot.
	DecisionUnchanged
	// DecisionChanged means the model differs from the stored snapshot.
	DecisionChanged
)

func (d Decision) String() string {
	switch d {
	case DecisionFirstRun:
		return "first_run"
	case DecisionUnchanged:
		return "unchanged"
	case DecisionChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// Proceed reports whether graphs should be generated.
func (d Decision) Proceed() bool { return d != DecisionUnchanged }

// Detector compares fetched models against the stored snapshot.
type Detector struct {
	store  Store
	logger *log.Logger
}

// NewDetector creates a detector over store. A nil logger uses log.Default().
func NewDetector(store Store, logger *log.Logger) *Detector {
	if logger == nil {
		logger = log.Default()
	}
	return &Detector{store: store, logger: logger}
}

// Store returns the underlying store.
func (d *Detector) Store() Store { return d.store }

// Check decides whether m is new. On a first run or a change the snapshot of
// m is saved before Check returns, so rendering always follows the write.
//
// A poisoned model is refused with ErrCodeFetchFailed and never touches the
// store. A corrupt stored snapshot is reported and treated as a first run.
func (d *Detector) Check(ctx context.Context, m *datamodel.Model) (Decision, error) {
	if m == nil || !m.Loaded() {
		return DecisionUnchanged, errs.New(errs.ErrCodeFetchFailed, "refusing to compare a model that failed to load")
	}

	decision, err := d.compare(ctx, m)
	if err != nil {
		return decision, err
	}
	if decision == DecisionUnchanged {
		d.logger.Debug("data model unchanged", "snapshot", d.store.Location())
		return decision, nil
	}

	if err := d.store.Save(ctx, m.Snapshot()); err != nil {
		return decision, err
	}
	d.logger.Debug("snapshot saved", "snapshot", d.store.Location(), "decision", decision)
	return decision, nil
}

func (d *Detector) compare(ctx context.Context, m *datamodel.Model) (Decision, error) {
	rec, err := d.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		d.logger.Info("First run")
		return DecisionFirstRun, nil
	case errors.Is(err, ErrCorrupt):
		d.logger.Warn("stored snapshot is unreadable, treating as first run", "snapshot", d.store.Location(), "err", err)
		return DecisionFirstRun, nil
	case err != nil:
		return DecisionUnchanged, err
	}

	prev := datamodel.FromSnapshot(rec.Snapshot, datamodel.WithLogger(log.New(io.Discard)))
	if prev.Equal(m) {
		return DecisionUnchanged, nil
	}
	return DecisionChanged, nil
}
