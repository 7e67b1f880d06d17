// Package observability provides hooks for metrics and tracing of a grapher run.
//
// The pipeline reports events through a [Hooks] value. Backends such as the
// Prometheus registry in pkg/metrics implement the interface; [Noop] is the
// default.
//
// # Usage
//
// Register hooks process-wide before a run:
//
//	observability.SetHooks(reg)
//	defer observability.Reset()
//	// pipeline.Runner with nil Hooks picks up observability.Default()
//
// or inject them into a single runner:
//
//	runner := &pipeline.Runner{Hooks: reg}
package observability

import (
	"context"
	"sync"
	"time"
)

// Hooks receives events from a grapher run.
type Hooks interface {
	// OnFetch records the catalog fetch. status is 0 for transport failures.
	OnFetch(ctx context.Context, status int, duration time.Duration, err error)

	// OnDecision records the change detector verdict.
	OnDecision(ctx context.Context, decision string)

	// OnGraph records a rendered graph.
	OnGraph(ctx context.Context, name string, nodes, edges int)

	// OnUpload records one artifact upload.
	OnUpload(ctx context.Context, target, title string, err error)

	// OnRunComplete records the end of a run.
	OnRunComplete(ctx context.Context, outcome string, duration time.Duration)
}

// Noop ignores all events.
type Noop struct{}

func (Noop) OnFetch(context.Context, int, time.Duration, error)   {}
func (Noop) OnDecision(context.Context, string)                   {}
func (Noop) OnGraph(context.Context, string, int, int)            {}
func (Noop) OnUpload(context.Context, string, string, error)      {}
func (Noop) OnRunComplete(context.Context, string, time.Duration) {}

var (
	hooks   Hooks = Noop{}
	hooksMu sync.RWMutex
)

// SetHooks registers process-wide hooks. Nil is ignored.
// Call once at startup before any run.
func SetHooks(h Hooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		hooks = h
	}
}

// Default returns the registered hooks.
func Default() Hooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return hooks
}

// Reset restores the no-op default.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	hooks = Noop{}
}
