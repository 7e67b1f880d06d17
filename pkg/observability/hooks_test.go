package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	events []string
}

func (r *recorder) OnFetch(_ context.Context, status int, _ time.Duration, err error) {
	r.events = append(r.events, "fetch")
}
func (r *recorder) OnDecision(_ context.Context, d string) { r.events = append(r.events, "decision:"+d) }
func (r *recorder) OnGraph(_ context.Context, name string, _, _ int) {
	r.events = append(r.events, "graph:"+name)
}
func (r *recorder) OnUpload(_ context.Context, target, title string, _ error) {
	r.events = append(r.events, "upload:"+target+":"+title)
}
func (r *recorder) OnRunComplete(_ context.Context, outcome string, _ time.Duration) {
	r.events = append(r.events, "done:"+outcome)
}

func emitAll(h Hooks) {
	ctx := context.Background()
	h.OnFetch(ctx, 200, time.Second, nil)
	h.OnDecision(ctx, "changed")
	h.OnGraph(ctx, "double", 2, 1)
	h.OnUpload(ctx, "confluence", "Double Edged Facts", errors.New("boom"))
	h.OnRunComplete(ctx, "rendered", time.Second)
}

func TestNoopDoesNotPanic(t *testing.T) {
	emitAll(Noop{})
}

func TestDefaultRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	_, ok := Default().(Noop)
	assert.True(t, ok, "default is noop")

	r := &recorder{}
	SetHooks(r)
	assert.Same(t, r, Default())

	SetHooks(nil)
	assert.Same(t, r, Default(), "nil is ignored")

	Reset()
	_, ok = Default().(Noop)
	assert.True(t, ok)
}
