package pipeline

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type hookRecorder struct {
	events []string
}

func (h *hookRecorder) OnFetch(_ context.Context, status int, _ time.Duration, _ error) {
	h.events = append(h.events, "fetch:"+strconv.Itoa(status))
}

func (h *hookRecorder) OnDecision(_ context.Context, decision string) {
	h.events = append(h.events, "decision:"+decision)
}

func (h *hookRecorder) OnGraph(_ context.Context, name string, _, _ int) {
	h.events = append(h.events, "graph:"+name)
}

func (h *hookRecorder) OnUpload(_ context.Context, target, _ string, _ error) {
	h.events = append(h.events, "upload:"+target)
}

func (h *hookRecorder) OnRunComplete(_ context.Context, outcome string, _ time.Duration) {
	h.events = append(h.events, "done:"+outcome)
}

func newFakeACT(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/v1/objectType", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, objectsJSON)
	})
	r.Get("/v1/factType", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, factsJSON)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}
