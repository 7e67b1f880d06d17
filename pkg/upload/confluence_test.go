package upload

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/mnemonic-no/act-utils/pkg/errors"
)

type posted struct {
	path        string
	file        string
	fileName    string
	contentType string
	comment     string
	token       string
	user        string
}

// fakeWiki emulates the Confluence attachment endpoints for one page.
type fakeWiki struct {
	mu          sync.Mutex
	existing    map[string]string // file name -> attachment id
	posts       []posted
	failUploads bool
}

func (f *fakeWiki) handler(t *testing.T) http.Handler {
	r := chi.NewRouter()
	r.Route("/wiki/rest/api/content/{page}/child/attachment", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, "4242", chi.URLParam(req, "page"))
			name := req.URL.Query().Get("filename")
			var out attachmentList
			if id, ok := f.existing[name]; ok {
				out.Results = append(out.Results, struct {
					ID    string `json:"id"`
					Title string `json:"title"`
				}{ID: id, Title: name})
			}
			_ = json.NewEncoder(w).Encode(out)
		})
		r.Post("/", f.receive(t))
		r.Post("/{id}/data", f.receive(t))
	})
	return r
}

func (f *fakeWiki) receive(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if f.failUploads {
			http.Error(w, `{"message":"not permitted"}`, http.StatusForbidden)
			return
		}
		if !assert.NoError(t, req.ParseMultipartForm(1<<20)) {
			return
		}
		file, hdr, err := req.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		data, _ := io.ReadAll(file)
		user, _, _ := req.BasicAuth()

		f.mu.Lock()
		f.posts = append(f.posts, posted{
			path:        req.URL.Path,
			file:        string(data),
			fileName:    hdr.Filename,
			contentType: hdr.Header.Get("Content-Type"),
			comment:     req.FormValue("comment"),
			token:       req.Header.Get("X-Atlassian-Token"),
			user:        user,
		})
		f.mu.Unlock()
		_, _ = io.WriteString(w, `{"results":[]}`)
	}
}

func newWiki(t *testing.T, f *fakeWiki) *Confluence {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	c, err := NewConfluence(ConfluenceOptions{
		URL:      srv.URL + "/wiki/",
		Username: "bot",
		Password: "pw",
		PageID:   "4242",
	}, log.New(io.Discard))
	require.NoError(t, err)
	return c
}

func writeArtifact(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfluenceNewAttachment(t *testing.T) {
	f := &fakeWiki{existing: map[string]string{}}
	c := newWiki(t, f)
	path := writeArtifact(t, "double.png", "PNGDATA")

	require.NoError(t, c.Upload(context.Background(), path, "Double Edged Facts"))
	require.Len(t, f.posts, 1)
	p := f.posts[0]
	assert.Equal(t, "/wiki/rest/api/content/4242/child/attachment", p.path)
	assert.Equal(t, "PNGDATA", p.file)
	assert.Equal(t, "double.png", p.fileName)
	assert.Equal(t, "image/png", p.contentType)
	assert.Equal(t, "Double Edged Facts", p.comment)
	assert.Equal(t, "no-check", p.token)
	assert.Equal(t, "bot", p.user)
}

func TestConfluenceExistingAttachmentGetsNewVersion(t *testing.T) {
	f := &fakeWiki{existing: map[string]string{"single.dot": "att99"}}
	c := newWiki(t, f)
	path := writeArtifact(t, "single.dot", "digraph {}")

	require.NoError(t, c.Upload(context.Background(), path, "single source"))
	require.Len(t, f.posts, 1)
	assert.Equal(t, "/wiki/rest/api/content/4242/child/attachment/att99/data", f.posts[0].path)
	assert.Equal(t, "text/vnd.graphviz", f.posts[0].contentType)
}

func TestConfluenceUploadRejected(t *testing.T) {
	f := &fakeWiki{existing: map[string]string{}, failUploads: true}
	c := newWiki(t, f)
	path := writeArtifact(t, "complete.png", "x")

	err := c.Upload(context.Background(), path, "All Double Edged Facts")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeUploadFailed))
	assert.Contains(t, err.Error(), "403")
}

func TestConfluenceMissingFile(t *testing.T) {
	c := newWiki(t, &fakeWiki{})
	err := c.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.png"), "x")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeUploadFailed))
}

func TestNewConfluenceValidation(t *testing.T) {
	_, err := NewConfluence(ConfluenceOptions{PageID: "1"}, nil)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))

	_, err = NewConfluence(ConfluenceOptions{URL: "https://wiki.example.org"}, nil)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))

	c, err := NewConfluence(ConfluenceOptions{URL: "https://wiki.example.org/", PageID: "1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://wiki.example.org/rest/api/content/1/child/attachment", c.attachmentsURL())
	assert.Equal(t, "confluence", c.Target())
}
