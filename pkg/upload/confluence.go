package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mnemonic-no/act-utils/pkg/buildinfo"
	errs "github.com/mnemonic-no/act-utils/pkg/errors"
	"github.com/mnemonic-no/act-utils/pkg/httputil"
)

// ConfluenceOptions configures a Confluence uploader.
type ConfluenceOptions struct {
	URL       string // wiki base URL, including any context path
	Username  string
	Password  string
	PageID    string // page the files are attached to
	Transport httputil.TransportOptions
}

// Confluence attaches files to a Confluence page through the REST API.
type Confluence struct {
	http     *http.Client
	base     string
	username string
	password string
	pageID   string
	logger   *log.Logger
}

// NewConfluence validates opts and creates the uploader.
func NewConfluence(opts ConfluenceOptions, logger *log.Logger) (*Confluence, error) {
	if err := errs.ValidateBaseURL(opts.URL); err != nil {
		return nil, err
	}
	if opts.PageID == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "confluence page id is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	hc, err := httputil.NewClient(opts.Transport)
	if err != nil {
		return nil, err
	}
	return &Confluence{
		http:     hc,
		base:     strings.TrimRight(opts.URL, "/"),
		username: opts.Username,
		password: opts.Password,
		pageID:   opts.PageID,
		logger:   logger,
	}, nil
}

// Target returns "confluence".
func (c *Confluence) Target() string { return "confluence" }

type attachmentList struct {
	Results []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"results"`
}

// Upload attaches path to the page under its base name, with title as the
// attachment comment. An existing attachment of the same name gets a new
// version.
func (c *Confluence) Upload(ctx context.Context, path, title string) error {
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeUploadFailed, err, "read %s", path)
	}

	id, err := c.findAttachment(ctx, name)
	if err != nil {
		return err
	}

	endpoint := c.attachmentsURL()
	if id != "" {
		endpoint += "/" + url.PathEscape(id) + "/data"
	}

	body, contentType, err := multipartBody(name, ContentType(path), data, title)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Atlassian-Token", "no-check")

	if _, err := c.do(req); err != nil {
		return err
	}
	c.logger.Debug("attached file", "page", c.pageID, "file", name, "title", title, "new_version", id != "")
	return nil
}

func (c *Confluence) attachmentsURL() string {
	return fmt.Sprintf("%s/rest/api/content/%s/child/attachment", c.base, url.PathEscape(c.pageID))
}

func (c *Confluence) findAttachment(ctx context.Context, name string) (string, error) {
	q := url.Values{"filename": {name}}
	req, err := c.newRequest(ctx, http.MethodGet, c.attachmentsURL()+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	data, err := c.do(req)
	if err != nil {
		return "", err
	}
	var list attachmentList
	if err := json.Unmarshal(data, &list); err != nil {
		return "", errs.Wrap(errs.ErrCodeUploadFailed, err, "decode attachment list")
	}
	if len(list.Results) == 0 {
		return "", nil
	}
	return list.Results[0].ID, nil
}

func (c *Confluence) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeUploadFailed, err, "build request")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	return req, nil
}

func (c *Confluence) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.New(errs.ErrCodeUploadFailed, "%s %s: status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(snippet(data)))
	}
	return data, nil
}

func multipartBody(name, contentType string, data []byte, comment string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", errs.Wrap(errs.ErrCodeUploadFailed, err, "build multipart body")
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", errs.Wrap(errs.ErrCodeUploadFailed, err, "build multipart body")
	}
	if err := w.WriteField("comment", comment); err != nil {
		return nil, "", errs.Wrap(errs.ErrCodeUploadFailed, err, "build multipart body")
	}
	if err := w.WriteField("minorEdit", "true"); err != nil {
		return nil, "", errs.Wrap(errs.ErrCodeUploadFailed, err, "build multipart body")
	}
	if err := w.Close(); err != nil {
		return nil, "", errs.Wrap(errs.ErrCodeUploadFailed, err, "build multipart body")
	}
	return &buf, w.FormDataContentType(), nil
}

func snippet(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
