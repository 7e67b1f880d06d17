package actapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mnemonic-no/act-utils/pkg/buildinfo"
	"github.com/mnemonic-no/act-utils/pkg/datamodel"
	errs "github.com/mnemonic-no/act-utils/pkg/errors"
	"github.com/mnemonic-no/act-utils/pkg/httputil"
)

const (
	objectTypePath = "/v1/objectType"
	factTypePath   = "/v1/factType"

	// HeaderUserID carries the numeric ACT user the request acts on behalf of.
	HeaderUserID = "ACT-User-ID"
)

// Options configures a Client.
type Options struct {
	BaseURL   string // ACT instance, e.g. "https://act.example.org"
	Username  string // HTTP basic auth user; empty disables auth
	Password  string // HTTP basic auth password; required with Username
	UserID    int    // value of the ACT-User-ID header
	Transport httputil.TransportOptions
}

// Client retrieves the ACT type catalogs.
type Client struct {
	http       *http.Client
	objectsURL string
	factsURL   string
	username   string
	password   string
	headers    map[string]string
	logger     *log.Logger
}

// NewClient validates opts and creates a Client. A nil logger uses log.Default().
func NewClient(opts Options, logger *log.Logger) (*Client, error) {
	if err := errs.ValidateBaseURL(opts.BaseURL); err != nil {
		return nil, err
	}
	if (opts.Username == "") != (opts.Password == "") {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "HTTP username and password must be given together")
	}
	if logger == nil {
		logger = log.Default()
	}

	hc, err := httputil.NewClient(opts.Transport)
	if err != nil {
		return nil, err
	}
	objectsURL, err := resolve(opts.BaseURL, objectTypePath)
	if err != nil {
		return nil, err
	}
	factsURL, err := resolve(opts.BaseURL, factTypePath)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:       hc,
		objectsURL: objectsURL,
		factsURL:   factsURL,
		username:   opts.Username,
		password:   opts.Password,
		headers: map[string]string{
			HeaderUserID: strconv.Itoa(opts.UserID),
			"Accept":     "application/json",
			"User-Agent": buildinfo.UserAgent(),
		},
		logger: logger,
	}, nil
}

// resolve joins an absolute API path onto base. Like urljoin, the path
// replaces whatever path base carries.
func resolve(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "parse base URL")
	}
	return u.ResolveReference(&url.URL{Path: path}).String(), nil
}

// ObjectsURL returns the object type catalog endpoint.
func (c *Client) ObjectsURL() string { return c.objectsURL }

// FactsURL returns the fact type catalog endpoint.
func (c *Client) FactsURL() string { return c.factsURL }

// Result is the outcome of one fetch.
// Objects and Facts are both nil unless Status is 200.
type Result struct {
	Status   int
	URL      string // last endpoint requested
	Objects  *datamodel.ObjectTypeList
	Facts    *datamodel.FactTypeList
	Duration time.Duration
}

// OK reports whether both catalogs were retrieved.
func (r *Result) OK() bool {
	return r != nil && r.Status == http.StatusOK && r.Objects != nil && r.Facts != nil
}

// Model wraps the fetched catalogs. The model is poisoned unless OK.
func (r *Result) Model(opts ...datamodel.Option) *datamodel.Model {
	if !r.OK() {
		return datamodel.New(nil, nil, opts...)
	}
	return datamodel.New(r.Objects, r.Facts, opts...)
}

// Fetch retrieves the object type catalog, then the fact type catalog.
//
// A non-200 status is not an error: it is returned in Result.Status with both
// payloads discarded. Transport and decoding failures return an error together
// with a poisoned Result.
func (c *Client) Fetch(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{}

	var objects datamodel.ObjectTypeList
	status, err := c.get(ctx, c.objectsURL, &objects)
	res.Status, res.URL = status, c.objectsURL
	if err != nil || status != http.StatusOK {
		if status != 0 {
			c.logger.Debug("error loading object types", "status", status)
		}
		res.Duration = time.Since(start)
		return res, err
	}

	var facts datamodel.FactTypeList
	status, err = c.get(ctx, c.factsURL, &facts)
	res.Status, res.URL = status, c.factsURL
	if err != nil || status != http.StatusOK {
		if status != 0 {
			c.logger.Debug("error loading fact types", "status", status)
		}
		res.Duration = time.Since(start)
		return res, err
	}

	res.Objects = &objects
	res.Facts = &facts
	res.Duration = time.Since(start)
	c.logger.Debug("fetched catalogs",
		"object_types", len(objects.Data),
		"fact_types", len(facts.Data),
		"duration", res.Duration.Round(time.Millisecond))
	return res, nil
}

// get performs one catalog request. It returns the HTTP status and decodes the
// body into v only for a 200 answer.
func (c *Client) get(ctx context.Context, url string, v any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidInput, err, "build request")
	}
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeNetwork, err, "GET %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return resp.StatusCode, errs.Wrap(errs.ErrCodeInvalidPayload, err, "decode %s", url)
	}
	return resp.StatusCode, nil
}
