package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "sparqline/1.0"
	resultsMediaType = "application/sparql-results+json"

	// maxErrorBody bounds how much of an error response body is copied
	// into the diagnostic message.
	maxErrorBody = 512
)

// Client executes queries against SPARQL endpoints.
//
// The zero value is not usable; construct with NewClient. A Client is
// safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
	now        func() time.Time
}

// ClientConfig parameterizes NewClient. Zero fields take defaults.
type ClientConfig struct {
	// Timeout bounds each request, independent of the caller's context.
	// Defaults to 30s.
	Timeout time.Duration

	// UserAgent overrides the User-Agent header.
	UserAgent string

	// Now is the clock used for Elapsed measurement. Tests substitute a
	// fixed clock for deterministic timings. Defaults to time.Now.
	Now func() time.Time
}

// NewClient constructs a Client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		now:        cfg.Now,
	}
}

// Execute runs a query against the endpoint and returns the decoded
// result set.
//
// The query is sent as a form-encoded POST. Endpoints that reject POST
// with 405 Method Not Allowed get a single GET retry with the query in
// the URL. Any other non-2xx status, transport failure, or malformed
// results envelope returns an *EndpointError.
func (c *Client) Execute(ctx context.Context, endpoint, query string) (*ResultSet, error) {
	start := c.now()

	resp, err := c.post(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusMethodNotAllowed {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		resp, err = c.get(ctx, endpoint, query)
		if err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &EndpointError{
			Code:    ErrCodeBadStatus,
			Message: fmt.Sprintf("endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(body))),
			Status:  resp.StatusCode,
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &EndpointError{
			Code:    ErrCodeBadEnvelope,
			Message: "decoding results envelope",
			Status:  resp.StatusCode,
			Err:     err,
		}
	}

	rs, err := tabulate(env)
	if err != nil {
		return nil, err
	}
	rs.Elapsed = c.now().Sub(start)
	return rs, nil
}

func (c *Client) post(ctx context.Context, endpoint, query string) (*http.Response, error) {
	form := url.Values{"query": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &EndpointError{Code: ErrCodeRequestFailed, Message: "building request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req)
}

func (c *Client) get(ctx context.Context, endpoint, query string) (*http.Response, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, &EndpointError{Code: ErrCodeRequestFailed, Message: "parsing endpoint URL", Err: err}
	}
	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &EndpointError{Code: ErrCodeRequestFailed, Message: "building request", Err: err}
	}
	return c.send(req)
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", resultsMediaType)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &EndpointError{Code: ErrCodeRequestFailed, Message: "sending request", Err: err}
	}
	return resp, nil
}

// tabulate flattens a decoded envelope into a ResultSet.
func tabulate(env envelope) (*ResultSet, error) {
	if env.Boolean != nil {
		return &ResultSet{
			Columns: []string{"boolean"},
			Rows:    [][]string{{strconv.FormatBool(*env.Boolean)}},
		}, nil
	}
	if env.Results == nil {
		return nil, &EndpointError{
			Code:    ErrCodeBadEnvelope,
			Message: "envelope has neither results nor boolean",
		}
	}

	rs := &ResultSet{
		Columns: env.Head.Vars,
		Rows:    make([][]string, 0, len(env.Results.Bindings)),
	}
	for _, binding := range env.Results.Bindings {
		row := make([]string, len(rs.Columns))
		for i, col := range rs.Columns {
			// Unbound variables stay "".
			row[i] = binding[col].Value
		}
		rs.Rows = append(rs.Rows, row)
	}
	return rs, nil
}
