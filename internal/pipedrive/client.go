// Package pipedrive is a minimal client for the Pipedrive REST API, covering
// the handful of resources this service consumes: stages, deals, persons,
// notes and activities. Every call carries the api_token query parameter and
// fails on any non-2xx response. There are no retries.
package pipedrive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds every outbound API call.
const DefaultTimeout = 30 * time.Second

// pageSize is the bulk-listing page size. Fetching continues while the last
// page came back full, so a listing of exactly N*pageSize deals issues one
// extra request that returns empty.
const pageSize = 500

// ErrNoteNotLinkable is returned when a note has no identifier to attach to.
// The upstream API rejects link-less notes, so this is a caller defect and
// must fail loudly rather than drop the note.
var ErrNoteNotLinkable = errors.New("pipedrive: note has no linkable identifier")

// Config holds the settings needed to reach the Pipedrive API.
type Config struct {
	BaseURL    string
	APIToken   string
	HTTPClient *http.Client // optional; defaults to a client with DefaultTimeout
}

// Client talks to the Pipedrive API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: cfg.BaseURL, token: cfg.APIToken, http: hc}
}

// envelope is the standard Pipedrive response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	query := url.Values{}
	query.Set("api_token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path+"?"+query.Encode(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Read unbounded: a bulk deal page at limit=500 is routinely several MB.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, body)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%s %s: decode envelope: %w", req.Method, req.URL.Path, err)
	}
	return env.Data, nil
}
