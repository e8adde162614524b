// Package remote fetches the two hosted representations of the
// accreditation dataset: a flat per-element edits table and a
// normalized chapter/standard/element schema. Both reads are
// PostgREST-style endpoints on the hosted database.
//
// Failures never escape this package as panics or transport errors in
// disguise; every fetch settles into a result value the merge engine
// can inspect.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"accredo/api/internal/compliance"
)

const defaultTimeout = 30 * time.Second

// Client talks to the hosted data service. It is read-only: none of
// its requests mutate remote state.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a remote data client. timeout bounds each request;
// zero means the 30s default. A hung load screen is worse than a
// failed fetch, so a timeout counts as a fetch failure downstream.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FlatEditsResult is the settled outcome of FetchFlatEdits. Err is set
// on transport failure or a non-success status; an empty Edits map
// with a nil Err means the remote table is reachable but has no rows.
type FlatEditsResult struct {
	Edits map[string]compliance.Overlay
	Err   error
}

// Failed reports whether the fetch itself failed (as opposed to
// succeeding with zero rows).
func (r FlatEditsResult) Failed() bool { return r.Err != nil }

// TreeResult is the settled outcome of FetchNormalized: a fully joined
// chapter tree, or a diagnostic error.
type TreeResult struct {
	Chapters []compliance.Chapter
	Err      error
}

func (r TreeResult) Failed() bool { return r.Err != nil }

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetch %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
