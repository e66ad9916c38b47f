// Package remote talks to the optional shared projects table exposed over a
// REST data API. An unconfigured client is inert.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/digitaltwinshub/projects-hub/internal/projects/domain"
)

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	IDs     *domain.IDGenerator
	Now     func() time.Time
}

// New builds a client. baseURL is the REST root; "projects" is appended.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: timeout},
		IDs:     domain.NewIDGenerator(nil),
		Now:     time.Now,
	}
}

// Configured reports whether both the base URL and the API key are present.
func (c *Client) Configured() bool {
	return c != nil && c.BaseURL != "" && c.APIKey != ""
}

// StatusError is returned for non-2xx replies.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote %s failed: %d %s", e.Op, e.Status, e.Body)
}

// List fetches every row of the projects table.
func (c *Client) List(ctx context.Context) ([]domain.ProjectRecord, error) {
	if !c.Configured() {
		return []domain.ProjectRecord{}, nil
	}

	var out []domain.ProjectRecord
	if err := c.do(ctx, "list", http.MethodGet, "/projects?select=*", nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.ProjectRecord{}
	}
	return out, nil
}

// Get fetches one row by id. ok is false when no row matches.
func (c *Client) Get(ctx context.Context, id domain.ID) (domain.ProjectRecord, bool, error) {
	if !c.Configured() {
		return domain.ProjectRecord{}, false, nil
	}

	var rows []domain.ProjectRecord
	path := "/projects?select=*&id=eq." + url.QueryEscape(id.String())
	if err := c.do(ctx, "get", http.MethodGet, path, nil, nil, &rows); err != nil {
		return domain.ProjectRecord{}, false, err
	}
	if len(rows) == 0 {
		return domain.ProjectRecord{}, false, nil
	}
	return rows[0], true, nil
}

// Upsert inserts or merges record by id and returns the stored representation.
// A record without UpdatedAt is stamped with the current time.
func (c *Client) Upsert(ctx context.Context, record domain.ProjectRecord) (domain.ProjectRecord, error) {
	if !c.Configured() {
		return record, nil
	}

	if record.ID == "" {
		record.ID = c.IDs.Next()
	}
	if record.UpdatedAt == "" {
		record.UpdatedAt = c.Now().UTC().Format(domain.TimestampLayout)
	}

	headers := map[string]string{"Prefer": "resolution=merge-duplicates,return=representation"}
	var rows []domain.ProjectRecord
	if err := c.do(ctx, "upsert", http.MethodPost, "/projects?on_conflict=id", record, headers, &rows); err != nil {
		return domain.ProjectRecord{}, err
	}
	if len(rows) == 0 {
		return record, nil
	}
	return rows[0], nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, headers map[string]string, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote %s encode: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("remote %s: %w", op, err)
	}
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("remote %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("remote %s decode: %w", op, err)
	}
	return nil
}
