package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/krow6750/gearshare-backend/pkg/config"
	pkgerrors "github.com/krow6750/gearshare-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://api.airtable.com/v0"
	responseBodyReadLimit int64 = 1 << 20
)

var (
	errAPIKeyRequired = errors.New("airtable api key is required")
	errBaseIDRequired = errors.New("airtable base id is required")
)

// Record is one spreadsheet row: an opaque id plus a flat fields map keyed
// by the human-readable column headers.
type Record struct {
	ID          string         `json:"id,omitempty"`
	Fields      map[string]any `json:"fields"`
	CreatedTime string         `json:"createdTime,omitempty"`
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// APIError is a non-2xx reply from the record API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("airtable: status %d: %s", e.Status, e.Body)
}

// UpstreamSource identifies the failing backend for error dumps.
func (e *APIError) UpstreamSource() string { return "airtable" }

// UpstreamStatus reports the upstream HTTP status.
func (e *APIError) UpstreamStatus() int { return e.Status }

// Client wraps the spreadsheet-record SaaS holding repair tickets and email
// templates.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	baseID     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// NewClient builds the record client from configuration.
func NewClient(cfg config.AirtableConfig, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	baseID := strings.TrimSpace(cfg.BaseID)
	if baseID == "" {
		return nil, errBaseIDRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		baseID:     baseID,
	}
	if trimmed := strings.TrimSpace(cfg.BaseURL); trimmed != "" {
		client.baseURL = strings.TrimRight(trimmed, "/")
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ListRecords walks every page of a table via offset pagination.
func (c *Client) ListRecords(ctx context.Context, table string) ([]Record, error) {
	var records []Record
	offset := ""

	for {
		query := url.Values{}
		if offset != "" {
			query.Set("offset", offset)
		}

		var page listResponse
		if err := c.call(ctx, http.MethodGet, c.tablePath(table), query, nil, &page); err != nil {
			return nil, err
		}
		records = append(records, page.Records...)
		if page.Offset == "" {
			return records, nil
		}
		offset = page.Offset
	}
}

// GetRecord fetches a single record by id.
func (c *Client) GetRecord(ctx context.Context, table, id string) (Record, error) {
	var record Record
	err := c.call(ctx, http.MethodGet, c.tablePath(table)+"/"+url.PathEscape(id), nil, nil, &record)
	return record, err
}

// CreateRecord inserts a row with the given fields.
func (c *Client) CreateRecord(ctx context.Context, table string, fields map[string]any) (Record, error) {
	var record Record
	err := c.call(ctx, http.MethodPost, c.tablePath(table), nil, map[string]any{"fields": fields}, &record)
	return record, err
}

// UpdateRecord patches the provided fields of an existing row.
func (c *Client) UpdateRecord(ctx context.Context, table, id string, fields map[string]any) (Record, error) {
	var record Record
	err := c.call(ctx, http.MethodPatch, c.tablePath(table)+"/"+url.PathEscape(id), nil, map[string]any{"fields": fields}, &record)
	return record, err
}

// DeleteRecord removes a row.
func (c *Client) DeleteRecord(ctx context.Context, table, id string) error {
	return c.call(ctx, http.MethodDelete, c.tablePath(table)+"/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) tablePath(table string) string {
	return "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, payload, dest any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "airtable request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "airtable response read failed")
	}

	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}, "record not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, apiErr, "airtable request rejected")
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "airtable response decode failed")
	}
	return nil
}
