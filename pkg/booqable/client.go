package booqable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/krow6750/gearshare-backend/pkg/config"
	pkgerrors "github.com/krow6750/gearshare-backend/pkg/errors"
)

const (
	defaultPageSize             = 100
	responseBodyReadLimit int64 = 1 << 20

	// Booqable rate-limits aggressively; retry a couple of times before
	// surfacing the 429.
	rateLimitRetries  = 2
	rateLimitMaxDelay = 5 * time.Second
)

var (
	errAPIKeyRequired  = errors.New("booqable api key is required")
	errCompanyRequired = errors.New("booqable company slug is required")
)

// APIError is a non-2xx reply from the booking API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("booqable: status %d: %s", e.Status, e.Body)
}

// UpstreamSource identifies the failing backend for error dumps.
func (e *APIError) UpstreamSource() string { return "booqable" }

// UpstreamStatus reports the upstream HTTP status.
func (e *APIError) UpstreamStatus() int { return e.Status }

// Client wraps the rental-booking SaaS API used for orders, customers, and
// product inventory.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	pageSize   int
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

// WithBaseURL overrides the derived API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithPageSize overrides the list page size.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// NewClient builds the booking client from configuration.
func NewClient(cfg config.BooqableConfig, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		slug := strings.TrimSpace(cfg.CompanySlug)
		if slug == "" {
			return nil, errCompanyRequired
		}
		baseURL = fmt.Sprintf("https://%s.booqable.com/api/boomerang", slug)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		pageSize:   pageSize,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// listAll walks every page of a collection endpoint and returns the merged
// resources plus the merged included side table.
func (c *Client) listAll(ctx context.Context, path string, query url.Values) ([]Resource, []Resource, error) {
	var resources []Resource
	var included []Resource

	for page := 1; ; page++ {
		q := url.Values{}
		for key, vals := range query {
			q[key] = vals
		}
		q.Set("page[number]", strconv.Itoa(page))
		q.Set("page[size]", strconv.Itoa(c.pageSize))

		doc, err := c.get(ctx, path, q)
		if err != nil {
			return nil, nil, err
		}

		pageResources := doc.resources()
		resources = append(resources, pageResources...)
		included = append(included, doc.Included...)

		if len(pageResources) < c.pageSize {
			return resources, included, nil
		}
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*Document, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*Document, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Document, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var resp *http.Response
	for attempt := 0; ; attempt++ {
		var err error
		resp, err = c.httpClient.Do(req)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "booqable request failed")
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= rateLimitRetries {
			break
		}
		retryAfter := resp.Header.Get("Retry-After")
		io.Copy(io.Discard, io.LimitReader(resp.Body, responseBodyReadLimit))
		resp.Body.Close()
		if err := waitRetryAfter(req.Context(), retryAfter); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "booqable rate limit wait interrupted")
		}
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "booqable request rewind failed")
			}
			req.Body = body
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "booqable response read failed")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, apiErr, "booqable request rejected")
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "booqable response decode failed")
	}
	return &doc, nil
}

// waitRetryAfter sleeps for the server-requested delay, capped so a hostile
// header cannot stall a refresh run.
func waitRetryAfter(ctx context.Context, header string) error {
	delay := time.Second
	if secs, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && secs >= 0 {
		delay = time.Duration(secs) * time.Second
	}
	if delay > rateLimitMaxDelay {
		delay = rateLimitMaxDelay
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
