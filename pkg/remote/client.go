package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// TransportError wraps any network or server failure. Callers treat it as
// retryable: local state is never mutated on its account.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client is the HTTP implementation of API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchPage reads one page of the schedule listing.
func (c *Client) FetchPage(ctx context.Context, q Query) (*Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("size", strconv.Itoa(q.Size))
	if q.Booking != "" {
		params.Set("booking", q.Booking)
	}
	var page Page
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/schedules?"+params.Encode(), nil, &page); err != nil {
		return nil, &TransportError{Op: "fetch page", Err: err}
	}
	return &page, nil
}

// CreateRow submits one new schedule line.
func (c *Client) CreateRow(ctx context.Context, p CreatePayload) (*Record, error) {
	var rec Record
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/schedules", p, &rec); err != nil {
		return nil, &TransportError{Op: "create row", Err: err}
	}
	return &rec, nil
}

// BatchUpdate submits every edited line in one call.
func (c *Client) BatchUpdate(ctx context.Context, updates []UpdatePayload) error {
	if len(updates) == 0 {
		return nil
	}
	if err := c.doRequest(ctx, http.MethodPut, "/api/v1/schedules/batch", updates, nil); err != nil {
		return &TransportError{Op: "batch update", Err: err}
	}
	return nil
}

// DeleteRow removes one persisted line.
func (c *Client) DeleteRow(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/v1/schedules/%d", id)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return &TransportError{Op: "delete row", Err: err}
	}
	return nil
}

// Options fetches the reference lists backing the option catalog.
func (c *Client) Options(ctx context.Context) (*OptionLists, error) {
	var lists OptionLists
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/options", nil, &lists); err != nil {
		return nil, &TransportError{Op: "options", Err: err}
	}
	return &lists, nil
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var er errorResponse
		if err := json.Unmarshal(respBody, &er); err == nil && er.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, er.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

var _ API = (*Client)(nil)
