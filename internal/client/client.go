// Package client calls the subwatch JSON API.
//
// Each method issues exactly one request. There are no retries and no
// timeouts beyond those of the supplied *http.Client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vincentbai/subwatch/internal/models"
)

const (
	PathMonitor        = "/monitor"
	PathStopMonitoring = "/stop_monitoring"
	PathInteractions   = "/interactions"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Monitor posts the request to /monitor and returns the raw JSON reply.
func (c *Client) Monitor(ctx context.Context, request models.MonitorRequest) (json.RawMessage, error) {
	return c.postJSON(ctx, PathMonitor, request)
}

// StopMonitoring posts an empty object to /stop_monitoring.
func (c *Client) StopMonitoring(ctx context.Context) (json.RawMessage, error) {
	return c.postJSON(ctx, PathStopMonitoring, struct{}{})
}

// Interactions fetches the stored interactions in server order.
func (c *Client) Interactions(ctx context.Context) ([]models.Interaction, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+PathInteractions, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	body, err := c.do(request)
	if err != nil {
		return nil, err
	}
	return decodeInteractions(body)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	body, err := c.do(request)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("invalid JSON response from %s", path)
	}
	return json.RawMessage(body), nil
}

func (c *Client) do(request *http.Request) ([]byte, error) {
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", request.Method, request.URL.Path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &StatusError{StatusCode: response.StatusCode, Body: string(body)}
	}
	return body, nil
}

// wireInteraction mirrors models.Interaction with pointers so that absent
// fields can be told apart from empty strings.
type wireInteraction struct {
	PostID   *string `json:"post_id"`
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Response *string `json:"response"`
}

func decodeInteractions(body []byte) ([]models.Interaction, error) {
	var payload struct {
		Interactions *[]wireInteraction `json:"interactions"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode interactions: %w", err)
	}
	if payload.Interactions == nil {
		return nil, fmt.Errorf("failed to decode interactions: missing interactions array")
	}

	interactions := make([]models.Interaction, 0, len(*payload.Interactions))
	for i, record := range *payload.Interactions {
		if record.PostID == nil || record.Title == nil || record.Content == nil || record.Response == nil {
			return nil, fmt.Errorf("failed to decode interactions: record %d is missing a field", i)
		}
		interactions = append(interactions, models.Interaction{
			PostID:   *record.PostID,
			Title:    *record.Title,
			Content:  *record.Content,
			Response: *record.Response,
		})
	}
	return interactions, nil
}
