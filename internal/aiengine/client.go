package aiengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var ErrUnavailable = errors.New("ai engine unavailable")

type SecurityCheck struct {
	IP      string  `json:"ip"`
	Latency float64 `json:"latency"`
	IsError bool    `json:"is_error"`
}

type Verdict struct {
	Blocked    bool    `json:"blocked"`
	Confidence float64 `json:"confidence,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

type Config struct {
	BaseURL         string
	SentinelTimeout time.Duration
	RouterTimeout   time.Duration
	Source          string
}

// Client talks to the external AI process. It holds no state between calls.
type Client struct {
	baseURL         string
	sentinelTimeout time.Duration
	routerTimeout   time.Duration
	source          string
	httpClient      *http.Client
	logger          *slog.Logger
}

func NewClient(config Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	source := config.Source
	if source == "" {
		source = "Web Dashboard"
	}
	return &Client{
		baseURL:         strings.TrimRight(config.BaseURL, "/"),
		sentinelTimeout: config.SentinelTimeout,
		routerTimeout:   config.RouterTimeout,
		source:          source,
		httpClient:      httpClient,
		logger:          logger,
	}
}

// ValidateRequest asks the security endpoint for a verdict. The wait is
// bounded by the sentinel timeout; any failure wraps ErrUnavailable.
func (c *Client) ValidateRequest(ctx context.Context, check SecurityCheck) (*Verdict, error) {
	if c.sentinelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.sentinelTimeout)
		defer cancel()
	}

	body, err := c.post(ctx, "/api/security/validate", check)
	if err != nil {
		return nil, err
	}

	var verdict Verdict
	if err := json.Unmarshal(body, &verdict); err != nil {
		return nil, fmt.Errorf("%w: decode verdict: %v", ErrUnavailable, err)
	}
	return &verdict, nil
}

// RouteQuery forwards a free-text query and returns the engine's JSON verbatim.
func (c *Client) RouteQuery(ctx context.Context, query string) (json.RawMessage, error) {
	if c.routerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.routerTimeout)
		defer cancel()
	}

	payload := map[string]string{
		"description": query,
		"source":      c.source,
	}
	body, err := c.post(ctx, "/api/route-query", payload)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response is not JSON", ErrUnavailable)
	}

	c.logger.Debug("ai engine: query routed", "query_length", len(query))
	return json.RawMessage(body), nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUnavailable, path, resp.StatusCode)
	}
	return body, nil
}
