// Package deptclient is the gateway's outbound HTTP client for department
// microservices. Every call carries a freshly signed service token.
package deptclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/nexus/internal/servicejwt"
)

var ErrDepartmentUnavailable = errors.New("department service unavailable")

// Target addresses one department endpoint.
type Target struct {
	Code    string
	BaseURL string
	Path    string
	Method  string
}

func (t Target) url(suffix string) string {
	return strings.TrimRight(t.BaseURL, "/") + t.Path + suffix
}

type Submission struct {
	RequestID    string                 `json:"requestId"`
	CitizenID    string                 `json:"citizenId"`
	CitizenName  string                 `json:"citizenName"`
	CitizenEmail string                 `json:"citizenEmail"`
	Data         map[string]interface{} `json:"data"`
}

type SubmissionResult struct {
	Success      bool                   `json:"success"`
	Status       string                 `json:"status"`
	Remarks      string                 `json:"remarks"`
	Message      string                 `json:"message"`
	ResponseData map[string]interface{} `json:"responseData"`
}

type StatusUpdate struct {
	RequestID   string `json:"requestId"`
	Status      string `json:"status"`
	Remarks     string `json:"remarks"`
	ProcessedBy string `json:"processedBy"`
}

type StatusResult struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

type TokenSigner interface {
	Sign(department string) (string, error)
}

type Config struct {
	Timeout time.Duration
}

type Client struct {
	signer     TokenSigner
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(config Config, signer TokenSigner, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &Client{
		signer:     signer,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Submit forwards a citizen request to the department endpoint of its service.
func (c *Client) Submit(ctx context.Context, target Target, sub Submission) (*SubmissionResult, error) {
	method := target.Method
	if method == "" {
		method = http.MethodPost
	}

	var result SubmissionResult
	if err := c.do(ctx, method, target.Code, target.url(""), sub.CitizenID, sub.RequestID, sub, &result); err != nil {
		return nil, err
	}

	c.logger.Info("department: request forwarded",
		"department", target.Code,
		"request_id", sub.RequestID,
		"status", result.Status)
	return &result, nil
}

// RelayStatus tells the department about an officer decision.
func (c *Client) RelayStatus(ctx context.Context, target Target, update StatusUpdate) (*StatusResult, error) {
	var result StatusResult
	if err := c.do(ctx, http.MethodPatch, target.Code, target.url("/status"), "", update.RequestID, update, &result); err != nil {
		return nil, err
	}

	c.logger.Info("department: status relayed",
		"department", target.Code,
		"request_id", update.RequestID,
		"status", update.Status)
	return &result, nil
}

// CitizenAppointments lists the records a department holds for one citizen.
func (c *Client) CitizenAppointments(ctx context.Context, target Target, citizenID string) ([]map[string]interface{}, error) {
	endpoint := strings.TrimRight(target.BaseURL, "/") + "/internal/appointments/citizen?citizenId=" + url.QueryEscape(citizenID)

	var result struct {
		Success bool                     `json:"success"`
		Data    []map[string]interface{} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, target.Code, endpoint, citizenID, "", nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

func (c *Client) do(ctx context.Context, method, department, endpoint, citizenID, requestID string, payload, out interface{}) error {
	token, err := c.signer.Sign(department)
	if err != nil {
		return fmt.Errorf("failed to sign service token: %w", err)
	}

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal department request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if citizenID != "" {
		req.Header.Set(servicejwt.HeaderCitizenID, citizenID)
	}
	if requestID != "" {
		req.Header.Set(servicejwt.HeaderRequestID, requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDepartmentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("department: non-success response",
			"department", department,
			"method", method,
			"url", endpoint,
			"status_code", resp.StatusCode)
		return fmt.Errorf("%w: %s %s returned status %d", ErrDepartmentUnavailable, method, endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrDepartmentUnavailable, err)
	}
	return nil
}
