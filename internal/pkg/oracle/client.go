package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Result is a single safety classification produced by the scoring service
// for one piece of content.
type Result struct {
	IsSafe     bool
	Category   string
	Confidence float64
	Labels     []string
	Model      string
}

// Known categories returned by the scoring service.
const (
	CategorySafe       = "safe"
	CategoryAdult      = "adult"
	CategorySuggestive = "suggestive"
	CategoryViolence   = "violence"
	CategoryHate       = "hate"
	CategoryAbusive    = "abusive"
	CategoryUnknown    = "unknown"
)

// Config holds configuration for the scoring service client.
type Config struct {
	BaseURL string // e.g., "http://localhost:8600"
	Model   string // model identifier passed through to the service
	Timeout time.Duration
}

// DefaultConfig returns default configuration.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Model:   "loop-guard-v2",
		Timeout: 30 * time.Second,
	}
}

// Client is an HTTP client for the content scoring service.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new scoring service client.
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// BaseURL returns the endpoint this client talks to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

type classifyRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	Model       string `json:"model,omitempty"`
}

type classifyResponse struct {
	IsSafe     bool     `json:"is_safe"`
	Category   string   `json:"category"`
	Confidence float64  `json:"confidence"`
	Labels     []string `json:"labels,omitempty"`
	Model      string   `json:"model,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Classify submits content to the scoring service and returns its verdict.
// contentType is one of "visual", "audio", "metadata", "text".
func (c *Client) Classify(ctx context.Context, content, contentType string) (*Result, error) {
	reqBody := classifyRequest{
		Content:     content,
		ContentType: contentType,
		Model:       c.config.Model,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + "/v1/classify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call scoring service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoring service error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp classifyResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if apiResp.Error != "" {
		return nil, fmt.Errorf("scoring service error: %s", apiResp.Error)
	}

	return &Result{
		IsSafe:     apiResp.IsSafe,
		Category:   strings.ToLower(apiResp.Category),
		Confidence: apiResp.Confidence,
		Labels:     apiResp.Labels,
		Model:      apiResp.Model,
	}, nil
}

// Ping checks if the scoring service is reachable.
func (c *Client) Ping(ctx context.Context) error {
	url := strings.TrimSuffix(c.config.BaseURL, "/") + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("scoring service not reachable at %s: %w", c.config.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scoring service returned status %d", resp.StatusCode)
	}

	return nil
}

// FallbackResult is the safe-default verdict used when the scoring service
// fails. The pipeline fails open: content is provisionally treated as safe at
// half confidence and the analysis is marked degraded so reviewers can see it.
func FallbackResult() *Result {
	return &Result{
		IsSafe:     true,
		Category:   CategoryUnknown,
		Confidence: 0.5,
	}
}
