package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"transcript-sentiment/analyzer"
)

// DefaultTimeout bounds a single analysis request.
const DefaultTimeout = 30 * time.Second

// AnalyzePath is the endpoint the client posts transcripts to.
const AnalyzePath = "/analyze"

// maxErrorBody caps how much of a failed response is read before it is discarded.
const maxErrorBody = 4 << 10

// Client posts transcripts to an analysis endpoint. It makes exactly one
// attempt per call.
type Client struct {
	client  *http.Client
	baseURL string
}

// ClientConfig holds configuration for Client. BaseURL is the scheme and host
// of the analysis service, e.g. "http://localhost:8080". When Client is set its
// own Timeout applies and Timeout is ignored.
type ClientConfig struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		client:  cfg.Client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}

	if c.client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.client = &http.Client{Timeout: timeout}
	}

	return c
}

// Analyze sends transcript as-is and decodes the analysis.
func (c *Client) Analyze(ctx context.Context, transcript string) (*analyzer.AnalysisResponse, error) {
	data, err := json.Marshal(analyzer.AnalysisRequest{Transcript: transcript})
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+AnalyzePath, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Path: AnalyzePath}
	}

	var result analyzer.AnalysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}

	return &result, nil
}
