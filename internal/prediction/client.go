package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/draftwise/draftwise/internal/draft"
)

// APIError is a non-2xx reply from the prediction service. It is surfaced to the user
// as-is; there is no retry policy, a new request simply supersedes the old one.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("prediction api: status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the external prediction service.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	log     *zap.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		log:     log,
	}
}

// Health runs a connectivity check against the service.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FeatureMap fetches champion metadata keyed by champion id.
func (c *Client) FeatureMap(ctx context.Context) (map[string]ChampionInfo, error) {
	out := map[string]ChampionInfo{}
	if err := c.do(ctx, http.MethodGet, "/models/feature-map", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PredictDraft submits a serialized draft and returns the model's verdict.
func (c *Client) PredictDraft(ctx context.Context, req draft.Request) (*Response, error) {
	var out Response
	if err := c.do(ctx, http.MethodPost, "/predict/draft", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("prediction api: %w", err)
	}
	defer resp.Body.Close()
	c.log.Debug("prediction api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
