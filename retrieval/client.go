package retrieval

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

	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
)

const maxResponseSizeBytes = 8 << 20

type ClientConfig struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"http://localhost:8000"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// Client calls a remote Retrieval Service. A 404 maps to ErrNotFound and a
// 503 to ErrDataUnavailable.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ contractx.Retriever = (*Client)(nil)

func NewClient(cfg ClientConfig, opts ...ClientOption) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("retrieval base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid retrieval base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func (c *Client) ClientsByAdvisor(ctx context.Context, name string) ([]contractx.ClientRecord, error) {
	var clients []contractx.ClientRecord
	if err := c.get(ctx, "/api/fa/"+url.PathEscape(name)+"/clients", &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (c *Client) AdvisorNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.get(ctx, "/api/fa", &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build retrieval request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute retrieval request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("read retrieval response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", contractx.ErrNotFound, detailOf(raw))
	case resp.StatusCode == http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", contractx.ErrDataUnavailable, detailOf(raw))
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return fmt.Errorf("retrieval http status=%d body=%s", resp.StatusCode, string(raw))
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode retrieval response: %w", err)
	}
	return nil
}

func detailOf(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return strings.TrimSpace(string(raw))
}
