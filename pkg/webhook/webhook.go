// Package webhook delivers rendered reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ccollicutt/logreport/pkg/output"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// DeliveryHeader carries the payload ID so receivers can drop duplicates.
const DeliveryHeader = "X-Logreport-Delivery"

// Payload is the JSON document posted to a webhook.
type Payload struct {
	ID            string    `json:"id"`
	Sources       []string  `json:"sources"`
	TotalRequests int64     `json:"total_requests"`
	Format        string    `json:"format"`
	Report        string    `json:"report"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// NewPayload builds the payload for a report rendered in the named format.
func NewPayload(report *output.Report, format, rendered string) *Payload {
	sources := report.Stats.FileNames
	if sources == nil {
		sources = []string{}
	}
	return &Payload{
		ID:            ulid.Make().String(),
		Sources:       sources,
		TotalRequests: report.Stats.TotalRequests,
		Format:        format,
		Report:        rendered,
		GeneratedAt:   time.Now().UTC(),
	}
}

// Client sends reports to webhook endpoints.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new webhook client. A nil httpClient uses a fresh
// http.Client.
func NewClient(httpClient *http.Client, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if userAgent == "" {
		userAgent = "logreport-webhook"
	}
	return &Client{httpClient: httpClient, userAgent: userAgent}
}

// SendOptions configures a webhook request.
type SendOptions struct {
	Name    string
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // Request timeout (uses DefaultTimeout if zero)
}

// Response contains the result of a webhook request.
type Response struct {
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was sent successfully (2xx status).
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts a payload to a webhook endpoint.
func (c *Client) Send(ctx context.Context, payload *Payload, opts SendOptions) *Response {
	start := time.Now()
	resp := &Response{}
	fail := func(err error) *Response {
		resp.Error = err
		resp.Duration = time.Since(start)
		return resp
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fail(fmt.Errorf("failed to marshal payload: %w", err))
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(body))
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(DeliveryHeader, payload.ID)
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request failed: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1024*1024)) // Limit to 1MB
	if err != nil {
		return fail(fmt.Errorf("failed to read response: %w", err))
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = string(respBody)
	resp.Duration = time.Since(start)

	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return resp
}
