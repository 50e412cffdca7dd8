// Package backend talks to the four hosted inference services: Whisper
// (speech to text), NLLB (translation), MedReason (text reasoning) and
// MedGemma (image reasoning).
//
// Every call takes the endpoint snapshot it should use, so configuration can
// change between calls without any shared mutable state here. Calls are made
// once, with a per-call timeout; there are no retries.
package backend

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jwalitptl/triage-assistant/internal/model"
	"github.com/jwalitptl/triage-assistant/pkg/logger"
	"github.com/jwalitptl/triage-assistant/pkg/metrics"
)

// Default per-call timeouts. An endpoint with a non-zero Timeout overrides them.
const (
	ProbeTimeout     = 10 * time.Second
	MedReasonTimeout = 60 * time.Second
	MedGemmaTimeout  = 120 * time.Second
	WhisperTimeout   = 300 * time.Second
	NLLBTimeout      = 300 * time.Second
)

// ErrNotConfigured is returned when an endpoint has no URL.
var ErrNotConfigured = errors.New("endpoint URL is not configured")

// StatusError is a non-2xx response from a backend.
type StatusError struct {
	Service    model.Service
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned status %d", e.Service.Label(), e.StatusCode)
}

// Client performs backend calls. It is safe for concurrent use.
type Client struct {
	log          *logger.Logger
	metrics      *metrics.Metrics
	secure       *http.Client
	insecure     *http.Client
	probeTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records call counts and latencies.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithProbeTimeout overrides ProbeTimeout for health checks.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.probeTimeout = d
		}
	}
}

// WithHTTPClient replaces the transport used for verified TLS connections.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.secure = hc }
}

func NewClient(log *logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.Nop()
	}

	insecureTransport := http.DefaultTransport.(*http.Transport).Clone()
	// Only used for endpoints configured with insecure_skip_verify.
	insecureTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402

	c := &Client{
		log:          log,
		secure:       &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()},
		insecure:     &http.Client{Transport: insecureTransport},
		probeTimeout: ProbeTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	service     model.Service
	operation   string
	endpoint    model.Endpoint
	url         string
	timeout     time.Duration
	contentType string
	body        []byte
}

type response struct {
	status int
	body   []byte
}

// do sends one POST and returns the response whatever its status. Only
// transport failures are errors here.
func (c *Client) do(ctx context.Context, r request) (*response, error) {
	if strings.TrimSpace(r.endpoint.URL) == "" {
		return nil, fmt.Errorf("%s: %w", r.service.Label(), ErrNotConfigured)
	}
	url := r.url
	if url == "" {
		url = r.endpoint.URL
	}
	timeout := r.timeout
	if r.endpoint.Timeout > 0 {
		timeout = r.endpoint.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(r.body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", r.contentType)
	if r.endpoint.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.endpoint.Token)
	}

	hc := c.secure
	if r.endpoint.InsecureSkipVerify {
		hc = c.insecure
	}

	start := time.Now()
	res, err := hc.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.ObserveBackendCall(string(r.service), r.operation, "transport_error", elapsed)
		c.log.Error(err, "backend request failed",
			"service", string(r.service), "operation", r.operation, "url", url, "latency_ms", elapsed.Milliseconds())
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			c.log.Warn("failed to close response body", "error", closeErr.Error(), "url", url)
		}
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		c.metrics.ObserveBackendCall(string(r.service), r.operation, "transport_error", elapsed)
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	outcome := "ok"
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		outcome = "http_error"
	}
	c.metrics.ObserveBackendCall(string(r.service), r.operation, outcome, elapsed)
	c.log.Info("backend request completed",
		"service", string(r.service), "operation", r.operation, "url", url,
		"status", res.StatusCode, "latency_ms", elapsed.Milliseconds())

	return &response{status: res.StatusCode, body: body}, nil
}

// postJSON marshals payload and requires a 2xx response.
func (c *Client) postJSON(ctx context.Context, r request, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling body: %w", err)
	}
	r.body = body
	r.contentType = "application/json"

	res, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	if err := res.check(r.service); err != nil {
		return nil, err
	}
	return res.body, nil
}

func (r *response) check(service model.Service) error {
	if r.status < 200 || r.status >= 300 {
		return &StatusError{Service: service, StatusCode: r.status, Body: truncate(string(r.body), 500)}
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
