// Package renderproxy provides a client for a remote headless-browser
// rendering proxy. The proxy navigates to a target URL, waits for a CSS
// selector to appear and returns the rendered markup.
package renderproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "http://127.0.0.1:8080"

	// DefaultTimeout is the render timeout used when a request leaves it unset.
	DefaultTimeout = 30 * time.Second

	// requestGrace is added on top of the render timeout so the proxy has a
	// chance to report its own timeout before the HTTP request is abandoned.
	requestGrace = 10 * time.Second
)

// Client renders pages through the proxy.
type Client interface {
	// Render fetches targetURL through the proxy and returns decoded HTML.
	Render(ctx context.Context, req Request) (string, error)
}

// Request describes a single render.
type Request struct {
	URL      string
	Selector string
	Timeout  time.Duration
}

// wireRequest is the JSON body the proxy expects.
type wireRequest struct {
	Goto    string `json:"goto"`
	Sel     string `json:"sel"`
	Timeout int64  `json:"timeout"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the proxy endpoint.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *httpClient) {
		c.log = l
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a render proxy client. The underlying http.Client is
// shared across calls for connection pooling.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render sends one templated request and blocks until the proxy answers or
// the timeout elapses. It never retries.
func (c *httpClient) Render(ctx context.Context, req Request) (string, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	body, err := json.Marshal(wireRequest{
		Goto:    req.URL,
		Sel:     req.Selector,
		Timeout: timeout.Milliseconds(),
	})
	if err != nil {
		return "", eris.Wrap(err, "renderproxy: marshal request")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout+requestGrace)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "renderproxy: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return "", &TimeoutError{URL: req.URL, Err: err}
		}
		return "", &TransportError{URL: req.URL, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", &TimeoutError{URL: req.URL, StatusCode: resp.StatusCode, Err: err}
		}
		return "", &TransportError{URL: req.URL, StatusCode: resp.StatusCode, Err: eris.Wrap(err, "read response body")}
	}

	c.log.Info("renderproxy: response",
		zap.String("url", req.URL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(respBody)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(req.URL, resp.StatusCode, respBody)
	}

	payload, err := DecodePayload(respBody, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	return payload.HTML, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
