// Package fetcher performs single-shot HTTP GETs and reports the outcome as a
// value instead of an error, so callers can degrade a failed fetch to
// "not found" while still telling it apart from a genuine empty result.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/amosWeiskopf/aivis/pkg/logger"
	"github.com/amosWeiskopf/aivis/pkg/metrics"
)

const (
	// DefaultUserAgent identifies the scanner to audited sites.
	DefaultUserAgent = "AIVisibilityEngine/1.0"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 5 << 20
)

var (
	// ErrStatus is returned for non-2xx responses.
	ErrStatus = errors.New("unexpected status")
	// ErrTimeout is returned when the request deadline expires.
	ErrTimeout = errors.New("request timed out")
	// ErrTransport covers DNS, connection and body read failures.
	ErrTransport = errors.New("transport failure")
)

// Result is the outcome of one GET. Err is nil on success.
type Result struct {
	URL        string
	FinalURL   string
	StatusCode int
	Header     http.Header
	Body       []byte
	Elapsed    time.Duration
	Err        error
}

// OK reports whether the fetch succeeded with a 2xx status.
func (r Result) OK() bool {
	return r.Err == nil
}

// Outcome is a short label for metrics and logs.
func (r Result) Outcome() string {
	switch {
	case r.Err == nil:
		return "ok"
	case errors.Is(r.Err, ErrTimeout):
		return "timeout"
	case errors.Is(r.Err, ErrStatus):
		return "status"
	default:
		return "transport"
	}
}

// Getter fetches a URL.
type Getter interface {
	Get(ctx context.Context, rawURL string) Result
}

// Fetcher is the default Getter. It is safe for concurrent use.
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	metrics   *metrics.Collector
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithClient sets the underlying HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithMetrics records every fetch on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(f *Fetcher) { f.metrics = c }
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{},
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// UserAgent returns the identifying user agent sent with every request.
func (f *Fetcher) UserAgent() string {
	return f.userAgent
}

// Get fetches rawURL. Any failure, including a non-2xx status, is carried in
// Result.Err.
func (f *Fetcher) Get(ctx context.Context, rawURL string) Result {
	res := f.get(ctx, rawURL)
	f.metrics.ObserveFetch(res.Outcome(), res.Elapsed)
	if res.Err != nil {
		logger.Debug(ctx, "fetch failed",
			zap.String("url", rawURL),
			zap.Int("status", res.StatusCode),
			zap.Error(res.Err))
	}

	return res
}

func (f *Fetcher) get(ctx context.Context, rawURL string) Result {
	res := Result{URL: rawURL}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		res.Err = fmt.Errorf("%w: could not create request: %v", ErrTransport, err)
		return res
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		res.Elapsed = time.Since(start)
		res.Err = classify(ctx, err)
		return res
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	res.Elapsed = time.Since(start)
	res.StatusCode = resp.StatusCode
	res.Header = resp.Header
	res.FinalURL = rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		res.FinalURL = resp.Request.URL.String()
	}
	if err != nil {
		res.Err = classify(ctx, err)
		return res
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res.Err = fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
		return res
	}
	res.Body = body

	return res
}

func classify(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrTransport, err)
}
