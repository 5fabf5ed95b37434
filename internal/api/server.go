// Package api exposes the scanner over HTTP with gin: scans, prompt
// listings, health and prometheus metrics.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amosWeiskopf/aivis/internal/config"
	"github.com/amosWeiskopf/aivis/internal/models"
	"github.com/amosWeiskopf/aivis/pkg/scanner"
)

// Scanner runs scans for the handlers.
type Scanner interface {
	Scan(ctx context.Context, req scanner.Request) (models.ScanResult, error)
	QuickScan(ctx context.Context, req scanner.Request) (models.ScanResult, error)
}

// Options holds configuration for the HTTP server.
type Options struct {
	// Addr is the TCP address the server listens on.
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration
	// WriteTimeout bounds a whole scan response.
	WriteTimeout time.Duration
	// RequestsPerSecond and Burst configure the per-client token bucket.
	RequestsPerSecond float64
	Burst             int
	// Gatherer backs /metrics; prometheus.DefaultGatherer when nil.
	Gatherer prometheus.Gatherer
}

// NewOptions maps the server settings of cfg onto Options.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Addr:              cfg.Server.Addr(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
		Burst:             cfg.Server.Burst,
	}
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(s Scanner, opts Options) *gin.Engine {
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	h := &handler{scanner: s}

	r := gin.New()
	r.Use(RequestLogger())
	r.Use(ErrorHandler())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.GET("/prompts", h.prompts)

		limited := api.Group("")
		limited.Use(NewRateLimiter(opts.RequestsPerSecond, opts.Burst).RateLimit())
		limited.POST("/scan", h.scan)
		limited.POST("/quick-scan", h.quickScan)
	}

	return r
}

// NewServer wires the router into an *http.Server.
func NewServer(s Scanner, opts Options) *http.Server {
	return &http.Server{
		Addr:              opts.Addr,
		Handler:           NewRouter(s, opts),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadTimeout,
		WriteTimeout:      opts.WriteTimeout,
	}
}
