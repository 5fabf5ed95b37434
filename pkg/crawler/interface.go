package crawler

import "context"

// DefaultMaxPages bounds the discovered page list.
const DefaultMaxPages = 20

// Discoverer defines the interface for page discovery
type Discoverer interface {
	// Discover returns candidate page URLs for domain. The first entry is
	// always the bare homepage and the list never exceeds the configured cap.
	Discover(ctx context.Context, domain string) []string
}

// Options contains configuration for the crawler
type Options struct {
	MaxPages int // Maximum number of URLs returned, homepage included
}
