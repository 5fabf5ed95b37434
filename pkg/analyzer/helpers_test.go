package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/amosWeiskopf/aivis/pkg/fetcher"
)

// fakeSite serves fixed bodies by URL; anything else is a 404.
type fakeSite struct {
	mu      sync.Mutex
	pages   map[string]string
	elapsed time.Duration
	fetched []string
}

func newFakeSite(pages map[string]string) *fakeSite {
	return &fakeSite{pages: pages, elapsed: 120 * time.Millisecond}
}

func (s *fakeSite) Get(_ context.Context, u string) fetcher.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetched = append(s.fetched, u)

	body, ok := s.pages[u]
	if !ok {
		return fetcher.Result{
			URL:        u,
			StatusCode: http.StatusNotFound,
			Elapsed:    s.elapsed,
			Err:        fmt.Errorf("%w: %d", fetcher.ErrStatus, http.StatusNotFound),
		}
	}

	return fetcher.Result{
		URL:        u,
		FinalURL:   u,
		StatusCode: http.StatusOK,
		Body:       []byte(body),
		Elapsed:    s.elapsed,
	}
}

type staticDiscoverer []string

func (d staticDiscoverer) Discover(context.Context, string) []string { return d }
