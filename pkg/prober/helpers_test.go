package prober

import (
	"context"
	"errors"
	"sync"

	"github.com/amosWeiskopf/aivis/internal/models"
	"github.com/amosWeiskopf/aivis/pkg/prober/serpapi"
)

// fakeSearcher answers queries from a script keyed by query text.
type fakeSearcher struct {
	mu        sync.Mutex
	responses map[string]*serpapi.Response
	failures  map[string]error
	queries   []string
}

func (s *fakeSearcher) Search(_ context.Context, query string) (*serpapi.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)

	if err, ok := s.failures[query]; ok {
		return nil, err
	}
	if resp, ok := s.responses[query]; ok {
		return resp, nil
	}
	return &serpapi.Response{}, nil
}

// countingPacer admits a fixed number of waits, then refuses.
type countingPacer struct {
	waits int
	limit int
}

func (p *countingPacer) Wait(context.Context) error {
	if p.limit > 0 && p.waits >= p.limit {
		return context.DeadlineExceeded
	}
	p.waits++
	return nil
}

type siteScores struct {
	schema    int
	technical int
	err       error
	panics    bool
}

// fakeAuditor returns canned scores per domain.
type fakeAuditor map[string]siteScores

func (a fakeAuditor) AuditSchema(_ context.Context, domain string) (models.SchemaAuditResult, error) {
	s, ok := a[domain]
	if !ok {
		return models.SchemaAuditResult{}, errors.New("unknown domain")
	}
	if s.panics {
		panic("boom")
	}
	if s.err != nil {
		return models.SchemaAuditResult{}, s.err
	}
	return models.SchemaAuditResult{SchemaScore: s.schema}, nil
}

func (a fakeAuditor) AuditTechnical(_ context.Context, domain string) (models.TechnicalAuditResult, error) {
	return models.TechnicalAuditResult{TechnicalScore: a[domain].technical}, nil
}
