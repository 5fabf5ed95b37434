package prober

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/amosWeiskopf/aivis/internal/models"
	"github.com/amosWeiskopf/aivis/pkg/logger"
	"github.com/amosWeiskopf/aivis/pkg/metrics"
	"github.com/amosWeiskopf/aivis/pkg/progress"
	"github.com/amosWeiskopf/aivis/pkg/prober/serpapi"
	"github.com/amosWeiskopf/aivis/pkg/utils"
)

const (
	// DefaultMaxQueries bounds live queries per scan to save API quota.
	DefaultMaxQueries = 10
	// DefaultQueryInterval is the fixed spacing between live queries.
	DefaultQueryInterval = 1500 * time.Millisecond

	notFoundInGoogle = "Not found in Google results"
	foundInOverview  = "Found in Google AI Overview"
)

// NewPacer returns a pacer that admits one query per interval. The first
// query goes out immediately.
func NewPacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}

	return rate.NewLimiter(rate.Every(interval), 1)
}

// Mention is the outcome of matching one search response.
type Mention struct {
	Mentioned    bool
	InAIOverview bool
	Position     int
	Context      string
}

// FindMention looks for brand or domain in the AI overview first and then in
// the organic results, where the first match wins.
func FindMention(resp *serpapi.Response, brand, domain string) Mention {
	if resp == nil {
		return Mention{}
	}

	needles := make([]string, 0, 2)
	for _, n := range []string{brand, domain} {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			needles = append(needles, n)
		}
	}
	contains := func(text string) bool {
		text = strings.ToLower(text)
		for _, n := range needles {
			if strings.Contains(text, n) {
				return true
			}
		}
		return false
	}

	if overview := resp.AIOverviewText(); overview != "" && contains(overview) {
		return Mention{Mentioned: true, InAIOverview: true, Context: foundInOverview}
	}

	for i, item := range resp.OrganicResults {
		if contains(item.Title + " " + item.Snippet + " " + item.Link) {
			return Mention{Mentioned: true, Position: i + 1, Context: fmt.Sprintf("Organic position #%d", i+1)}
		}
	}

	return Mention{}
}

// LiveSearch measures Google visibility by issuing real search queries.
type LiveSearch struct {
	searcher   Searcher
	pacer      Pacer
	maxQueries int
	metrics    *metrics.Collector
	progress   progress.Sink
}

var _ Strategy = (*LiveSearch)(nil)

// LiveOption configures a LiveSearch.
type LiveOption func(*LiveSearch)

// WithPacer replaces the default 1.5s pacer.
func WithPacer(p Pacer) LiveOption {
	return func(l *LiveSearch) {
		if p != nil {
			l.pacer = p
		}
	}
}

// WithMaxQueries caps the number of live queries.
func WithMaxQueries(n int) LiveOption {
	return func(l *LiveSearch) {
		if n > 0 {
			l.maxQueries = n
		}
	}
}

// WithSearchMetrics records query outcomes.
func WithSearchMetrics(c *metrics.Collector) LiveOption {
	return func(l *LiveSearch) { l.metrics = c }
}

// WithSearchProgress reports each query to sink.
func WithSearchProgress(sink progress.Sink) LiveOption {
	return func(l *LiveSearch) { l.progress = progress.OrNop(sink) }
}

// NewLiveSearch creates a live Google strategy.
func NewLiveSearch(s Searcher, opts ...LiveOption) *LiveSearch {
	l := &LiveSearch{
		searcher:   s,
		pacer:      NewPacer(DefaultQueryInterval),
		maxQueries: DefaultMaxQueries,
		progress:   progress.Nop{},
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Probe queries the first min(maxQueries, len(prompts)) prompts in order.
// A failed query, or one the API answers with an error message, counts as
// not found.
func (l *LiveSearch) Probe(ctx context.Context, target Target, prompts []string) EngineReport {
	planned := min(l.maxQueries, len(prompts))
	report := EngineReport{Stats: models.EngineStats{Method: models.MethodMeasured}}

	attempted := runPaced(ctx, l.pacer, prompts[:planned], func(i int, query string) {
		l.progress.Report(ctx, progress.Event{
			Phase:   models.PhaseAIProbe,
			Message: fmt.Sprintf("Google query %d/%d: %q", i+1, planned, utils.TruncateText(query, 50)),
			Current: i + 1,
			Total:   planned,
		})

		m := l.query(ctx, target, query)
		if !m.Mentioned {
			report.Missing = append(report.Missing, models.MissingQuery{
				Query:       query,
				Engine:      models.EngineGoogle,
				Opportunity: notFoundInGoogle,
			})
			return
		}

		report.Stats.Mentions++
		if m.InAIOverview {
			report.Stats.AIOverviewMentions++
		}
		report.Mentioned = append(report.Mentioned, models.MentionedQuery{
			Query:        query,
			Engine:       models.EngineGoogle,
			Context:      m.Context,
			Position:     m.Position,
			InAIOverview: m.InAIOverview,
		})
	})

	report.Stats.TotalQueries = attempted
	if attempted > 0 {
		report.Stats.Score = roundInt(float64(report.Stats.Mentions) * 100 / float64(attempted))
	}

	return report
}

func (l *LiveSearch) query(ctx context.Context, target Target, query string) Mention {
	resp, err := l.searcher.Search(ctx, query)
	if err != nil {
		l.metrics.IncSearchQuery("error")
		logger.Warn(ctx, "search query failed", zap.String("query", query), zap.Error(err))
		return Mention{}
	}
	if resp != nil && resp.Error != "" {
		l.metrics.IncSearchQuery("api_error")
		logger.Warn(ctx, "search api reported an error", zap.String("query", query), zap.String("error", resp.Error))
		return Mention{}
	}
	l.metrics.IncSearchQuery("ok")

	return FindMention(resp, target.Brand, target.Domain)
}

// runPaced consumes queries in order, waiting on the pacer before each one.
// It stops early when the pacer refuses, and returns how many ran.
func runPaced(ctx context.Context, p Pacer, queries []string, fn func(i int, query string)) int {
	for i, q := range queries {
		if err := p.Wait(ctx); err != nil {
			logger.Warn(ctx, "live queries interrupted", zap.Int("completed", i), zap.Error(err))
			return i
		}
		fn(i, q)
	}

	return len(queries)
}

// NotMeasured stands in for the live strategy when no credential is set.
type NotMeasured struct{}

var _ Strategy = NotMeasured{}

func (NotMeasured) Probe(context.Context, Target, []string) EngineReport {
	return EngineReport{Stats: models.EngineStats{Method: models.MethodNotMeasured}}
}
