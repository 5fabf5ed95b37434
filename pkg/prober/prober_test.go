package prober

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/aivis/internal/models"
	"github.com/amosWeiskopf/aivis/pkg/progress"
	"github.com/amosWeiskopf/aivis/pkg/prompts"
	"github.com/amosWeiskopf/aivis/pkg/prober/serpapi"
)

func TestProbeWithoutCredential(t *testing.T) {
	auditor := fakeAuditor{
		"rival.com": {schema: 80, technical: 90},
		"tiny.io":   {},
	}
	p := New(Config{Auditor: auditor})

	result, err := p.Probe(context.Background(), Request{
		Domain:         "acme.com",
		Brand:          "Acme",
		Industry:       "saas",
		Competitors:    []string{"rival.com", "tiny.io"},
		SchemaScore:    45,
		TechnicalScore: 85,
	})
	require.NoError(t, err)

	assert.Equal(t, 24, result.TotalPrompts)
	assert.Len(t, result.Prompts, 24)
	assert.False(t, result.HasSerpAPIKey)
	assert.Equal(t, models.EngineStats{Method: models.MethodNotMeasured}, result.EngineBreakdown.Google)

	assert.Equal(t, models.EngineStats{
		Mentions: 7, TotalQueries: 24, Score: 31, Method: models.MethodEstimated, Confidence: models.ConfidenceLow,
	}, result.EngineBreakdown.ChatGPT)
	assert.Equal(t, 42, result.EngineBreakdown.Perplexity.Score)
	assert.Equal(t, 10, result.EngineBreakdown.Perplexity.Mentions)
	assert.Equal(t, 35, result.EngineBreakdown.Gemini.Score)
	assert.Equal(t, 8, result.EngineBreakdown.Gemini.Mentions)

	// round(0*0.35 + 31*0.25 + 42*0.20 + 35*0.20)
	assert.Equal(t, 23, result.AIVisibilityScore)

	assert.Empty(t, result.MentionedQueries)
	require.Len(t, result.TopMissingQueries, MaxMissingQueries)
	for i, m := range result.TopMissingQueries {
		assert.Equal(t, models.EngineMultiple, m.Engine)
		assert.Equal(t, result.Prompts[i], m.Query)
	}

	// own overall = round(45*0.3 + 85*0.3 + 23*0.4) = 48
	require.Len(t, result.CompetitorComparison, 2)
	assert.Equal(t, models.CompetitorComparison{
		Competitor: "rival.com", EstimatedScore: 71, SchemaScore: 80, TechnicalScore: 90, AIEstimate: 50, VsYou: models.StandingBehind,
	}, result.CompetitorComparison[0])
	assert.Equal(t, models.CompetitorComparison{
		Competitor: "tiny.io", EstimatedScore: 3, AIEstimate: 8, VsYou: models.StandingAhead,
	}, result.CompetitorComparison[1])
}

func TestProbeCompetitorFailureDoesNotAbortOthers(t *testing.T) {
	auditor := fakeAuditor{
		"broken.de": {err: errors.New("dns failure")},
		"crash.com": {panics: true},
		"rival.com": {schema: 10, technical: 10},
	}
	p := New(Config{Auditor: auditor})

	result, err := p.Probe(context.Background(), Request{
		Domain:      "acme.com",
		Brand:       "Acme",
		Industry:    "generic",
		Competitors: []string{"broken.de", "crash.com", "rival.com"},
	})
	require.NoError(t, err)
	require.Len(t, result.CompetitorComparison, 3)

	for _, failed := range result.CompetitorComparison[:2] {
		assert.Equal(t, models.StandingAhead, failed.VsYou)
		assert.Zero(t, failed.SchemaScore)
		assert.Zero(t, failed.TechnicalScore)
		assert.Zero(t, failed.EstimatedScore)
		assert.NotEmpty(t, failed.Error)
	}
	assert.Contains(t, result.CompetitorComparison[0].Error, "dns failure")
	assert.Contains(t, result.CompetitorComparison[1].Error, "panicked")

	assert.Empty(t, result.CompetitorComparison[2].Error)
	assert.Equal(t, 10, result.CompetitorComparison[2].SchemaScore)
}

func TestProbeWithoutAuditorRecordsErrors(t *testing.T) {
	result, err := New(Config{}).Probe(context.Background(), Request{
		Domain: "acme.com", Brand: "Acme", Competitors: []string{"rival.com"},
	})
	require.NoError(t, err)
	require.Len(t, result.CompetitorComparison, 1)
	assert.Equal(t, "no site auditor configured", result.CompetitorComparison[0].Error)
}

func TestProbeLiveGoogle(t *testing.T) {
	queries := prompts.Generate("saas", "Acme", nil)
	searcher := &fakeSearcher{
		responses: map[string]*serpapi.Response{
			queries[0]: {AIOverview: map[string]any{"text": "ACME is a leading provider"}},
			queries[1]: {OrganicResults: []serpapi.OrganicResult{
				{Title: "Other"}, {Title: "Another"}, {Title: "Widgets", Link: "https://acme.com/saas"},
			}},
		},
		failures: map[string]error{queries[4]: serpapi.ErrRateLimited},
	}
	pacer := &countingPacer{}
	var events []progress.Event
	sink := progress.Func(func(_ context.Context, ev progress.Event) { events = append(events, ev) })

	p := New(Config{Search: NewLiveSearch(searcher, WithPacer(pacer), WithSearchProgress(sink)), Progress: sink})
	result, err := p.Probe(context.Background(), Request{
		Domain: "acme.com", Brand: "Acme", Industry: "saas", SchemaScore: 45, TechnicalScore: 85,
	})
	require.NoError(t, err)

	assert.True(t, result.HasSerpAPIKey)
	assert.Equal(t, 10, pacer.waits)
	assert.Equal(t, queries[:10], searcher.queries)
	assert.Equal(t, models.EngineStats{
		Mentions: 2, AIOverviewMentions: 1, TotalQueries: 10, Score: 20, Method: models.MethodMeasured,
	}, result.EngineBreakdown.Google)

	require.Len(t, result.MentionedQueries, 2)
	assert.Equal(t, models.MentionedQuery{
		Query: queries[0], Engine: models.EngineGoogle, Context: "Found in Google AI Overview", InAIOverview: true,
	}, result.MentionedQueries[0])
	assert.Equal(t, models.MentionedQuery{
		Query: queries[1], Engine: models.EngineGoogle, Context: "Organic position #3", Position: 3,
	}, result.MentionedQueries[1])

	// 8 live misses, then the 10 prompts past the live window
	require.Len(t, result.TopMissingQueries, 18)
	for _, m := range result.TopMissingQueries[:8] {
		assert.Equal(t, models.EngineGoogle, m.Engine)
		assert.Equal(t, "Not found in Google results", m.Opportunity)
	}
	assert.Equal(t, models.MissingQuery{
		Query: queries[10], Engine: models.EngineMultiple, Opportunity: "Brand not mentioned in AI responses",
	}, result.TopMissingQueries[8])

	// round(20*0.35 + 31*0.25 + 42*0.20 + 35*0.20)
	assert.Equal(t, 30, result.AIVisibilityScore)

	var googleEvents int
	for _, ev := range events {
		if ev.Total == 10 {
			googleEvents++
		}
	}
	assert.Equal(t, 10, googleEvents)
}

func TestProbeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(Config{}).Probe(ctx, Request{Domain: "acme.com", Brand: "Acme"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 20, result.TotalPrompts)
}

func TestAggregateScoreBounds(t *testing.T) {
	full := models.EngineStats{Score: 100}
	assert.Equal(t, 100, AggregateScore(models.EngineBreakdown{Google: full, ChatGPT: full, Perplexity: full, Gemini: full}))
	assert.Equal(t, 0, AggregateScore(models.EngineBreakdown{}))
	assert.Equal(t, 35, AggregateScore(models.EngineBreakdown{Google: full}))
}

func TestFillMissingSkipsAttributedQueries(t *testing.T) {
	queries := []string{"a", "b", "c"}
	got := fillMissing(
		[]models.MissingQuery{{Query: "b", Engine: models.EngineGoogle}},
		[]models.MentionedQuery{{Query: "a"}},
		queries,
	)

	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Query)
	assert.Equal(t, models.MissingQuery{Query: "c", Engine: models.EngineMultiple, Opportunity: notMentionedInAI}, got[1])
}
