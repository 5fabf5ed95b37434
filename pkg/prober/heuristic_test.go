package prober

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amosWeiskopf/aivis/internal/models"
)

func TestVisibilityFactor(t *testing.T) {
	tests := []struct {
		name      string
		domain    string
		brand     string
		schema    int
		technical int
		want      float64
	}{
		{name: "worked example", domain: "acme.com", brand: "Acme", schema: 45, technical: 85, want: 0.385},
		{name: "uncommon tld", domain: "acme.org", brand: "Acme", schema: 45, technical: 85, want: 0.335},
		{name: "short brand", domain: "abc.de", brand: "abc", schema: 0, technical: 0, want: 0.05},
		{name: "brand with space", domain: "acme.net", brand: "Acme Corp", schema: 0, technical: 0, want: 0},
		{name: "perfect site", domain: "acme.ai", brand: "Acme", schema: 100, technical: 100, want: 0.58},
		{name: "port ignored", domain: "acme.io:8443", brand: "Acme", schema: 0, technical: 0, want: 0.08},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, VisibilityFactor(tt.domain, tt.brand, tt.schema, tt.technical), 1e-9)
		})
	}
}

func TestVisibilityFactorMonotonic(t *testing.T) {
	for technical := 0; technical <= 100; technical += 10 {
		prev := -1.0
		for schema := 0; schema <= 100; schema++ {
			f := VisibilityFactor("acme.com", "Acme", schema, technical)
			assert.GreaterOrEqual(t, f, prev)
			assert.LessOrEqual(t, f, 0.6)
			prev = f
		}
	}
}

func TestHeuristicEngines(t *testing.T) {
	target := Target{Domain: "acme.com", Brand: "Acme", SchemaScore: 45, TechnicalScore: 85}
	prompts := make([]string, 24)

	tests := []struct {
		multiplier float64
		score      int
		mentions   int
	}{
		{multiplier: ChatGPTMultiplier, score: 31, mentions: 7},
		{multiplier: PerplexityMultiplier, score: 42, mentions: 10},
		{multiplier: GeminiMultiplier, score: 35, mentions: 8},
	}

	for _, tt := range tests {
		stats := Heuristic{Multiplier: tt.multiplier}.Probe(context.Background(), target, prompts).Stats
		assert.Equal(t, models.EngineStats{
			Mentions:     tt.mentions,
			TotalQueries: 24,
			Score:        tt.score,
			Method:       models.MethodEstimated,
			Confidence:   models.ConfidenceLow,
		}, stats)
	}
}
