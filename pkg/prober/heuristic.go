package prober

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/amosWeiskopf/aivis/internal/models"
	"github.com/amosWeiskopf/aivis/pkg/utils"
)

const (
	heuristicCap   = 0.6
	commonTLDBonus = 0.05
	brandBonus     = 0.03
)

var commonTLDs = map[string]bool{"com": true, "de": true, "io": true, "ai": true} //nolint: gochecknoglobals

// Engine multipliers applied to the visibility factor.
const (
	ChatGPTMultiplier    = 0.8
	PerplexityMultiplier = 1.1
	GeminiMultiplier     = 0.9
)

// VisibilityFactor is the heuristic share of prompts an AI engine is
// expected to answer with the brand, in [0, 0.6].
func VisibilityFactor(domain, brand string, schemaScore, technicalScore int) float64 {
	base := (float64(schemaScore)*0.3 + float64(technicalScore)*0.2) / 100

	if commonTLDs[strings.ToLower(utils.TLD(domain))] {
		base += commonTLDBonus
	}
	if utf8.RuneCountInString(brand) > 3 && !strings.Contains(brand, " ") {
		base += brandBonus
	}

	return math.Max(0, math.Min(base, heuristicCap))
}

// Heuristic estimates one engine from the visibility factor scaled by
// Multiplier. It never attributes individual queries.
type Heuristic struct {
	Multiplier float64
}

var _ Strategy = Heuristic{}

func (h Heuristic) Probe(_ context.Context, target Target, prompts []string) EngineReport {
	factor := VisibilityFactor(target.Domain, target.Brand, target.SchemaScore, target.TechnicalScore) * h.Multiplier

	return EngineReport{Stats: models.EngineStats{
		Mentions:     roundInt(float64(len(prompts)) * factor),
		TotalQueries: len(prompts),
		Score:        roundInt(factor * 100),
		Method:       models.MethodEstimated,
		Confidence:   models.ConfidenceLow,
	}}
}

func roundInt(f float64) int {
	return int(math.Round(f))
}
