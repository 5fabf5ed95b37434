package prober

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/amosWeiskopf/aivis/internal/models"
	"github.com/amosWeiskopf/aivis/pkg/logger"
	"github.com/amosWeiskopf/aivis/pkg/progress"
	"github.com/amosWeiskopf/aivis/pkg/prompts"
	"github.com/amosWeiskopf/aivis/pkg/utils"
)

// MaxMissingQueries caps topMissingQueries.
const MaxMissingQueries = 20

const notMentionedInAI = "Brand not mentioned in AI responses"

// Engine weights of the aggregated AI visibility score.
const (
	GoogleWeight     = 0.35
	ChatGPTWeight    = 0.25
	PerplexityWeight = 0.20
	GeminiWeight     = 0.20
)

// Request describes one probe.
type Request struct {
	Domain         string
	Brand          string
	Industry       string
	Competitors    []string
	SchemaScore    int
	TechnicalScore int
}

// Config holds prober dependencies. A nil Search means no live-query
// credential is configured.
type Config struct {
	Search   Strategy
	Auditor  SiteAuditor
	Progress progress.Sink
}

// Prober runs the live and heuristic engine strategies and benchmarks
// competitors.
type Prober struct {
	google     Strategy
	live       bool
	chatgpt    Strategy
	perplexity Strategy
	gemini     Strategy
	auditor    SiteAuditor
	progress   progress.Sink
}

// New creates a Prober.
func New(config Config) *Prober {
	p := &Prober{
		google:     NotMeasured{},
		chatgpt:    Heuristic{Multiplier: ChatGPTMultiplier},
		perplexity: Heuristic{Multiplier: PerplexityMultiplier},
		gemini:     Heuristic{Multiplier: GeminiMultiplier},
		auditor:    config.Auditor,
		progress:   progress.OrNop(config.Progress),
	}
	if config.Search != nil {
		p.google = config.Search
		p.live = true
	}

	return p
}

// Probe scores AI visibility for the request. Fetch and search failures are
// folded into the result; only a canceled context is returned as an error.
func (p *Prober) Probe(ctx context.Context, req Request) (models.AIProbeResult, error) {
	queries := prompts.Generate(req.Industry, req.Brand, req.Competitors)
	target := Target{
		Domain:         req.Domain,
		Brand:          req.Brand,
		SchemaScore:    req.SchemaScore,
		TechnicalScore: req.TechnicalScore,
	}

	result := models.AIProbeResult{
		Domain:               req.Domain,
		Brand:                req.Brand,
		Industry:             req.Industry,
		TotalPrompts:         len(queries),
		HasSerpAPIKey:        p.live,
		CompetitorComparison: []models.CompetitorComparison{},
		TopMissingQueries:    []models.MissingQuery{},
		MentionedQueries:     []models.MentionedQuery{},
		Prompts:              queries,
	}

	if p.live {
		p.progress.Report(ctx, progress.Event{
			Phase:   models.PhaseAIProbe,
			Message: "Querying Google search API",
		})
	}
	google := p.google.Probe(ctx, target, queries)
	result.EngineBreakdown.Google = google.Stats
	result.MentionedQueries = append(result.MentionedQueries, google.Mentioned...)
	result.TopMissingQueries = append(result.TopMissingQueries, google.Missing...)

	p.progress.Report(ctx, progress.Event{Phase: models.PhaseAIProbe, Message: "Estimating AI engine visibility"})
	result.EngineBreakdown.ChatGPT = p.chatgpt.Probe(ctx, target, queries).Stats
	result.EngineBreakdown.Perplexity = p.perplexity.Probe(ctx, target, queries).Stats
	result.EngineBreakdown.Gemini = p.gemini.Probe(ctx, target, queries).Stats

	result.TopMissingQueries = fillMissing(result.TopMissingQueries, result.MentionedQueries, queries)
	result.AIVisibilityScore = AggregateScore(result.EngineBreakdown)

	own := models.OverallScore(req.SchemaScore, req.TechnicalScore, result.AIVisibilityScore)
	result.CompetitorComparison = p.benchmark(ctx, req.Competitors, own)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("ai probe interrupted: %w", err)
	}

	logger.Info(ctx, "ai probe complete",
		zap.String("domain", req.Domain),
		zap.Int("score", result.AIVisibilityScore),
		zap.String("google_method", string(result.EngineBreakdown.Google.Method)),
	)

	return result, nil
}

// AggregateScore blends the four engine scores by their weights.
func AggregateScore(b models.EngineBreakdown) int {
	return roundInt(float64(b.Google.Score)*GoogleWeight +
		float64(b.ChatGPT.Score)*ChatGPTWeight +
		float64(b.Perplexity.Score)*PerplexityWeight +
		float64(b.Gemini.Score)*GeminiWeight)
}

// fillMissing appends every prompt without a live attribution as missing
// across the heuristic engines, then caps the list.
func fillMissing(missing []models.MissingQuery, mentioned []models.MentionedQuery, queries []string) []models.MissingQuery {
	seen := make(map[string]bool, len(missing)+len(mentioned))
	for _, m := range missing {
		seen[m.Query] = true
	}
	for _, m := range mentioned {
		seen[m.Query] = true
	}

	for _, q := range queries {
		if len(missing) >= MaxMissingQueries {
			break
		}
		if seen[q] {
			continue
		}
		seen[q] = true
		missing = append(missing, models.MissingQuery{
			Query:       q,
			Engine:      models.EngineMultiple,
			Opportunity: notMentionedInAI,
		})
	}

	if len(missing) > MaxMissingQueries {
		missing = missing[:MaxMissingQueries]
	}

	return missing
}

// benchmark audits each competitor in turn. A failing competitor is
// recorded with zero scores and never stops the others.
func (p *Prober) benchmark(ctx context.Context, competitors []string, own int) []models.CompetitorComparison {
	out := make([]models.CompetitorComparison, 0, len(competitors))
	for i, comp := range competitors {
		p.progress.Report(ctx, progress.Event{
			Phase:   models.PhaseAIProbe,
			Message: fmt.Sprintf("Benchmarking competitor %s", comp),
			Current: i + 1,
			Total:   len(competitors),
		})

		cmp, err := p.benchmarkOne(ctx, comp, own)
		if err != nil {
			logger.Warn(ctx, "competitor benchmark failed", zap.String("competitor", comp), zap.Error(err))
			cmp = models.CompetitorComparison{
				Competitor: comp,
				VsYou:      models.StandingAhead,
				Error:      err.Error(),
			}
		}
		out = append(out, cmp)
	}

	return out
}

func (p *Prober) benchmarkOne(ctx context.Context, comp string, own int) (cmp models.CompetitorComparison, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("competitor scan panicked: %v", r)
		}
	}()

	if p.auditor == nil {
		return cmp, fmt.Errorf("no site auditor configured")
	}
	if comp == "" {
		return cmp, fmt.Errorf("empty competitor domain")
	}

	schema, err := p.auditor.AuditSchema(ctx, comp)
	if err != nil {
		return cmp, fmt.Errorf("schema audit: %w", err)
	}
	technical, err := p.auditor.AuditTechnical(ctx, comp)
	if err != nil {
		return cmp, fmt.Errorf("technical audit: %w", err)
	}

	brand := utils.BrandFromDomain(comp)
	aiEstimate := roundInt(VisibilityFactor(comp, brand, schema.SchemaScore, technical.TechnicalScore) * 100)
	overall := models.OverallScore(schema.SchemaScore, technical.TechnicalScore, aiEstimate)

	return models.CompetitorComparison{
		Competitor:     comp,
		EstimatedScore: overall,
		SchemaScore:    schema.SchemaScore,
		TechnicalScore: technical.TechnicalScore,
		AIEstimate:     aiEstimate,
		VsYou:          models.CompareOverall(own, overall),
	}, nil
}
