// Package prober estimates how visible a brand is in AI-generated answers.
//
// Each engine in the breakdown is served by a Strategy. Google is queried
// live through a search API when a credential is configured; the other
// engines are estimated from on-site signals and always carry
// method "estimated" with low confidence.
package prober

import (
	"context"

	"github.com/amosWeiskopf/aivis/internal/models"
	"github.com/amosWeiskopf/aivis/pkg/prober/serpapi"
)

// Target is the brand being probed.
type Target struct {
	Domain         string
	Brand          string
	SchemaScore    int
	TechnicalScore int
}

// EngineReport is the outcome of one strategy run.
type EngineReport struct {
	Stats     models.EngineStats
	Mentioned []models.MentionedQuery
	Missing   []models.MissingQuery
}

// Strategy produces the report for one engine.
type Strategy interface {
	Probe(ctx context.Context, target Target, prompts []string) EngineReport
}

// Searcher runs a single live search query.
type Searcher interface {
	Search(ctx context.Context, query string) (*serpapi.Response, error)
}

// Pacer blocks until the next live query may be issued. *rate.Limiter
// satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
}

// SiteAuditor re-runs the on-site audits for competitor benchmarking.
type SiteAuditor interface {
	AuditSchema(ctx context.Context, domain string) (models.SchemaAuditResult, error)
	AuditTechnical(ctx context.Context, domain string) (models.TechnicalAuditResult, error)
}
