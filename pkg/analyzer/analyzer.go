package analyzer

import (
	"context"
	"math"

	"github.com/amosWeiskopf/aivis/internal/models"
	"github.com/amosWeiskopf/aivis/pkg/crawler"
	"github.com/amosWeiskopf/aivis/pkg/fetcher"
	"github.com/amosWeiskopf/aivis/pkg/progress"
)

// Analyzer runs the on-site audits for a domain
type Analyzer struct {
	schema    *SchemaAuditor
	technical *TechnicalAuditor
}

// Config holds analyzer configuration
type Config struct {
	MaxPages int
	Progress progress.Sink
}

// New creates an Analyzer that fetches through f.
func New(f fetcher.Getter, config Config) *Analyzer {
	discoverer := crawler.New(f, crawler.Options{MaxPages: config.MaxPages})

	return &Analyzer{
		schema:    NewSchemaAuditor(f, discoverer, config.Progress),
		technical: NewTechnicalAuditor(f, config.Progress),
	}
}

// AuditSchema discovers and scores the domain's structured data.
func (a *Analyzer) AuditSchema(ctx context.Context, domain string) (models.SchemaAuditResult, error) {
	return a.schema.Audit(ctx, domain)
}

// AuditTechnical runs the technical readiness checks.
func (a *Analyzer) AuditTechnical(ctx context.Context, domain string) (models.TechnicalAuditResult, error) {
	return a.technical.Audit(ctx, domain)
}

// percent returns round(100 * part / whole), or 0 for an empty whole.
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}

	return int(math.Round(float64(part) * 100 / float64(whole)))
}
