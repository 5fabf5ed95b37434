package analyzer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/amosWeiskopf/aivis/internal/models"
	"github.com/amosWeiskopf/aivis/pkg/crawler"
	"github.com/amosWeiskopf/aivis/pkg/extractor"
	"github.com/amosWeiskopf/aivis/pkg/fetcher"
	"github.com/amosWeiskopf/aivis/pkg/logger"
	"github.com/amosWeiskopf/aivis/pkg/progress"
)

const organizationType = "Organization"

// RequiredSchema is one entry of the structured-data catalog
type RequiredSchema struct {
	Type        string
	Weight      int
	Description string
}

// RequiredSchemas is the fixed catalog scored by the schema audit. Weights sum
// to 100.
var RequiredSchemas = []RequiredSchema{ //nolint: gochecknoglobals
	{Type: organizationType, Weight: 20, Description: "Company information for AI knowledge graphs"},
	{Type: "WebSite", Weight: 10, Description: "Site-level search and navigation info"},
	{Type: "BreadcrumbList", Weight: 5, Description: "Navigation structure for AI understanding"},
	{Type: "Article", Weight: 15, Description: "Content markup for AI citation"},
	{Type: "FAQPage", Weight: 15, Description: "Direct answers for AI engines"},
	{Type: "Product", Weight: 15, Description: "Product data for AI recommendations"},
	{Type: "LocalBusiness", Weight: 10, Description: "Location data for local AI queries"},
	{Type: "HowTo", Weight: 5, Description: "Instructional content for AI answers"},
	{Type: "Review", Weight: 5, Description: "Social proof for AI trust signals"},
}

// OrganizationFields are the properties expected on an Organization entity.
var OrganizationFields = []string{"name", "url", "logo", "description", "sameAs", "contactPoint"} //nolint: gochecknoglobals

// SchemaAuditor fetches discovered pages and scores their structured data
type SchemaAuditor struct {
	fetcher    fetcher.Getter
	discoverer crawler.Discoverer
	extractor  *extractor.Extractor
	progress   progress.Sink
}

// NewSchemaAuditor creates a SchemaAuditor. A nil sink is allowed.
func NewSchemaAuditor(f fetcher.Getter, d crawler.Discoverer, sink progress.Sink) *SchemaAuditor {
	return &SchemaAuditor{
		fetcher:    f,
		discoverer: d,
		extractor:  extractor.New(),
		progress:   progress.OrNop(sink),
	}
}

// Audit discovers the domain's pages and scores them.
func (a *SchemaAuditor) Audit(ctx context.Context, domain string) (models.SchemaAuditResult, error) {
	a.progress.Report(ctx, progress.Event{Phase: models.PhaseDiscovery, Message: "Discovering pages..."})
	pages := a.discoverer.Discover(ctx, domain)

	return a.Score(ctx, domain, pages)
}

// Score fetches each page in order and scores the structured data found.
// Pages that fail to fetch are skipped but still counted in PagesScanned.
// Only context cancellation is returned as an error.
func (a *SchemaAuditor) Score(ctx context.Context, domain string, pages []string) (models.SchemaAuditResult, error) {
	result := models.SchemaAuditResult{
		Domain:        domain,
		PagesScanned:  len(pages),
		SchemasByPage: []models.PageSchemas{},
	}
	typesFound := make(map[string]bool)

	for i, pageURL := range pages {
		if err := ctx.Err(); err != nil {
			return models.SchemaAuditResult{}, fmt.Errorf("schema audit interrupted: %w", err)
		}
		a.progress.Report(ctx, progress.Event{
			Phase:   models.PhaseSchema,
			Message: fmt.Sprintf("Scanning page %d/%d: %s", i+1, len(pages), pageURL),
			Current: i + 1,
			Total:   len(pages),
		})

		res := a.fetcher.Get(ctx, pageURL)
		if !res.OK() {
			result.PagesFailed++
			continue
		}

		blocks := a.extractor.StructuredData(res.Body)
		types := extractor.Types(blocks)
		result.SchemasByPage = append(result.SchemasByPage, models.PageSchemas{
			URL:     pageURL,
			Schemas: types,
			Count:   len(blocks),
		})
		result.TotalSchemas += len(blocks)

		for j, b := range blocks {
			typesFound[types[j]] = true
			if types[j] == organizationType {
				details := ScoreOrganization(b)
				details.SourceURL = pageURL
				result.OrganizationDetails = &details
			}
		}
	}

	result.SchemaScore, result.SchemasFound, result.MissingSchemas = ScoreCoverage(typesFound)
	result.Recommendations = schemaRecommendations(result.SchemasFound, result.OrganizationDetails)

	logger.Info(ctx, "schema audit complete",
		zap.String("domain", domain),
		zap.Int("score", result.SchemaScore),
		zap.Int("pages", result.PagesScanned),
		zap.Int("pagesFailed", result.PagesFailed),
		zap.Int("schemas", result.TotalSchemas))

	return result, nil
}

// ScoreCoverage marks each required type as found or missing and computes the
// weighted coverage score.
func ScoreCoverage(typesFound map[string]bool) (int, []models.SchemaCoverage, []string) {
	coverage := make([]models.SchemaCoverage, 0, len(RequiredSchemas))
	missing := []string{}
	var earned, total int

	for _, req := range RequiredSchemas {
		total += req.Weight
		found := typesFound[req.Type]
		if found {
			earned += req.Weight
		} else {
			missing = append(missing, req.Type)
		}
		coverage = append(coverage, models.SchemaCoverage{
			Type:        req.Type,
			Found:       found,
			Weight:      req.Weight,
			Description: req.Description,
		})
	}

	return percent(earned, total), coverage, missing
}

// ScoreOrganization checks an Organization entity for the expected fields and
// entity links.
func ScoreOrganization(b extractor.Block) models.OrganizationDetails {
	details := models.OrganizationDetails{Missing: []string{}}

	present := 0
	for _, field := range OrganizationFields {
		if hasValue(b[field]) {
			present++
		} else {
			details.Missing = append(details.Missing, field)
		}
	}
	details.Completeness = percent(present, len(OrganizationFields))

	if sameAs, ok := b["sameAs"].([]any); ok && len(sameAs) > 0 {
		details.HasSameAs = true
		details.SameAsCount = len(sameAs)
		for _, v := range sameAs {
			link, _ := v.(string)
			if strings.Contains(link, "wikipedia.org") || strings.Contains(link, "wikidata.org") {
				details.HasWikipedia = true
				break
			}
		}
	}

	return details
}

func schemaRecommendations(coverage []models.SchemaCoverage, org *models.OrganizationDetails) []models.Recommendation {
	recs := []models.Recommendation{}

	if org == nil {
		recs = append(recs, models.Recommendation{
			Priority: models.PriorityCritical,
			Category: "schema",
			Action:   "Add Organization schema to homepage",
			Reason:   "No Organization schema found - AI engines cannot identify your company",
			Impact:   "Foundation for all AI visibility",
		})
	}

	for _, c := range coverage {
		if c.Found {
			continue
		}
		recs = append(recs, models.Recommendation{
			Priority: weightPriority(c.Weight),
			Category: "schema",
			Action:   fmt.Sprintf("Add %s schema markup", c.Type),
			Reason:   c.Description,
			Impact:   fmt.Sprintf("+%d points to schema score", c.Weight),
		})
	}

	if org != nil {
		if !org.HasWikipedia {
			recs = append(recs, models.Recommendation{
				Priority: models.PriorityHigh,
				Category: "entity",
				Action:   "Add Wikipedia/Wikidata sameAs link to Organization schema",
				Reason:   "Wikipedia entities are 2.5x more likely to be cited by AI engines",
				Impact:   "Major AI visibility boost",
			})
		}
		if org.SameAsCount < 3 {
			recs = append(recs, models.Recommendation{
				Priority: models.PriorityMedium,
				Category: "entity",
				Action:   "Add more sameAs links (LinkedIn, Xing, industry directories)",
				Reason:   "Entity linking strengthens AI knowledge graph presence",
				Impact:   "Improved entity recognition",
			})
		}
	}

	return recs
}

func weightPriority(weight int) models.Priority {
	switch {
	case weight >= 15:
		return models.PriorityHigh
	case weight >= 10:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// hasValue treats nil, blank strings, empty lists and empty objects as absent.
func hasValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return true
	}
}
