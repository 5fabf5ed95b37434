// Package reporter renders a ScanResult for people and machines.
package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/amosWeiskopf/aivis/internal/models"
	"github.com/amosWeiskopf/aivis/pkg/utils"
)

// Supported report formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

const maxListedQueries = 10

// Reporter handles report generation in various formats
type Reporter struct{}

// New creates a new Reporter instance
func New() *Reporter {
	return &Reporter{}
}

// Render creates a report in the specified format
func (r *Reporter) Render(result models.ScanResult, format string) (string, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return r.JSON(result)
	case FormatMarkdown, "md":
		return r.Markdown(result), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// JSON renders the result indented by two spaces.
func (r *Reporter) JSON(result models.ScanResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data), nil
}

// Filename suggests a file name for the rendered report.
func Filename(result models.ScanResult, format string) string {
	ext := "json"
	if format == FormatMarkdown || format == "md" {
		ext = "md"
	}
	name := fmt.Sprintf("aivis-%s-%s.%s", result.Meta.Domain, result.Meta.ScanDate.Format("2006-01-02"), ext)
	return utils.SanitizeFilename(name)
}

// Markdown renders a human-readable summary.
func (r *Reporter) Markdown(result models.ScanResult) string {
	var buf bytes.Buffer
	meta := result.Meta

	fmt.Fprintf(&buf, "# AI Visibility Report for %s\n\n", meta.Domain)
	fmt.Fprintf(&buf, "*Brand %s, industry %s. Scanned on %s (%s scan, v%s).*\n\n",
		meta.Brand, meta.Industry, meta.ScanDate.Format("January 2, 2006"), meta.Mode, meta.Version)

	fmt.Fprintf(&buf, "## Scores\n\n")
	fmt.Fprintf(&buf, "| Metric | Score |\n")
	fmt.Fprintf(&buf, "|--------|-------|\n")
	fmt.Fprintf(&buf, "| Schema | %d |\n", result.Schema.SchemaScore)
	fmt.Fprintf(&buf, "| Technical | %d |\n", result.Technical.TechnicalScore)
	fmt.Fprintf(&buf, "| AI Visibility | %d |\n", result.AIProbe.AIVisibilityScore)
	fmt.Fprintf(&buf, "| **Overall** | **%d** |\n\n", result.OverallScore)

	if len(meta.PhaseErrors) > 0 {
		fmt.Fprintf(&buf, "> Some phases failed and were scored as zero:\n")
		phases := make([]string, 0, len(meta.PhaseErrors))
		for phase := range meta.PhaseErrors {
			phases = append(phases, phase)
		}
		sort.Strings(phases)
		for _, phase := range phases {
			fmt.Fprintf(&buf, "> - %s: %s\n", phase, meta.PhaseErrors[phase])
		}
		fmt.Fprintf(&buf, "\n")
	}

	writeEngines(&buf, result.AIProbe)
	writeCompetitors(&buf, result.AIProbe.CompetitorComparison)
	writeRecommendations(&buf, Recommendations(result))
	writeMissing(&buf, result.AIProbe.TopMissingQueries)

	return buf.String()
}

func writeEngines(buf *bytes.Buffer, probe models.AIProbeResult) {
	fmt.Fprintf(buf, "## AI Engines\n\n")
	fmt.Fprintf(buf, "| Engine | Score | Mentions | Queries | Method |\n")
	fmt.Fprintf(buf, "|--------|-------|----------|---------|--------|\n")

	engines := []struct {
		name  string
		stats models.EngineStats
	}{
		{"Google", probe.EngineBreakdown.Google},
		{"ChatGPT", probe.EngineBreakdown.ChatGPT},
		{"Perplexity", probe.EngineBreakdown.Perplexity},
		{"Gemini", probe.EngineBreakdown.Gemini},
	}
	for _, e := range engines {
		method := string(e.stats.Method)
		if e.stats.Confidence != "" {
			method += fmt.Sprintf(" (%s confidence)", e.stats.Confidence)
		}
		fmt.Fprintf(buf, "| %s | %d | %d | %d | %s |\n", e.name, e.stats.Score, e.stats.Mentions, e.stats.TotalQueries, method)
	}
	fmt.Fprintf(buf, "\n")

	if !probe.HasSerpAPIKey {
		fmt.Fprintf(buf, "Google was not measured: no search API key configured.\n\n")
	}
}

func writeCompetitors(buf *bytes.Buffer, comps []models.CompetitorComparison) {
	if len(comps) == 0 {
		return
	}

	fmt.Fprintf(buf, "## Competitors\n\n")
	fmt.Fprintf(buf, "| Competitor | Overall | Schema | Technical | AI estimate | You are |\n")
	fmt.Fprintf(buf, "|------------|---------|--------|-----------|-------------|---------|\n")
	for _, c := range comps {
		standing := string(c.VsYou)
		if c.Error != "" {
			standing += " (scan failed: " + c.Error + ")"
		}
		fmt.Fprintf(buf, "| %s | %d | %d | %d | %d | %s |\n",
			c.Competitor, c.EstimatedScore, c.SchemaScore, c.TechnicalScore, c.AIEstimate, standing)
	}
	fmt.Fprintf(buf, "\n")
}

func writeRecommendations(buf *bytes.Buffer, recs []models.Recommendation) {
	if len(recs) == 0 {
		return
	}

	fmt.Fprintf(buf, "## Recommendations\n\n")
	for i, rec := range recs {
		fmt.Fprintf(buf, "### %d. %s\n", i+1, rec.Action)
		fmt.Fprintf(buf, "- **Priority:** %s\n", rec.Priority)
		fmt.Fprintf(buf, "- **Category:** %s\n", rec.Category)
		fmt.Fprintf(buf, "- **Impact:** %s\n", rec.Impact)
		fmt.Fprintf(buf, "- **Reason:** %s\n", rec.Reason)
		fmt.Fprintf(buf, "\n")
	}
}

func writeMissing(buf *bytes.Buffer, missing []models.MissingQuery) {
	if len(missing) == 0 {
		return
	}

	fmt.Fprintf(buf, "## Queries Without Your Brand\n\n")
	for i, m := range missing {
		if i == maxListedQueries {
			fmt.Fprintf(buf, "- ... and %d more\n", len(missing)-maxListedQueries)
			break
		}
		fmt.Fprintf(buf, "- %s *(%s)*\n", m.Query, m.Engine)
	}
	fmt.Fprintf(buf, "\n")
}

var priorityRank = map[models.Priority]int{ //nolint: gochecknoglobals
	models.PriorityCritical: 0,
	models.PriorityHigh:     1,
	models.PriorityMedium:   2,
	models.PriorityLow:      3,
}

// Recommendations merges the schema and technical recommendations, most
// urgent first. Order within a priority is preserved.
func Recommendations(result models.ScanResult) []models.Recommendation {
	recs := make([]models.Recommendation, 0, len(result.Schema.Recommendations)+len(result.Technical.Recommendations))
	recs = append(recs, result.Schema.Recommendations...)
	recs = append(recs, result.Technical.Recommendations...)

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
	})

	return recs
}
