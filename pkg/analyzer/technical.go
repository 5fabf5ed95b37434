package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/temoto/robotstxt"
	"go.uber.org/zap"

	"github.com/amosWeiskopf/aivis/internal/models"
	"github.com/amosWeiskopf/aivis/pkg/crawler"
	"github.com/amosWeiskopf/aivis/pkg/extractor"
	"github.com/amosWeiskopf/aivis/pkg/fetcher"
	"github.com/amosWeiskopf/aivis/pkg/logger"
	"github.com/amosWeiskopf/aivis/pkg/progress"
	"github.com/amosWeiskopf/aivis/pkg/utils"
)

// Point budgets of the technical score.
const (
	robotsBudget      = 20
	robotsBaseline    = 5
	sitemapBudget     = 15
	pageQualityBudget = 65
	technicalMax      = robotsBudget + sitemapBudget + pageQualityBudget

	sitemapLargeThreshold = 10
	titleMinLength        = 30
	titleMaxLength        = 60
	thinContentWords      = 300
)

// AICrawler is a known AI user agent
type AICrawler struct {
	Name  string
	Agent string
	Owner string
}

// AICrawlers are checked against robots.txt in this order.
var AICrawlers = []AICrawler{ //nolint: gochecknoglobals
	{Name: "GPTBot", Agent: "GPTBot", Owner: "OpenAI (ChatGPT)"},
	{Name: "Google-Extended", Agent: "Google-Extended", Owner: "Google (Gemini/Bard)"},
	{Name: "ChatGPT-User", Agent: "ChatGPT-User", Owner: "OpenAI (ChatGPT Browse)"},
	{Name: "Anthropic", Agent: "anthropic-ai", Owner: "Anthropic (Claude)"},
	{Name: "PerplexityBot", Agent: "PerplexityBot", Owner: "Perplexity AI"},
	{Name: "Bytespider", Agent: "Bytespider", Owner: "ByteDance (TikTok AI)"},
	{Name: "CCBot", Agent: "CCBot", Owner: "Common Crawl (training data)"},
}

// SitemapPaths are tried in order; the first success wins.
var SitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml", "/sitemap-index.xml"} //nolint: gochecknoglobals

// TechnicalAuditor runs the robots.txt, sitemap and page quality checks
type TechnicalAuditor struct {
	fetcher   fetcher.Getter
	extractor *extractor.Extractor
	progress  progress.Sink
}

// NewTechnicalAuditor creates a TechnicalAuditor. A nil sink is allowed.
func NewTechnicalAuditor(f fetcher.Getter, sink progress.Sink) *TechnicalAuditor {
	return &TechnicalAuditor{
		fetcher:   f,
		extractor: extractor.New(),
		progress:  progress.OrNop(sink),
	}
}

// Audit runs every check in sequence. All three budgets always count toward
// the denominator; a failed check simply earns nothing. Only context
// cancellation is returned as an error.
func (a *TechnicalAuditor) Audit(ctx context.Context, domain string) (models.TechnicalAuditResult, error) {
	result := models.TechnicalAuditResult{
		Domain:          domain,
		Recommendations: []models.Recommendation{},
	}
	earned := 0

	steps := []struct {
		message string
		run     func() (int, []models.Recommendation)
	}{
		{"Checking robots.txt...", func() (int, []models.Recommendation) {
			var pts int
			var recs []models.Recommendation
			result.Checks.RobotsTxt, pts, recs = a.checkRobots(ctx, domain)
			return pts, recs
		}},
		{"Checking sitemap...", func() (int, []models.Recommendation) {
			var pts int
			var recs []models.Recommendation
			result.Checks.Sitemap, pts, recs = a.checkSitemap(ctx, domain)
			return pts, recs
		}},
		{"Checking page quality...", func() (int, []models.Recommendation) {
			var pts int
			var recs []models.Recommendation
			result.Checks.PageQuality, pts, recs = a.checkPageQuality(ctx, domain)
			return pts, recs
		}},
	}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return models.TechnicalAuditResult{}, fmt.Errorf("technical audit interrupted: %w", err)
		}
		a.progress.Report(ctx, progress.Event{
			Phase:   models.PhaseTechnical,
			Message: step.message,
			Current: i + 1,
			Total:   len(steps),
		})
		pts, recs := step.run()
		earned += pts
		result.Recommendations = append(result.Recommendations, recs...)
	}

	result.TechnicalScore = percent(earned, technicalMax)

	logger.Info(ctx, "technical audit complete",
		zap.String("domain", domain),
		zap.Int("score", result.TechnicalScore),
		zap.Int("points", earned))

	return result, nil
}

func (a *TechnicalAuditor) checkRobots(ctx context.Context, domain string) (models.RobotsCheck, int, []models.Recommendation) {
	check := models.RobotsCheck{AllowsAICrawlers: map[string]models.CrawlerAccess{}}

	res := a.fetcher.Get(ctx, utils.HomepageURL(domain)+"/robots.txt")
	if !res.OK() {
		for _, c := range AICrawlers {
			check.AllowsAICrawlers[c.Name] = models.CrawlerAccess{Allowed: true, Owner: c.Owner}
		}
		return check, 0, []models.Recommendation{{
			Priority: models.PriorityMedium,
			Category: "robots",
			Action:   "Create a robots.txt file",
			Reason:   "No robots.txt found - AI crawlers may not index your site optimally",
			Impact:   fmt.Sprintf("Up to +%d points to technical score", robotsBudget),
		}}
	}

	check.Exists = true
	check.RawContent = string(res.Body)

	access, blocked := AnalyzeRobots(res.Body)
	check.AllowsAICrawlers = access

	var recs []models.Recommendation
	for _, c := range blocked {
		recs = append(recs, models.Recommendation{
			Priority: models.PriorityHigh,
			Category: "robots",
			Action:   fmt.Sprintf("Unblock %s (%s) in robots.txt", c.Name, c.Owner),
			Reason:   fmt.Sprintf("%s cannot crawl your site, making you invisible in their AI answers", c.Owner),
			Impact:   fmt.Sprintf("Restores visibility in %s", c.Owner),
		})
	}

	return check, RobotsPoints(len(blocked)), recs
}

// AnalyzeRobots resolves each AI crawler's robots.txt group. A crawler is
// blocked when a User-agent line names it exactly and its group disallows
// "/". Prefix matches such as "Google" for Google-Extended do not count.
// Unparseable content blocks nobody.
func AnalyzeRobots(content []byte) (map[string]models.CrawlerAccess, []AICrawler) {
	access := make(map[string]models.CrawlerAccess, len(AICrawlers))

	robots, err := robotstxt.FromBytes(content)
	if err != nil {
		for _, c := range AICrawlers {
			access[c.Name] = models.CrawlerAccess{Allowed: true, Owner: c.Owner}
		}
		return access, nil
	}

	declared := declaredAgents(content)
	var blocked []AICrawler
	for _, c := range AICrawlers {
		explicit := declared[strings.ToLower(c.Agent)]
		isBlocked := explicit && !robots.FindGroup(c.Agent).Test("/")
		access[c.Name] = models.CrawlerAccess{
			Allowed:              !isBlocked,
			ExplicitlyConfigured: explicit,
			Owner:                c.Owner,
		}
		if isBlocked {
			blocked = append(blocked, c)
		}
	}

	return access, blocked
}

// declaredAgents returns the lower-cased tokens of every User-agent line.
func declaredAgents(content []byte) map[string]bool {
	agents := map[string]bool{}
	for _, line := range strings.Split(string(content), "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "user-agent") {
			continue
		}
		if agent := strings.ToLower(strings.TrimSpace(value)); agent != "" {
			agents[agent] = true
		}
	}

	return agents
}

// RobotsPoints is the robots.txt sub-score for an existing file.
func RobotsPoints(blocked int) int {
	allowed := len(AICrawlers) - blocked
	scaled := float64(robotsBudget-robotsBaseline) * float64(allowed) / float64(len(AICrawlers))

	return robotsBaseline + int(math.Round(scaled))
}

func (a *TechnicalAuditor) checkSitemap(ctx context.Context, domain string) (models.SitemapCheck, int, []models.Recommendation) {
	var check models.SitemapCheck

	for _, path := range SitemapPaths {
		sitemapURL := utils.HomepageURL(domain) + path
		res := a.fetcher.Get(ctx, sitemapURL)
		if !res.OK() {
			continue
		}
		check.Exists = true
		check.URL = sitemapURL
		if sm, err := crawler.ParseSitemap(res.Body); err == nil {
			check.PageCount = sm.PageCount()
		}
		break
	}

	if !check.Exists {
		return check, 0, []models.Recommendation{{
			Priority: models.PriorityHigh,
			Category: "sitemap",
			Action:   "Create and submit a sitemap.xml",
			Reason:   "AI engines use sitemaps to discover and index content",
			Impact:   fmt.Sprintf("Up to +%d points to technical score", sitemapBudget),
		}}
	}

	points := 10
	if check.PageCount > sitemapLargeThreshold {
		points += 5
	}

	return check, points, nil
}

func (a *TechnicalAuditor) checkPageQuality(ctx context.Context, domain string) (models.PageQualityCheck, int, []models.Recommendation) {
	res := a.fetcher.Get(ctx, utils.HomepageURL(domain))
	if !res.OK() {
		check := models.PageQualityCheck{LoadTimeMs: res.Elapsed.Milliseconds()}
		return check, 0, []models.Recommendation{{
			Priority: models.PriorityHigh,
			Category: "page_quality",
			Action:   "Make the homepage reachable over HTTPS",
			Reason:   fmt.Sprintf("Homepage could not be fetched (%s) - page quality could not be assessed", res.Outcome()),
			Impact:   fmt.Sprintf("Up to +%d points to technical score", pageQualityBudget),
		}}
	}

	check := InspectPage(res.Body)
	check.Reachable = true
	check.HTTPS = strings.HasPrefix(res.FinalURL, "https://")
	check.LoadTimeMs = res.Elapsed.Milliseconds()
	if text, err := a.extractor.MainText(res.Body); err == nil {
		check.ContentWordCount = extractor.WordCount(text)
		check.ContentExtracted = true
	} else {
		logger.Debug(ctx, "main text extraction failed", zap.String("domain", domain), zap.Error(err))
	}

	points, recs := PageQualityPoints(check)

	return check, points, recs
}

// InspectPage reads the page quality signals from homepage markup.
func InspectPage(body []byte) models.PageQualityCheck {
	var check models.PageQualityCheck

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return check
	}

	check.PageTitle = strings.TrimSpace(doc.Find("title").First().Text())
	check.PageTitleLength = utf8.RuneCountInString(check.PageTitle)
	check.HasMetaDescription = doc.Find(`meta[name="description"]`).Length() > 0
	check.HasOgTags = doc.Find(`meta[property="og:title"]`).Length() > 0
	check.HasCanonical = doc.Find(`link[rel="canonical"]`).Length() > 0
	check.LanguageTag = strings.TrimSpace(doc.Find("html").First().AttrOr("lang", ""))

	check.HeadingStructure.H1Count = doc.Find("h1").Length()
	check.HeadingStructure.H2Count = doc.Find("h2").Length()
	check.HeadingStructure.H3Count = doc.Find("h3").Length()
	check.HeadingStructure.Valid = check.HeadingStructure.H1Count == 1

	return check
}

// PageQualityPoints scores a reachable homepage out of 65.
func PageQualityPoints(check models.PageQualityCheck) (int, []models.Recommendation) {
	var points int
	var recs []models.Recommendation

	if check.HTTPS {
		points += 10
	}

	switch {
	case check.LoadTimeMs < 3000:
		points += 10
	case check.LoadTimeMs < 5000:
		points += 5
	}

	if check.HasMetaDescription {
		points += 10
	} else {
		recs = append(recs, models.Recommendation{
			Priority: models.PriorityHigh,
			Category: "page_quality",
			Action:   "Add meta description to all pages",
			Reason:   "Meta descriptions are used by AI engines for content summarization",
			Impact:   "+10 points to technical score",
		})
	}

	if check.HasOgTags {
		points += 5
	}
	if check.HasCanonical {
		points += 5
	}
	if check.LanguageTag != "" {
		points += 5
	}

	if check.HeadingStructure.Valid {
		points += 10
	} else {
		recs = append(recs, models.Recommendation{
			Priority: models.PriorityMedium,
			Category: "page_quality",
			Action:   fmt.Sprintf("Fix heading structure (found %d H1 tags, should be exactly 1)", check.HeadingStructure.H1Count),
			Reason:   "Clear heading hierarchy helps AI engines understand content structure",
			Impact:   "+10 points to technical score",
		})
	}

	switch {
	case check.PageTitleLength >= titleMinLength && check.PageTitleLength <= titleMaxLength:
		points += 10
	case check.PageTitleLength > 0:
		points += 5
	}

	if check.ContentExtracted && check.ContentWordCount < thinContentWords {
		recs = append(recs, models.Recommendation{
			Priority: models.PriorityLow,
			Category: "content",
			Action:   fmt.Sprintf("Expand homepage copy beyond %d words", thinContentWords),
			Reason:   "Short pages give AI engines little text to summarize or cite",
			Impact:   "Better content summarization",
		})
	}

	return points, recs
}
