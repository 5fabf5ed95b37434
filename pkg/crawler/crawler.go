package crawler

import (
	"context"
	"encoding/xml"
	"strings"

	"go.uber.org/zap"

	"github.com/amosWeiskopf/aivis/pkg/extractor"
	"github.com/amosWeiskopf/aivis/pkg/fetcher"
	"github.com/amosWeiskopf/aivis/pkg/logger"
	"github.com/amosWeiskopf/aivis/pkg/utils"
)

// Sitemap is the parsed content of a sitemap or sitemap index
type Sitemap struct {
	URLs     []string // <url><loc> entries
	Sitemaps []string // <sitemap><loc> entries of an index
}

// PageCount is the number of listed URLs, or of nested sitemaps for an index.
func (s Sitemap) PageCount() int {
	if len(s.URLs) > 0 {
		return len(s.URLs)
	}

	return len(s.Sitemaps)
}

type locEntry struct {
	Loc string `xml:"loc"`
}

type sitemapDoc struct {
	URLs     []locEntry `xml:"url"`
	Sitemaps []locEntry `xml:"sitemap"`
}

// ParseSitemap decodes a sitemap. Entries with an empty <loc> are dropped.
func ParseSitemap(body []byte) (Sitemap, error) {
	var doc sitemapDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return Sitemap{}, err
	}

	var sm Sitemap
	for _, u := range doc.URLs {
		if loc := strings.TrimSpace(u.Loc); loc != "" {
			sm.URLs = append(sm.URLs, loc)
		}
	}
	for _, s := range doc.Sitemaps {
		if loc := strings.TrimSpace(s.Loc); loc != "" {
			sm.Sitemaps = append(sm.Sitemaps, loc)
		}
	}

	return sm, nil
}

// Crawler discovers pages sitemap-first with a homepage link fallback
type Crawler struct {
	fetcher   fetcher.Getter
	extractor *extractor.Extractor
	maxPages  int
}

var _ Discoverer = (*Crawler)(nil)

// New creates a Crawler.
func New(f fetcher.Getter, opts Options) *Crawler {
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}

	return &Crawler{
		fetcher:   f,
		extractor: extractor.New(),
		maxPages:  opts.MaxPages,
	}
}

// Discover implements Discoverer. Fetch failures degrade to a shorter list,
// never to an error.
func (c *Crawler) Discover(ctx context.Context, domain string) []string {
	homepage := utils.HomepageURL(domain)
	pages := newPageSet(homepage, c.maxPages)

	res := c.fetcher.Get(ctx, homepage+"/sitemap.xml")
	if res.OK() {
		sm, err := ParseSitemap(res.Body)
		if err != nil {
			logger.Debug(ctx, "sitemap not parseable", zap.String("domain", domain), zap.Error(err))
		}
		for _, loc := range sm.URLs {
			if !pages.add(loc) {
				break
			}
		}
	}

	if pages.len() > 1 {
		return pages.urls
	}

	res = c.fetcher.Get(ctx, homepage)
	if !res.OK() {
		return pages.urls
	}
	for _, href := range c.extractor.RelativeLinks(res.Body) {
		if !pages.add(homepage + href) {
			break
		}
	}
	logger.Debug(ctx, "discovered pages from homepage links",
		zap.String("domain", domain), zap.Int("pages", pages.len()))

	return pages.urls
}

// pageSet is an ordered, capped, duplicate-free URL list.
type pageSet struct {
	urls  []string
	seen  map[string]bool
	limit int
}

func newPageSet(homepage string, limit int) *pageSet {
	s := &pageSet{seen: make(map[string]bool), limit: limit}
	s.urls = append(s.urls, homepage)
	s.seen[utils.NormalizeURL(homepage)] = true

	return s
}

// add appends u unless it is a duplicate. It returns false once the cap is
// reached.
func (s *pageSet) add(u string) bool {
	if len(s.urls) >= s.limit {
		return false
	}
	key := utils.NormalizeURL(u)
	if !s.seen[key] {
		s.seen[key] = true
		s.urls = append(s.urls, u)
	}

	return len(s.urls) < s.limit
}

func (s *pageSet) len() int {
	return len(s.urls)
}
