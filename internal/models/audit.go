package models

// SchemaAuditResult is the outcome of the structured-data audit
type SchemaAuditResult struct {
	Domain              string               `json:"domain"`
	SchemaScore         int                  `json:"schemaScore"`
	PagesScanned        int                  `json:"pagesScanned"`
	PagesFailed         int                  `json:"pagesFailed"`
	TotalSchemas        int                  `json:"totalSchemas"`
	SchemasFound        []SchemaCoverage     `json:"schemasFound"`
	SchemasByPage       []PageSchemas        `json:"schemasByPage"`
	MissingSchemas      []string             `json:"missingSchemas"`
	OrganizationDetails *OrganizationDetails `json:"organizationDetails"`
	Recommendations     []Recommendation     `json:"recommendations"`
}

// SchemaCoverage reports whether one required type was seen anywhere
type SchemaCoverage struct {
	Type        string `json:"type"`
	Found       bool   `json:"found"`
	Weight      int    `json:"weight"`
	Description string `json:"description"`
}

// PageSchemas lists the structured-data types found on one page
type PageSchemas struct {
	URL     string   `json:"url"`
	Schemas []string `json:"schemas"`
	Count   int      `json:"count"`
}

// OrganizationDetails scores the Organization entity
type OrganizationDetails struct {
	Completeness int      `json:"completeness"`
	Missing      []string `json:"missing"`
	HasSameAs    bool     `json:"hasSameAs"`
	HasWikipedia bool     `json:"hasWikipedia"`
	SameAsCount  int      `json:"sameAsCount"`
	SourceURL    string   `json:"sourceUrl,omitempty"`
}

// TechnicalAuditResult is the outcome of the technical readiness audit
type TechnicalAuditResult struct {
	Domain          string           `json:"domain"`
	TechnicalScore  int              `json:"technicalScore"`
	Checks          TechnicalChecks  `json:"checks"`
	Recommendations []Recommendation `json:"recommendations"`
}

// TechnicalChecks groups the three independent sub-checks
type TechnicalChecks struct {
	RobotsTxt   RobotsCheck      `json:"robotsTxt"`
	Sitemap     SitemapCheck     `json:"sitemap"`
	PageQuality PageQualityCheck `json:"pageQuality"`
}

// RobotsCheck reports AI crawler access according to robots.txt
type RobotsCheck struct {
	Exists           bool                     `json:"exists"`
	AllowsAICrawlers map[string]CrawlerAccess `json:"allowsAICrawlers"`
	RawContent       string                   `json:"rawContent"`
}

// CrawlerAccess is the robots.txt verdict for one AI crawler
type CrawlerAccess struct {
	Allowed              bool   `json:"allowed"`
	ExplicitlyConfigured bool   `json:"explicitlyConfigured"`
	Owner                string `json:"owner"`
}

// SitemapCheck reports the first sitemap found
type SitemapCheck struct {
	Exists    bool   `json:"exists"`
	PageCount int    `json:"pageCount"`
	URL       string `json:"url"`
}

// PageQualityCheck holds the homepage signals. ContentWordCount is only
// meaningful when ContentExtracted is set.
type PageQualityCheck struct {
	Reachable          bool             `json:"reachable"`
	HTTPS              bool             `json:"https"`
	LoadTimeMs         int64            `json:"loadTimeMs"`
	HasMetaDescription bool             `json:"hasMetaDescription"`
	HasOgTags          bool             `json:"hasOgTags"`
	HasCanonical       bool             `json:"hasCanonical"`
	HeadingStructure   HeadingStructure `json:"headingStructure"`
	LanguageTag        string           `json:"languageTag"`
	PageTitle          string           `json:"pageTitle"`
	PageTitleLength    int              `json:"pageTitleLength"`
	ContentWordCount   int              `json:"contentWordCount"`
	ContentExtracted   bool             `json:"contentExtracted"`
}

// HeadingStructure counts the top heading levels
type HeadingStructure struct {
	H1Count int  `json:"h1Count"`
	H2Count int  `json:"h2Count"`
	H3Count int  `json:"h3Count"`
	Valid   bool `json:"valid"`
}
