package models

// EmptySchemaAudit is the zero-valued stand-in for a failed schema phase.
func EmptySchemaAudit(domain string) SchemaAuditResult {
	return SchemaAuditResult{
		Domain:          domain,
		SchemasFound:    []SchemaCoverage{},
		SchemasByPage:   []PageSchemas{},
		MissingSchemas:  []string{},
		Recommendations: []Recommendation{},
	}
}

// EmptyTechnicalAudit is the zero-valued stand-in for a failed technical phase.
func EmptyTechnicalAudit(domain string) TechnicalAuditResult {
	return TechnicalAuditResult{
		Domain: domain,
		Checks: TechnicalChecks{
			RobotsTxt: RobotsCheck{AllowsAICrawlers: map[string]CrawlerAccess{}},
		},
		Recommendations: []Recommendation{},
	}
}

// EmptyAIProbe is the stand-in for a failed or skipped AI probe. Every
// engine is tagged not_measured.
func EmptyAIProbe(domain, brand, industry string) AIProbeResult {
	unmeasured := EngineStats{Method: MethodNotMeasured}

	return AIProbeResult{
		Domain:   domain,
		Brand:    brand,
		Industry: industry,
		EngineBreakdown: EngineBreakdown{
			Google:     unmeasured,
			ChatGPT:    unmeasured,
			Perplexity: unmeasured,
			Gemini:     unmeasured,
		},
		CompetitorComparison: []CompetitorComparison{},
		TopMissingQueries:    []MissingQuery{},
		MentionedQueries:     []MentionedQuery{},
		Prompts:              []string{},
	}
}
