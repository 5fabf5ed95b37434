package models

// Method tags how an engine score was obtained
type Method string

const (
	MethodMeasured    Method = "measured"
	MethodEstimated   Method = "estimated"
	MethodNotMeasured Method = "not_measured"
)

// ConfidenceLow marks heuristic estimates.
const ConfidenceLow = "low"

// Engine identifiers used in query attributions.
const (
	EngineGoogle     = "google"
	EngineChatGPT    = "chatgpt"
	EnginePerplexity = "perplexity"
	EngineGemini     = "gemini"
	EngineMultiple   = "multiple"
)

// Standing compares the scanned domain against a competitor
type Standing string

const (
	StandingAhead  Standing = "ahead"
	StandingTied   Standing = "tied"
	StandingBehind Standing = "behind"
)

// CompareOverall classifies yours against theirs.
func CompareOverall(yours, theirs int) Standing {
	switch {
	case yours > theirs:
		return StandingAhead
	case yours < theirs:
		return StandingBehind
	default:
		return StandingTied
	}
}

// AIProbeResult is the outcome of the AI engine probe
type AIProbeResult struct {
	Domain               string                 `json:"domain"`
	Brand                string                 `json:"brand"`
	Industry             string                 `json:"industry"`
	AIVisibilityScore    int                    `json:"aiVisibilityScore"`
	TotalPrompts         int                    `json:"totalPrompts"`
	HasSerpAPIKey        bool                   `json:"hasSerpApiKey"`
	EngineBreakdown      EngineBreakdown        `json:"engineBreakdown"`
	CompetitorComparison []CompetitorComparison `json:"competitorComparison"`
	TopMissingQueries    []MissingQuery         `json:"topMissingQueries"`
	MentionedQueries     []MentionedQuery       `json:"mentionedQueries"`
	Prompts              []string               `json:"prompts"`
}

// EngineBreakdown holds one entry per AI engine
type EngineBreakdown struct {
	Google     EngineStats `json:"google"`
	ChatGPT    EngineStats `json:"chatgpt"`
	Perplexity EngineStats `json:"perplexity"`
	Gemini     EngineStats `json:"gemini"`
}

// EngineStats is the mention tally for one engine
type EngineStats struct {
	Mentions           int    `json:"mentions"`
	AIOverviewMentions int    `json:"aiOverviewMentions,omitempty"`
	TotalQueries       int    `json:"totalQueries"`
	Score              int    `json:"score"`
	Method             Method `json:"method"`
	Confidence         string `json:"confidence,omitempty"`
}

// CompetitorComparison benchmarks one competitor domain
type CompetitorComparison struct {
	Competitor     string   `json:"competitor"`
	EstimatedScore int      `json:"estimatedScore"`
	SchemaScore    int      `json:"schemaScore"`
	TechnicalScore int      `json:"technicalScore"`
	AIEstimate     int      `json:"aiEstimate"`
	VsYou          Standing `json:"vsYou"`
	Error          string   `json:"error,omitempty"`
}

// MissingQuery is a prompt where the brand was not found
type MissingQuery struct {
	Query       string `json:"query"`
	Engine      string `json:"engine"`
	Opportunity string `json:"opportunity"`
}

// MentionedQuery is a prompt where the brand was found
type MentionedQuery struct {
	Query        string `json:"query"`
	Engine       string `json:"engine"`
	Context      string `json:"context"`
	Position     int    `json:"position,omitempty"`
	InAIOverview bool   `json:"inAIOverview,omitempty"`
}
