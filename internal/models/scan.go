package models

import "time"

// Version is stamped into every scan's metadata.
const Version = "0.1.0"

// Scan modes recorded in Meta.Mode.
const (
	ModeFull  = "full"
	ModeQuick = "quick"
)

// Phase names used for progress events and Meta.PhaseErrors.
const (
	PhaseDiscovery = "discovery"
	PhaseSchema    = "schema"
	PhaseTechnical = "technical"
	PhaseAIProbe   = "ai_probe"
)

// ScanResult is the unified output of one scan invocation
type ScanResult struct {
	Meta         Meta                 `json:"meta"`
	OverallScore int                  `json:"overallScore"`
	Schema       SchemaAuditResult    `json:"schema"`
	Technical    TechnicalAuditResult `json:"technical"`
	AIProbe      AIProbeResult        `json:"aiProbe"`
}

// Meta describes the scan inputs and when it ran
type Meta struct {
	ScanID      string            `json:"scanId"`
	Domain      string            `json:"domain"`
	Brand       string            `json:"brand"`
	Industry    string            `json:"industry"`
	Competitors []string          `json:"competitors"`
	ScanDate    time.Time         `json:"scanDate"`
	Version     string            `json:"version"`
	Mode        string            `json:"mode"`
	PhaseErrors map[string]string `json:"phaseErrors,omitempty"`
}

// Priority ranks a recommendation
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Recommendation represents an actionable visibility improvement
type Recommendation struct {
	Priority Priority `json:"priority"`
	Category string   `json:"category"`
	Action   string   `json:"action"`
	Reason   string   `json:"reason"`
	Impact   string   `json:"impact"`
}

// OverallScore blends the three audit scores into the headline number.
func OverallScore(schemaScore, technicalScore, aiScore int) int {
	return roundInt(float64(schemaScore)*0.3 + float64(technicalScore)*0.3 + float64(aiScore)*0.4)
}
