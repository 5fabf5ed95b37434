package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverallScore(t *testing.T) {
	tests := []struct {
		schema, technical, ai int
		want                  int
	}{
		{0, 0, 0, 0},
		{100, 100, 100, 100},
		{45, 85, 23, 48},
		{80, 90, 50, 71},
		{0, 0, 8, 3},
		// 0.3*50 + 0.3*50 + 0.4*1 = 30.4
		{50, 50, 1, 30},
		{25, 0, 12, 12},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, OverallScore(tt.schema, tt.technical, tt.ai), "%d/%d/%d", tt.schema, tt.technical, tt.ai)
	}
}

func TestCompareOverall(t *testing.T) {
	for yours := 0; yours <= 100; yours += 25 {
		for theirs := 0; theirs <= 100; theirs += 25 {
			got := CompareOverall(yours, theirs)
			switch {
			case yours > theirs:
				assert.Equal(t, StandingAhead, got)
			case yours < theirs:
				assert.Equal(t, StandingBehind, got)
			default:
				assert.Equal(t, StandingTied, got)
			}
		}
	}
}

func TestEmptyStubsSerialiseAsEmptyLists(t *testing.T) {
	raw, err := json.Marshal(ScanResult{
		Schema:    EmptySchemaAudit("acme.com"),
		Technical: EmptyTechnicalAudit("acme.com"),
		AIProbe:   EmptyAIProbe("acme.com", "acme", "generic"),
	})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	schema := doc["schema"].(map[string]any)
	assert.Equal(t, []any{}, schema["recommendations"])
	assert.Nil(t, schema["organizationDetails"])

	probe := doc["aiProbe"].(map[string]any)
	assert.Equal(t, []any{}, probe["topMissingQueries"])
	google := probe["engineBreakdown"].(map[string]any)["google"].(map[string]any)
	assert.Equal(t, "not_measured", google["method"])
	assert.NotContains(t, google, "confidence")

	meta := doc["meta"].(map[string]any)
	assert.NotContains(t, meta, "phaseErrors")
}
