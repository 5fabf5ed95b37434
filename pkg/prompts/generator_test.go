package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryIndustryHasFifteenPrompts(t *testing.T) {
	for _, name := range Industries() {
		assert.Len(t, IndustryPrompts(name), 15, name)
	}
	assert.Equal(t, []string{"digital consultancy", "ecommerce", "generic", "manufacturing", "saas"}, Industries())
}

func TestGenerateOrdering(t *testing.T) {
	got := Generate("  SaaS ", "Acme", []string{"rival.com", "other.de"})

	require.Len(t, got, 24)
	assert.Equal(t, "Best SaaS tools for German businesses", got[0])
	assert.Equal(t, "What do you know about Acme?", got[15])
	assert.Equal(t, "Should I work with Acme?", got[19])
	assert.Equal(t, []string{
		"Acme vs rival.com - which is better?",
		"Compare Acme and rival.com",
		"Acme vs other.de - which is better?",
		"Compare Acme and other.de",
	}, got[20:])
	assert.Equal(t, len(got), Count("saas", 2))
}

func TestGenerateUnknownIndustryFallsBackToGeneric(t *testing.T) {
	tests := []struct {
		name     string
		industry string
	}{
		{name: "unknown", industry: "aerospace"},
		{name: "empty", industry: ""},
		{name: "blank", industry: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.industry, "Acme", nil)
			require.Len(t, got, 20)
			assert.Equal(t, IndustryPrompts(GenericIndustry), got[:15])
		})
	}
}

func TestGenerateDoesNotAliasTemplates(t *testing.T) {
	first := Generate("ecommerce", "Acme", nil)
	first[0] = "changed"

	assert.Equal(t, "Best online shops in Germany", Generate("ecommerce", "Acme", nil)[0])
}

func TestGenerateDeterministic(t *testing.T) {
	assert.Equal(t,
		Generate("manufacturing", "Acme", []string{"b.com"}),
		Generate("manufacturing", "Acme", []string{"b.com"}),
	)
}
