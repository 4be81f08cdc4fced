package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/gohistory-mcp/pkg/types"
)

func TestClassifyIntent_Type(t *testing.T) {
	tests := []struct {
		query string
		want  types.IntentType
	}{
		{"fix the docker build error", types.IntentError},
		{"implement user login", types.IntentImplementation},
		{"explain the caching layer", types.IntentAnalysis},
		{"docker compose networking", types.IntentGeneral},
		// Error indicators outrank implementation indicators.
		{"implement a fix for the crash", types.IntentError},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyIntent(tt.query).Type)
		})
	}
}

func TestClassifyIntent_UrgencyAndScope(t *testing.T) {
	it := ClassifyIntent("urgent error across all services")
	assert.Equal(t, "high", it.Urgency)
	assert.Equal(t, "broad", it.Scope)

	it = ClassifyIntent("implement pagination")
	assert.Equal(t, "medium", it.Urgency)
	assert.Equal(t, "focused", it.Scope)

	// "install" contains "all" as a substring but is not the word "all".
	it = ClassifyIntent("install dependencies")
	assert.Equal(t, "focused", it.Scope)
}

func TestClassifyIntent_SemanticBoosts(t *testing.T) {
	it := ClassifyIntent("fix the file upload error")

	assert.InDelta(t, 3.0, it.SemanticBoosts[types.BoostErrorResolution], 0.001)
	assert.InDelta(t, 2.5, it.SemanticBoosts[types.BoostSolutions], 0.001)
	assert.InDelta(t, 2.0, it.SemanticBoosts[types.BoostFileOperations], 0.001)
	assert.NotContains(t, it.SemanticBoosts, types.BoostToolUsage)
}

func TestClassifyIntent_Expectations(t *testing.T) {
	assert.True(t, ClassifyIntent("fix the broken deploy").ExpectsSolution)
	assert.True(t, ClassifyIntent("implement the parser").ExpectsCode)
	assert.True(t, ClassifyIntent("show me the function code").ExpectsCode)
}

func TestClassifyIntent_Keywords(t *testing.T) {
	it := ClassifyIntent("how to fix the docker build error")
	assert.Equal(t, []string{"docker", "build", "error"}, it.Keywords)
}
