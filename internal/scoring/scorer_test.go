package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/gohistory-mcp/pkg/types"
)

func record(role types.Role, content string) *types.Record {
	return &types.Record{ID: "r1", Role: role, Content: content, ProjectPath: "/code/app"}
}

func TestScore_StrictTermVeto(t *testing.T) {
	rec := record(types.RoleAssistant, "We migrated the frontend components and fixed the hooks logic")

	// "react" is strict-core and absent: zero regardless of other overlap.
	assert.Zero(t, Score(rec, "react hooks frontend", ""))
}

func TestScore_CasingGateFeedsVeto(t *testing.T) {
	rec := record(types.RoleAssistant, "ReAct agent pattern implementation")

	// "ReAct" shares letters with "react" but its internal capitalization
	// denotes a different concept, so the strict veto fires.
	assert.Zero(t, Score(rec, "react hooks optimization", ""))
}

func TestScore_StrictHitScoresHigh(t *testing.T) {
	rec := record(types.RoleAssistant, "We fixed the Docker auth issue using the Read tool")

	score := Score(rec, "docker auth", "")
	assert.Greater(t, score, 10.0, "strict hit plus phrase and coverage bonuses")
}

func TestScore_SupportingTermsNeverVeto(t *testing.T) {
	rec := record(types.RoleAssistant, "short note about nothing relevant")

	// No strict terms in the query; missing supporting terms degrade the
	// score but never veto.
	score := Score(rec, "deployment pipeline configuration", "")
	assert.GreaterOrEqual(t, score, 0.0)
}

func TestScore_Bonuses(t *testing.T) {
	base := Score(record(types.RoleAssistant, "updated the deployment settings"), "deployment settings", "")

	withTool := Score(record(types.RoleToolUse, "updated the deployment settings"), "deployment settings", "")
	assert.Greater(t, withTool, base, "tool records earn a flat bonus")

	withFile := Score(record(types.RoleAssistant, "updated the deployment settings in config.yaml"), "deployment settings", "")
	assert.Greater(t, withFile, base, "file references earn a flat bonus")

	withProject := Score(record(types.RoleAssistant, "updated the deployment settings"), "deployment settings", "app")
	assert.Greater(t, withProject, base, "project filter match earns a flat bonus")
}

func TestScore_ExactPhraseBonus(t *testing.T) {
	scattered := Score(record(types.RoleAssistant, "auth was broken; docker fixed it"), "docker auth", "")
	phrase := Score(record(types.RoleAssistant, "the docker auth flow is fixed"), "docker auth", "")
	assert.Greater(t, phrase, scattered)
}

func TestScore_EmptyInputs(t *testing.T) {
	assert.Zero(t, Score(record(types.RoleAssistant, ""), "docker", ""))
	assert.Zero(t, Score(record(types.RoleAssistant, "content"), "", ""))
	assert.Zero(t, Score(record(types.RoleAssistant, "content"), "a b", ""), "no words survive tokenization")
}

func TestScoreCapped_Ceiling(t *testing.T) {
	rec := record(types.RoleToolUse,
		"docker auth token refresh for the docker auth service in auth.go with docker auth retries")

	score := ScoreCapped(rec, "docker auth token refresh service retries")
	assert.LessOrEqual(t, score, CappedScoreCeiling)
	assert.Greater(t, score, 0.0)
}

func TestScoreCapped_SubstringSemantics(t *testing.T) {
	// Unlike Score, the capped path uses plain substring matching with no
	// casing gate; both paths are kept because call sites rely on their
	// different scales.
	rec := record(types.RoleAssistant, "ReAct pattern notes")
	assert.Greater(t, ScoreCapped(rec, "react pattern"), 0.0)
	assert.Zero(t, Score(rec, "react pattern", ""))
}

func TestQueryWords(t *testing.T) {
	assert.Equal(t, []string{"docker", "auth"}, QueryWords("the docker auth"))
	assert.Empty(t, QueryWords("a an it"))
}

func TestSignificantWords(t *testing.T) {
	got := SignificantWords("how to fix the docker build error")
	assert.Equal(t, []string{"docker", "build", "error"}, got)
}
