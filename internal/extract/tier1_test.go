package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/groundcheck/internal/model"
	"github.com/ashita-ai/groundcheck/internal/textnorm"
)

func extractText(t *testing.T, text string) map[string]model.Fact {
	t.Helper()
	facts := Extract(textnorm.SplitClauses(text))
	out := make(map[string]model.Fact, len(facts))
	for _, f := range facts {
		if _, seen := out[f.Slot]; !seen {
			out[f.Slot] = f
		}
	}
	return out
}

func TestExtract_NamedSlotCopular(t *testing.T) {
	facts := extractText(t, "Your name is Bob")
	f, ok := facts["name"]
	require.True(t, ok)
	assert.Equal(t, "Bob", f.Value)
	assert.Equal(t, "bob", f.Normalized)
	assert.Equal(t, RuleNamedSlot, f.Rule)
}

func TestExtract_NamedSlotMultiWordSurface(t *testing.T) {
	facts := extractText(t, "My favorite color is teal")
	f, ok := facts["favorite_color"]
	require.True(t, ok)
	assert.Equal(t, "teal", f.Value)
}

func TestExtract_SlotVerbEmployerAndLocation(t *testing.T) {
	facts := extractText(t, "You work at Amazon and live in Seattle")
	require.Contains(t, facts, "employer")
	require.Contains(t, facts, "location")
	assert.Equal(t, "Amazon", facts["employer"].Value)
	assert.Equal(t, "Seattle", facts["location"].Value)
}

func TestExtract_IsNamed(t *testing.T) {
	facts := extractText(t, "User is named Alice")
	require.Contains(t, facts, "name")
	assert.Equal(t, "alice", facts["name"].Normalized)
}

func TestExtract_CommaSplitCopularSlots(t *testing.T) {
	facts := extractText(t, "frontend is React, backend is FastAPI")
	require.Len(t, facts, 2)
	assert.Equal(t, "React", facts["frontend"].Value)
	assert.Equal(t, "FastAPI", facts["backend"].Value)
}

func TestExtract_PrescriptiveSingleDigit(t *testing.T) {
	facts := extractText(t, "Max retries should be 5")
	f, ok := facts["max_retries"]
	require.True(t, ok)
	assert.Equal(t, "5", f.Value)
	assert.Equal(t, RulePrescriptive, f.Rule)
}

func TestExtract_DecimalValuePreserved(t *testing.T) {
	facts := extractText(t, "The uptime target is 99.9%")
	f, ok := facts["uptime_target"]
	require.True(t, ok)
	assert.Equal(t, "99.9%", f.Value)
}

func TestExtract_ArticleStrippedFromValue(t *testing.T) {
	facts := extractText(t, "My occupation is a software engineer")
	f, ok := facts["occupation"]
	require.True(t, ok)
	assert.Equal(t, "software engineer", f.Value)
	assert.Equal(t, "software engineer", f.Normalized)
}

func TestExtract_QuestionRejected(t *testing.T) {
	assert.Empty(t, extractText(t, "What is your name?"))
	assert.Empty(t, extractText(t, "Is the backend FastAPI?"))
	assert.Empty(t, extractText(t, "where do you work"))
}

func TestExtract_Passive(t *testing.T) {
	facts := extractText(t, "Payments are handled via Stripe")
	f, ok := facts["payments"]
	require.True(t, ok)
	assert.Equal(t, "Stripe", f.Value)
	assert.Equal(t, RulePassive, f.Rule)
}

func TestExtract_Config(t *testing.T) {
	facts := extractText(t, "The timeout is set to 30s")
	f, ok := facts["timeout"]
	require.True(t, ok)
	assert.Equal(t, "30s", f.Value)
	assert.Equal(t, RuleConfig, f.Rule)
}

func TestExtract_Decision(t *testing.T) {
	facts := extractText(t, "We decided to use Kafka")
	f, ok := facts["decision"]
	require.True(t, ok)
	assert.Equal(t, "Kafka", f.Value)
}

func TestExtract_Requirement(t *testing.T) {
	facts := extractText(t, "The deploy requires approval")
	f, ok := facts["deploy"]
	require.True(t, ok)
	assert.Equal(t, "approval", f.Value)
	assert.Equal(t, RuleRequirement, f.Rule)
}

func TestExtract_ActionVerb(t *testing.T) {
	facts := extractText(t, "The billing service uses Stripe")
	f, ok := facts["billing_service"]
	require.True(t, ok)
	assert.Equal(t, "Stripe", f.Value)
}

func TestExtract_PronounActionSubjectSkipped(t *testing.T) {
	// "We use X" carries no Tier-1 subject slot; Tier-1.5 covers it.
	assert.Empty(t, extractText(t, "We use Postgres for everything"))
}

func TestExtract_HaveHasPet(t *testing.T) {
	facts := extractText(t, "I have a dog")
	f, ok := facts["pet"]
	require.True(t, ok)
	assert.Equal(t, "dog", f.Value)
}

func TestExtract_SpanPointsAtValue(t *testing.T) {
	text := "You work at Amazon and live in Seattle"
	facts := Extract(textnorm.SplitClauses(text))
	for _, f := range facts {
		assert.Equal(t, f.Value, text[f.Start:f.End])
	}
}

func TestExtract_NormalizedRoundTrip(t *testing.T) {
	for _, text := range []string{
		"Your name is Bob",
		"My occupation is a Software Engineer",
		"The uptime target is 99.9%",
		"You work at Amazon and live in Seattle",
	} {
		for _, f := range Extract(textnorm.SplitClauses(text)) {
			assert.Equal(t, textnorm.NormalizeValue(f.Value), f.Normalized)
		}
	}
}

func BenchmarkExtract(b *testing.B) {
	clauses := textnorm.SplitClauses(
		"Your name is Bob, you work at Amazon and live in Seattle. " +
			"The frontend is React, the backend is FastAPI, max retries should be 5.")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Extract(clauses)
	}
}
