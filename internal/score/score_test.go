package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashita-ai/groundcheck/internal/model"
)

func TestConfidence_NoClaims(t *testing.T) {
	assert.Equal(t, 1.0, Confidence(nil))
}

func TestConfidence_AllGroundedFullTrust(t *testing.T) {
	results := []ClaimResult{
		{Slot: "employer", Grounded: true, SupportTrust: 1.0},
		{Slot: "location", Grounded: true, SupportTrust: 1.0},
	}
	assert.Equal(t, 1.0, Confidence(results))
}

func TestConfidence_MixedGroundedAndCorrectable(t *testing.T) {
	// One claim grounded at trust 0.8, one hallucinated but correctable.
	results := []ClaimResult{
		{Slot: "location", Grounded: true, SupportTrust: 0.8},
		{Slot: "employer", Correctable: true},
	}
	assert.InDelta(t, 0.65, Confidence(results), 1e-9)
}

func TestConfidence_UncorrectableHallucination(t *testing.T) {
	results := []ClaimResult{
		{Slot: "employer"},
	}
	assert.Equal(t, 0.0, Confidence(results))
}

func TestRequiresDisclosure(t *testing.T) {
	cs := []model.Contradiction{{Slot: "name", TrustGap: 0.6}}
	assert.True(t, RequiresDisclosure(cs, DefaultDisclosureThreshold))
	assert.False(t, RequiresDisclosure(cs, 0.7))
	assert.False(t, RequiresDisclosure(nil, DefaultDisclosureThreshold))
}

func TestRequiresDisclosure_AtThreshold(t *testing.T) {
	cs := []model.Contradiction{{Slot: "name", TrustGap: 0.30}}
	assert.True(t, RequiresDisclosure(cs, DefaultDisclosureThreshold))
}

func TestPassed(t *testing.T) {
	assert.True(t, Passed(nil, nil))
	assert.False(t, Passed([]string{"Amazon"}, nil))
	assert.False(t, Passed(nil, []model.Contradiction{{Slot: "name", DraftSlot: true}}))
	assert.True(t, Passed(nil, []model.Contradiction{{Slot: "name", DraftSlot: false}}),
		"memory-only contradictions are reported but do not fail the draft")
}
