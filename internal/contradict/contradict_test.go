package contradict

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/groundcheck/internal/model"
)

func mem(id string, trust float64, ts *int64) model.Memory {
	return model.Memory{ID: id, Text: id, Trust: trust, Timestamp: ts}
}

func tsPtr(v int64) *int64 { return &v }

func memFacts(m model.Memory, slot, value string) model.MemoryFacts {
	return model.MemoryFacts{
		Memory: m,
		Facts: map[string]model.Fact{
			slot: {Slot: slot, Value: value, Normalized: value},
		},
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, "exclusive", Kind("employer"))
	assert.Equal(t, "additive", Kind("hobby"))
	assert.Equal(t, "dynamic", Kind("deploy_window"))
}

func TestDetect_ExclusiveConflict(t *testing.T) {
	mems := []model.MemoryFacts{
		memFacts(mem("a", 0.9, nil), "name", "alice"),
		memFacts(mem("b", 0.3, nil), "name", "bob"),
	}
	out := Detect(mems, map[string]bool{"name": true}, nil)
	require.Len(t, out, 1)
	c := out[0]
	assert.Equal(t, "name", c.Slot)
	assert.Equal(t, []string{"alice", "bob"}, c.Values)
	assert.Equal(t, "alice", c.MostTrustedValue)
	assert.InDelta(t, 0.6, c.TrustGap, 1e-9)
	assert.True(t, c.DraftSlot)
}

func TestDetect_AdditiveNeverFlagged(t *testing.T) {
	mems := []model.MemoryFacts{
		memFacts(mem("a", 1.0, nil), "hobby", "chess"),
		memFacts(mem("b", 1.0, nil), "hobby", "climbing"),
	}
	assert.Empty(t, Detect(mems, nil, nil))
}

func TestDetect_AgreementNotFlagged(t *testing.T) {
	mems := []model.MemoryFacts{
		memFacts(mem("a", 0.9, nil), "employer", "microsoft"),
		memFacts(mem("b", 0.2, nil), "employer", "microsoft"),
	}
	assert.Empty(t, Detect(mems, nil, nil))
}

func TestDetect_DynamicWithoutMatcher(t *testing.T) {
	mems := []model.MemoryFacts{
		memFacts(mem("a", 1.0, nil), "deploy_window", "friday"),
		memFacts(mem("b", 1.0, nil), "deploy_window", "monday"),
	}
	out := Detect(mems, nil, nil)
	require.Len(t, out, 1)
	assert.False(t, out[0].DraftSlot)
}

type fakeMatcher struct {
	verdict model.Entailment
	conf    float64
	err     error
}

func (f fakeMatcher) Similarity(a, b string) (float64, error) { return 0, f.err }
func (f fakeMatcher) Entails(p, h string) (model.Entailment, float64, error) {
	return f.verdict, f.conf, f.err
}

func TestDetect_DynamicMatcherNeutral(t *testing.T) {
	mems := []model.MemoryFacts{
		memFacts(mem("a", 1.0, nil), "deploy_window", "friday"),
		memFacts(mem("b", 1.0, nil), "deploy_window", "weekday"),
	}
	out := Detect(mems, nil, fakeMatcher{verdict: model.EntailmentNeutral, conf: 0.9})
	assert.Empty(t, out)
}

func TestDetect_DynamicMatcherContradictBelowFloor(t *testing.T) {
	mems := []model.MemoryFacts{
		memFacts(mem("a", 1.0, nil), "deploy_window", "friday"),
		memFacts(mem("b", 1.0, nil), "deploy_window", "monday"),
	}
	out := Detect(mems, nil, fakeMatcher{verdict: model.EntailmentContradict, conf: 0.5})
	assert.Empty(t, out, "confidence below 0.55 is too weak to flag")
}

func TestDetect_DynamicMatcherContradict(t *testing.T) {
	mems := []model.MemoryFacts{
		memFacts(mem("a", 1.0, nil), "deploy_window", "friday"),
		memFacts(mem("b", 1.0, nil), "deploy_window", "monday"),
	}
	out := Detect(mems, nil, fakeMatcher{verdict: model.EntailmentContradict, conf: 0.8})
	assert.Len(t, out, 1)
}

func TestDetect_DynamicMatcherErrorFallsBack(t *testing.T) {
	mems := []model.MemoryFacts{
		memFacts(mem("a", 1.0, nil), "deploy_window", "friday"),
		memFacts(mem("b", 1.0, nil), "deploy_window", "monday"),
	}
	out := Detect(mems, nil, fakeMatcher{err: errors.New("model offline")})
	assert.Len(t, out, 1, "matcher failure degrades to no-matcher behavior")
}

func TestResolve_MostRecentTimestampWins(t *testing.T) {
	mems := []model.MemoryFacts{
		memFacts(mem("old", 0.9, tsPtr(1)), "location", "seattle"),
		memFacts(mem("new", 0.5, tsPtr(9)), "location", "portland"),
	}
	out := Detect(mems, nil, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "seattle", out[0].MostTrustedValue)
	assert.Equal(t, "portland", out[0].MostRecentValue)
}

func TestResolve_TrustTieBrokenByTimestampThenOrder(t *testing.T) {
	mems := []model.MemoryFacts{
		memFacts(mem("a", 0.8, nil), "location", "seattle"),
		memFacts(mem("b", 0.8, tsPtr(3)), "location", "portland"),
	}
	out := Detect(mems, nil, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "portland", out[0].MostTrustedValue, "timestamped memory breaks the trust tie")

	// Full tie: first in list wins.
	mems = []model.MemoryFacts{
		memFacts(mem("a", 0.8, nil), "location", "seattle"),
		memFacts(mem("b", 0.8, nil), "location", "portland"),
	}
	out = Detect(mems, nil, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "seattle", out[0].MostTrustedValue)
}
