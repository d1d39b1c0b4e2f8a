package ground

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/groundcheck/internal/model"
)

func fact(slot, value, normalized string) model.Fact {
	return model.Fact{Slot: slot, Value: value, Normalized: normalized}
}

func memWith(id string, trust float64, slot, value, normalized string) model.MemoryFacts {
	return model.MemoryFacts{
		Memory: model.Memory{ID: id, Text: value, Trust: trust},
		Facts:  map[string]model.Fact{slot: fact(slot, value, normalized)},
	}
}

func TestFindSupport_Exact(t *testing.T) {
	g := Matcher{}
	mems := []model.MemoryFacts{memWith("m1", 0.8, "location", "Seattle", "seattle")}
	s := g.FindSupport(fact("location", "Seattle", "seattle"), mems)
	require.NotNil(t, s)
	assert.Equal(t, "m1", s.MemoryID)
	assert.Equal(t, StrategyExact, s.Strategy)
	assert.Equal(t, 1.0, s.Score)
}

func TestFindSupport_Normalization(t *testing.T) {
	g := Matcher{}
	mems := []model.MemoryFacts{memWith("m1", 1.0, "location", "New York City", "new york city")}
	s := g.FindSupport(fact("location", "NYC", "nyc"), mems)
	require.NotNil(t, s)
	assert.Equal(t, StrategyNormalization, s.Strategy)
}

func TestFindSupport_Fuzzy(t *testing.T) {
	g := Matcher{}
	mems := []model.MemoryFacts{memWith("m1", 1.0, "employer", "Micrsoft", "micrsoft")}
	s := g.FindSupport(fact("employer", "Microsoft", "microsoft"), mems)
	require.NotNil(t, s)
	assert.Equal(t, StrategyFuzzy, s.Strategy)
	assert.Greater(t, s.Score, 0.8)
}

func TestFindSupport_Synonym(t *testing.T) {
	g := Matcher{}
	mems := []model.MemoryFacts{memWith("m1", 1.0, "employer", "Alphabet", "alphabet")}
	s := g.FindSupport(fact("employer", "Google", "google"), mems)
	require.NotNil(t, s)
	assert.Equal(t, StrategySynonym, s.Strategy)
}

type simMatcher struct {
	sim float64
	err error
}

func (m simMatcher) Similarity(a, b string) (float64, error) { return m.sim, m.err }
func (m simMatcher) Entails(p, h string) (model.Entailment, float64, error) {
	return model.EntailmentNeutral, 0, nil
}

func TestFindSupport_Embedding(t *testing.T) {
	g := Matcher{Semantic: simMatcher{sim: 0.82}}
	mems := []model.MemoryFacts{memWith("m1", 1.0, "location", "Emerald City", "emerald city")}
	s := g.FindSupport(fact("location", "Seattle", "seattle"), mems)
	require.NotNil(t, s)
	assert.Equal(t, StrategyEmbedding, s.Strategy)
	assert.Equal(t, 0.82, s.Score)
}

func TestFindSupport_EmbeddingBelowFloor(t *testing.T) {
	g := Matcher{Semantic: simMatcher{sim: 0.5}}
	mems := []model.MemoryFacts{memWith("m1", 1.0, "location", "Emerald City", "emerald city")}
	assert.Nil(t, g.FindSupport(fact("location", "Seattle", "seattle"), mems))
}

func TestFindSupport_MatcherFailureDegrades(t *testing.T) {
	g := Matcher{Semantic: simMatcher{err: errors.New("model offline")}}
	mems := []model.MemoryFacts{memWith("m1", 1.0, "location", "Emerald City", "emerald city")}
	assert.Nil(t, g.FindSupport(fact("location", "Seattle", "seattle"), mems))
}

func TestFindSupport_NoCandidateSlot(t *testing.T) {
	g := Matcher{}
	mems := []model.MemoryFacts{memWith("m1", 1.0, "employer", "Microsoft", "microsoft")}
	assert.Nil(t, g.FindSupport(fact("location", "Seattle", "seattle"), mems))
}

func TestFindSupport_HighestTrustWinsWithinStrategy(t *testing.T) {
	g := Matcher{}
	mems := []model.MemoryFacts{
		memWith("low", 0.2, "location", "Seattle", "seattle"),
		memWith("high", 0.9, "location", "Seattle", "seattle"),
	}
	s := g.FindSupport(fact("location", "Seattle", "seattle"), mems)
	require.NotNil(t, s)
	assert.Equal(t, "high", s.MemoryID)
}

func TestRewrite_SingleSubstitution(t *testing.T) {
	draft := "You work at Amazon and live in Seattle"
	claim := model.Fact{Slot: "employer", Value: "Amazon", Normalized: "amazon", Start: 12, End: 18}
	mems := []model.MemoryFacts{memWith("m1", 0.9, "employer", "Microsoft", "microsoft")}
	c := Rewrite(draft, []model.Fact{claim}, mems)
	require.NotNil(t, c)
	assert.Equal(t, "You work at Microsoft and live in Seattle", c.Text)
	assert.False(t, c.Disclosed)
	assert.Equal(t, 1, c.Replaced)
}

func TestRewrite_CasePreserved(t *testing.T) {
	draft := "the employer is amazon"
	claim := model.Fact{Slot: "employer", Value: "amazon", Normalized: "amazon", Start: 16, End: 22}
	mems := []model.MemoryFacts{memWith("m1", 0.9, "employer", "Microsoft", "microsoft")}
	c := Rewrite(draft, []model.Fact{claim}, mems)
	require.NotNil(t, c)
	assert.Equal(t, "the employer is microsoft", c.Text)
}

func TestRewrite_CompetingValuesDiscloses(t *testing.T) {
	draft := "Your name is Carol"
	claim := model.Fact{Slot: "name", Value: "Carol", Normalized: "carol", Start: 13, End: 18}
	mems := []model.MemoryFacts{
		memWith("m1", 0.9, "name", "Alice", "alice"),
		memWith("m2", 0.3, "name", "Bob", "bob"),
	}
	c := Rewrite(draft, []model.Fact{claim}, mems)
	require.NotNil(t, c)
	assert.Equal(t, "Your name is Alice", c.Text)
	assert.True(t, c.Disclosed)
}

func TestRewrite_RightToLeftKeepsOffsetsValid(t *testing.T) {
	draft := "employer Amazon city Paris"
	claims := []model.Fact{
		{Slot: "employer", Value: "Amazon", Normalized: "amazon", Start: 9, End: 15},
		{Slot: "location", Value: "Paris", Normalized: "paris", Start: 21, End: 26},
	}
	mems := []model.MemoryFacts{
		memWith("m1", 0.9, "employer", "Microsoft", "microsoft"),
		memWith("m2", 0.9, "location", "Seattle", "seattle"),
	}
	c := Rewrite(draft, claims, mems)
	require.NotNil(t, c)
	assert.Equal(t, "employer Microsoft city Seattle", c.Text)
	assert.Equal(t, 2, c.Replaced)
}

func TestRewrite_NoReplacementAvailable(t *testing.T) {
	draft := "Your name is Carol"
	claim := model.Fact{Slot: "name", Value: "Carol", Normalized: "carol", Start: 13, End: 18}
	assert.Nil(t, Rewrite(draft, []model.Fact{claim}, nil))
}

func TestFuzzyTolerance(t *testing.T) {
	assert.Equal(t, 2, FuzzyTolerance(5))
	assert.Equal(t, 2, FuzzyTolerance(12))
	assert.Equal(t, 3, FuzzyTolerance(18))
}
