// Package ground matches draft claims against memories and rewrites
// hallucinated values in strict mode. Matching runs a five-strategy
// cascade, cheapest first, stopping at the first success; the optional
// embedding strategy only runs when a semantic matcher is injected.
package ground

import (
	"sort"

	"github.com/agext/levenshtein"

	"github.com/ashita-ai/groundcheck/internal/model"
)

// Strategy names recorded on supports, in cascade order.
const (
	StrategyExact         = "exact"
	StrategyNormalization = "normalization"
	StrategyFuzzy         = "fuzzy"
	StrategySynonym       = "synonym"
	StrategyEmbedding     = "embedding"
)

// embeddingSimFloor is the minimum cosine similarity for the embedding
// strategy to accept a match.
const embeddingSimFloor = 0.75

// FuzzyTolerance is the default edit-distance budget: generous enough for
// a typo or two, scaling with value length.
func FuzzyTolerance(valueLen int) int {
	tol := valueLen / 6
	if tol < 2 {
		tol = 2
	}
	return tol
}

// Matcher configures the cascade. Semantic may be nil; Tolerance nil
// means FuzzyTolerance.
type Matcher struct {
	Semantic  model.Matcher
	Tolerance func(valueLen int) int
}

func (g Matcher) tolerance(valueLen int) int {
	if g.Tolerance != nil {
		return g.Tolerance(valueLen)
	}
	return FuzzyTolerance(valueLen)
}

// FindSupport searches memories for one that supports the claim.
// Candidates are memories whose facts carry the claim's slot, visited in
// trust order so the best source wins ties within a strategy. Returns
// nil when nothing matches; a failing semantic matcher silently yields
// no embedding matches (the cascade has already tried everything else).
func (g Matcher) FindSupport(claim model.Fact, memories []model.MemoryFacts) *model.Support {
	type candidate struct {
		fact  model.Fact
		mem   model.Memory
		order int
	}
	var candidates []candidate
	for order, mf := range memories {
		if f, ok := mf.Facts[claim.Slot]; ok {
			candidates = append(candidates, candidate{fact: f, mem: mf.Memory, order: order})
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].mem.Trust != candidates[j].mem.Trust {
			return candidates[i].mem.Trust > candidates[j].mem.Trust
		}
		return candidates[i].order < candidates[j].order
	})

	// exact
	for _, c := range candidates {
		if claim.Normalized == c.fact.Normalized {
			return &model.Support{MemoryID: c.mem.ID, Strategy: StrategyExact, Score: 1.0}
		}
	}
	// normalization (alias map)
	for _, c := range candidates {
		if canonicalize(claim.Normalized) == canonicalize(c.fact.Normalized) {
			return &model.Support{MemoryID: c.mem.ID, Strategy: StrategyNormalization, Score: 0.95}
		}
	}
	// fuzzy
	for _, c := range candidates {
		a, b := claim.Normalized, c.fact.Normalized
		longer := len(a)
		if len(b) > longer {
			longer = len(b)
		}
		dist := levenshtein.Distance(a, b, nil)
		if dist <= g.tolerance(longer) {
			score := 1.0 - float64(dist)/float64(longer)
			return &model.Support{MemoryID: c.mem.ID, Strategy: StrategyFuzzy, Score: score}
		}
	}
	// synonym
	for _, c := range candidates {
		if sameSynonymGroup(claim.Normalized, c.fact.Normalized) {
			return &model.Support{MemoryID: c.mem.ID, Strategy: StrategySynonym, Score: 0.9}
		}
	}
	// embedding
	if g.Semantic != nil {
		for _, c := range candidates {
			sim, err := g.Semantic.Similarity(claim.Normalized, c.fact.Normalized)
			if err != nil {
				break // degrade: the non-neural strategies already ran
			}
			if sim >= embeddingSimFloor {
				return &model.Support{MemoryID: c.mem.ID, Strategy: StrategyEmbedding, Score: sim}
			}
		}
	}
	return nil
}
