// Package verify wires the pipeline: normalize and split, extract with
// both tiers, merge, detect contradictions, ground each claim, correct
// in strict mode, and score. The root groundcheck package and the MCP
// server both drive verifications through an Engine.
package verify

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ashita-ai/groundcheck/internal/contradict"
	"github.com/ashita-ai/groundcheck/internal/extract"
	"github.com/ashita-ai/groundcheck/internal/ground"
	"github.com/ashita-ai/groundcheck/internal/knowledge"
	"github.com/ashita-ai/groundcheck/internal/model"
	"github.com/ashita-ai/groundcheck/internal/ontology"
	"github.com/ashita-ai/groundcheck/internal/score"
	"github.com/ashita-ai/groundcheck/internal/textnorm"
)

// Mode selects what happens to hallucinated values.
type Mode string

const (
	// ModeStrict rewrites hallucinated values with grounded ones.
	ModeStrict Mode = "strict"
	// ModePermissive reports hallucinations without rewriting.
	ModePermissive Mode = "permissive"
)

// ErrInputMalformed covers out-of-range trust scores and unknown modes.
// No partial result accompanies it.
var ErrInputMalformed = errors.New("verify: malformed input")

// Engine runs verifications. It is immutable after construction and safe
// for concurrent use; each call is pure over its inputs.
type Engine struct {
	tables              *ontology.Tables
	matcher             model.Matcher // nil disables Tier-2
	logger              *slog.Logger
	disclosureThreshold float64
	grounder            ground.Matcher
}

// Config carries Engine construction knobs. Tables is required; zero
// values of the other fields select defaults.
type Config struct {
	Tables              *ontology.Tables
	Matcher             model.Matcher
	Logger              *slog.Logger
	DisclosureThreshold float64
	FuzzyTolerance      func(valueLen int) int
}

// NewEngine builds an Engine. Tables must be non-nil; everything else
// defaults.
func NewEngine(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	threshold := cfg.DisclosureThreshold
	if threshold <= 0 {
		threshold = score.DefaultDisclosureThreshold
	}
	return &Engine{
		tables:              cfg.Tables,
		matcher:             cfg.Matcher,
		logger:              logger,
		disclosureThreshold: threshold,
		grounder:            ground.Matcher{Semantic: cfg.Matcher, Tolerance: cfg.FuzzyTolerance},
	}
}

// ExtractClaims runs both extraction tiers over text and returns the
// merged slot map.
func (e *Engine) ExtractClaims(text string) map[string]model.Fact {
	claims, _, _ := e.extract(text)
	return claims
}

// ExtractKnowledge runs Tier-1.5 alone.
func (e *Engine) ExtractKnowledge(text string) []model.KnowledgeFact {
	return knowledge.Extract(textnorm.SplitClauses(text), e.tables)
}

// FindSupport grounds a single claim against the memories without
// running a full verification.
func (e *Engine) FindSupport(claim model.Fact, memories []model.Memory) *model.Support {
	return e.grounder.FindSupport(claim, e.memoryFacts(memories))
}

// Verify cross-checks a draft against the memories and returns the
// report. It never fails mid-verification; only malformed inputs error.
func (e *Engine) Verify(draft string, memories []model.Memory, mode Mode) (model.Report, error) {
	if mode != ModeStrict && mode != ModePermissive {
		return model.Report{}, fmt.Errorf("%w: unknown mode %q", ErrInputMalformed, mode)
	}
	for i, m := range memories {
		if m.Trust < 0 || m.Trust > 1 {
			return model.Report{}, fmt.Errorf("%w: memory %d: trust %v outside [0,1]", ErrInputMalformed, i, m.Trust)
		}
	}
	memories = withIDs(memories)

	claims, slots, evidence := e.extract(draft)
	report := model.Report{
		GroundingMap: make(map[string]*string, len(claims)),
		Facts:        claims,
		Confidence:   1.0,
		Passed:       true,
	}
	if len(claims) == 0 {
		// Nothing extractable is informational, not an error.
		return report, nil
	}

	memFacts := e.memoryFacts(memories)

	draftSlots := make(map[string]bool, len(claims)+len(evidence))
	for slot := range claims {
		draftSlots[slot] = true
	}
	for _, f := range evidence {
		draftSlots[f.Slot] = true
	}
	report.Contradictions = contradict.Detect(memFacts, draftSlots, e.matcher)

	trustByID := make(map[string]float64, len(memories))
	for _, m := range memories {
		trustByID[m.ID] = m.Trust
	}

	var hallucinated []model.Fact
	var results []score.ClaimResult
	for _, slot := range slots {
		claim := claims[slot]
		support := e.grounder.FindSupport(claim, memFacts)
		if support != nil {
			id := support.MemoryID
			report.GroundingMap[slot] = &id
			results = append(results, score.ClaimResult{
				Slot:         slot,
				Grounded:     true,
				SupportTrust: trustByID[id],
			})
			continue
		}
		report.GroundingMap[slot] = nil
		report.Hallucinations = append(report.Hallucinations, claim.Value)
		hallucinated = append(hallucinated, claim)
		results = append(results, score.ClaimResult{
			Slot:        slot,
			Correctable: slotKnown(slot, memFacts),
		})
	}

	report.Passed = score.Passed(report.Hallucinations, report.Contradictions)
	report.Confidence = score.Confidence(results)
	report.RequiresDisclosure = score.RequiresDisclosure(report.Contradictions, e.disclosureThreshold)

	if mode == ModeStrict && !report.Passed && len(hallucinated) > 0 {
		if corr := ground.Rewrite(draft, hallucinated, memFacts); corr != nil {
			report.Corrected = &corr.Text
			if corr.Disclosed {
				report.RequiresDisclosure = true
			}
		}
	}

	e.logger.Debug("verification complete",
		"claims", len(claims),
		"hallucinations", len(report.Hallucinations),
		"contradictions", len(report.Contradictions),
		"passed", report.Passed,
		"confidence", report.Confidence)
	return report, nil
}

// extract runs both tiers over text and merges them.
func (e *Engine) extract(text string) (map[string]model.Fact, []string, []model.Fact) {
	clauses := textnorm.SplitClauses(text)
	tier1 := extract.Extract(clauses)
	kf := knowledge.Extract(clauses, e.tables)
	return mergeFacts(tier1, kf)
}

// memoryFacts extracts claims from every memory's text.
func (e *Engine) memoryFacts(memories []model.Memory) []model.MemoryFacts {
	out := make([]model.MemoryFacts, len(memories))
	for i, m := range memories {
		claims, _, _ := e.extract(m.Text)
		out[i] = model.MemoryFacts{Memory: m, Facts: claims}
	}
	return out
}

// withIDs fills in positional ids for memories supplied without one, so
// the grounding map can always reference its source.
func withIDs(memories []model.Memory) []model.Memory {
	out := make([]model.Memory, len(memories))
	copy(out, memories)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = fmt.Sprintf("memory-%d", i+1)
		}
	}
	return out
}

// slotKnown reports whether any memory carries a value for the slot.
func slotKnown(slot string, memories []model.MemoryFacts) bool {
	for _, mf := range memories {
		if _, ok := mf.Facts[slot]; ok {
			return true
		}
	}
	return false
}
