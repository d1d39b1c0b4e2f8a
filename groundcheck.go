// Package groundcheck detects hallucinations in AI-agent output by
// cross-checking it against trust-scored memories.
//
//	gc, err := groundcheck.New()
//	if err != nil { ... }
//	report, err := gc.Verify(draft, memories, groundcheck.ModeStrict)
//
// The report says which claims the memories support, which contradict
// them, and — in strict mode — offers a rewritten draft with grounded
// values substituted for hallucinated ones.
//
// The import graph enforces a strict no-cycle rule: groundcheck (root)
// imports internal/*, but internal/* never imports the root. Public
// types are standalone structs; the converters between them and the
// internal model live here because this is the only file that sees both
// sides of the boundary.
package groundcheck

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ashita-ai/groundcheck/internal/model"
	"github.com/ashita-ai/groundcheck/internal/ontology"
	"github.com/ashita-ai/groundcheck/internal/textnorm"
	"github.com/ashita-ai/groundcheck/internal/verify"
)

// Error kinds surfaced at the API boundary. A running verification never
// raises: internal pattern or ontology misses degrade silently and the
// affected claim is simply not extracted.
var (
	// ErrInputMalformed: trust outside [0,1] or an unknown mode. No
	// partial result accompanies it.
	ErrInputMalformed = verify.ErrInputMalformed
	// ErrOntologyMissing: an ontology file is absent or unparseable at
	// construction. The checker refuses to start.
	ErrOntologyMissing = ontology.ErrMissing
	// ErrSemanticUnavailable: neural mode requested without a matcher.
	ErrSemanticUnavailable = errors.New("groundcheck: neural requested but no semantic matcher injected")
)

// Checker is the verification pipeline. Construct with New; a Checker is
// immutable and safe for concurrent use, though each Verify call is
// itself synchronous and self-contained.
type Checker struct {
	engine *verify.Engine
	logger *slog.Logger
}

// New builds a Checker. Ontology tables load once, from the embedded
// defaults or from WithOntologyDir.
func New(opts ...Option) (*Checker, error) {
	o := resolvedOptions{}
	for _, fn := range opts {
		fn(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	if o.neural && o.matcher == nil {
		return nil, ErrSemanticUnavailable
	}

	var tables *ontology.Tables
	if o.ontologyDir != "" {
		t, err := ontology.Load(os.DirFS(o.ontologyDir), logger)
		if err != nil {
			return nil, fmt.Errorf("load ontology from %s: %w", o.ontologyDir, err)
		}
		tables = t
	} else {
		tables = ontology.Default(logger)
	}

	var matcher model.Matcher
	if o.matcher != nil {
		matcher = matcherAdapter{o.matcher}
	}

	engine := verify.NewEngine(verify.Config{
		Tables:              tables,
		Matcher:             matcher,
		Logger:              logger,
		DisclosureThreshold: o.disclosureThreshold,
		FuzzyTolerance:      o.fuzzyTolerance,
	})
	return &Checker{engine: engine, logger: logger}, nil
}

// Verify cross-checks draft against memories and returns the report.
func (c *Checker) Verify(draft string, memories []Memory, mode Mode) (VerificationReport, error) {
	report, err := c.engine.Verify(draft, toModelMemories(memories), verify.Mode(mode))
	if err != nil {
		return VerificationReport{}, err
	}
	return toPublicReport(report), nil
}

// ExtractClaims runs both extraction tiers over text.
func (c *Checker) ExtractClaims(text string) map[string]ExtractedFact {
	facts := c.engine.ExtractClaims(text)
	out := make(map[string]ExtractedFact, len(facts))
	for slot, f := range facts {
		out[slot] = toPublicFact(f)
	}
	return out
}

// ExtractKnowledgeFacts runs the Tier-1.5 knowledge extractor alone.
func (c *Checker) ExtractKnowledgeFacts(text string) []KnowledgeFact {
	kfs := c.engine.ExtractKnowledge(text)
	out := make([]KnowledgeFact, len(kfs))
	for i, kf := range kfs {
		out[i] = KnowledgeFact{
			Entity:        kf.Entity,
			Category:      kf.Category,
			Verb:          VerbCategory(kf.Verb),
			ClauseIndex:   kf.ClauseIndex,
			Confidence:    kf.Confidence,
			MigrationFrom: kf.MigrationFrom,
			MigrationTo:   kf.MigrationTo,
		}
	}
	return out
}

// FindSupport grounds a single claim against the memories. Returns nil
// when no memory supports it.
func (c *Checker) FindSupport(claim Claim, memories []Memory) *Support {
	f := model.Fact{
		Slot:       claim.Slot,
		Value:      claim.Value,
		Normalized: textnorm.NormalizeValue(claim.Value),
	}
	s := c.engine.FindSupport(f, toModelMemories(memories))
	if s == nil {
		return nil
	}
	return &Support{MemoryID: s.MemoryID, Strategy: s.Strategy, Score: s.Score}
}

// matcherAdapter narrows the public SemanticMatcher to the internal
// capability the pipeline consumes.
type matcherAdapter struct {
	m SemanticMatcher
}

func (a matcherAdapter) Similarity(x, y string) (float64, error) {
	return a.m.Similarity(x, y)
}

func (a matcherAdapter) Entails(premise, hypothesis string) (model.Entailment, float64, error) {
	verdict, conf, err := a.m.Entails(premise, hypothesis)
	return model.Entailment(verdict), conf, err
}

func toModelMemories(memories []Memory) []model.Memory {
	out := make([]model.Memory, len(memories))
	for i, m := range memories {
		out[i] = model.Memory{ID: m.ID, Text: m.Text, Trust: m.Trust, Timestamp: m.Timestamp}
	}
	return out
}

func toPublicFact(f model.Fact) ExtractedFact {
	return ExtractedFact{
		Slot:       f.Slot,
		Value:      f.Value,
		Normalized: f.Normalized,
		Start:      f.Start,
		End:        f.End,
		Origin:     Origin(f.Origin),
		Rule:       f.Rule,
	}
}

func toPublicReport(r model.Report) VerificationReport {
	out := VerificationReport{
		Passed:             r.Passed,
		Corrected:          r.Corrected,
		Hallucinations:     r.Hallucinations,
		GroundingMap:       r.GroundingMap,
		Confidence:         r.Confidence,
		RequiresDisclosure: r.RequiresDisclosure,
		FactsExtracted:     make(map[string]ExtractedFact, len(r.Facts)),
	}
	for slot, f := range r.Facts {
		out.FactsExtracted[slot] = toPublicFact(f)
	}
	for _, c := range r.Contradictions {
		out.ContradictionDetails = append(out.ContradictionDetails, ContradictionDetail{
			Slot:             c.Slot,
			Values:           c.Values,
			MostTrustedValue: c.MostTrustedValue,
			MostRecentValue:  c.MostRecentValue,
			Action:           c.Action,
			TrustGap:         c.TrustGap,
		})
	}
	return out
}
