// Package score computes the confidence and disclosure outputs of a
// verification. Confidence aggregates per-claim contributions weighted
// by source trust; disclosure keys off the trust gap between conflicting
// memories.
package score

import "github.com/ashita-ai/groundcheck/internal/model"

// DefaultDisclosureThreshold is the trust gap at which conflicting
// sources must be disclosed to the user. Asserted rather than derived;
// callers may tune it.
const DefaultDisclosureThreshold = 0.30

// correctableWeight is the contribution of a hallucinated claim whose
// slot still has a grounded replacement: the stated value is wrong but
// the slot is known, so the claim is worth half a grounded one.
const correctableWeight = 0.5

// ClaimResult is the scoring view of one draft claim.
type ClaimResult struct {
	Slot         string
	Grounded     bool
	SupportTrust float64 // trust of the best supporting memory
	Correctable  bool    // a grounded replacement exists for the slot
}

// Confidence aggregates claim results into [0, 1]. A grounded claim
// contributes the trust of its supporting memory; a hallucinated claim
// contributes correctableWeight when the memories still carry a value
// for its slot, and nothing otherwise. No claims means nothing to doubt:
// confidence 1.0.
func Confidence(results []ClaimResult) float64 {
	if len(results) == 0 {
		return 1.0
	}
	var sum float64
	for _, r := range results {
		switch {
		case r.Grounded:
			sum += r.SupportTrust
		case r.Correctable:
			sum += correctableWeight
		}
	}
	c := sum / float64(len(results))
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// RequiresDisclosure reports whether any contradiction's trust gap
// reaches the threshold.
func RequiresDisclosure(contradictions []model.Contradiction, threshold float64) bool {
	for _, c := range contradictions {
		if c.TrustGap >= threshold {
			return true
		}
	}
	return false
}

// Passed is true iff no hallucinations remain and no contradiction
// touches a slot the draft claims.
func Passed(hallucinations []string, contradictions []model.Contradiction) bool {
	if len(hallucinations) > 0 {
		return false
	}
	for _, c := range contradictions {
		if c.DraftSlot {
			return false
		}
	}
	return true
}
