// Package contradict detects and resolves conflicts between memories.
// Slots partition into three disjoint groups: known-exclusive (one value
// per subject), additive (many values are fine), and dynamic (anything
// the extractor invented at runtime). Dynamic slots defer to the
// semantic matcher when one is available.
package contradict

import (
	"fmt"
	"sort"

	"github.com/ashita-ai/groundcheck/internal/model"
)

// exclusiveSlots can hold at most one value per subject. Two memories
// asserting different normalized values on one of these always conflict.
var exclusiveSlots = map[string]bool{
	"name": true, "employer": true, "location": true, "title": true,
	"occupation": true, "age": true, "school": true, "degree": true,
	"favorite_color": true, "coffee": true, "spouse": true, "car": true,
	"hometown": true, "nationality": true, "timezone": true,
	"manager": true, "department": true, "salary": true, "team": true,
	"editor": true, "os": true, "shell": true, "browser": true,
	"birthday": true, "email": true, "phone": true, "height": true,
	"diet": true, "graduation_year": true, "programming_experience": true,
	"database": true, "frontend": true, "backend": true, "sport": true,
	"cloud_provider": true, "message_broker": true, "cache": true,
	"container_platform": true, "ci": true, "monitoring": true,
}

// additiveSlots legitimately hold several values and are never flagged.
var additiveSlots = map[string]bool{
	"skill": true, "hobby": true, "language": true,
	"programming_language": true, "tool": true, "project": true,
	"pet": true, "framework": true,
}

// entailmentConfidenceFloor gates matcher-reported contradictions on
// dynamic slots. Below this the verdict is too weak to act on.
const entailmentConfidenceFloor = 0.55

// Kind returns the classification of a slot.
func Kind(slot string) string {
	switch {
	case exclusiveSlots[slot]:
		return "exclusive"
	case additiveSlots[slot]:
		return "additive"
	default:
		return "dynamic"
	}
}

// claim is one memory's assertion on a slot.
type claim struct {
	value      string
	normalized string
	memory     model.Memory
	order      int // position in the caller's memory list, for tie-breaks
}

// Detect examines all memory claims slot by slot and returns resolved
// contradictions. draftSlots marks which slots the draft itself claims;
// matcher may be nil (dynamic slots then conflict on any divergence).
func Detect(memories []model.MemoryFacts, draftSlots map[string]bool, matcher model.Matcher) []model.Contradiction {
	bySlot := make(map[string][]claim)
	var slotOrder []string
	for order, mf := range memories {
		for slot, f := range mf.Facts {
			if _, seen := bySlot[slot]; !seen {
				slotOrder = append(slotOrder, slot)
			}
			bySlot[slot] = append(bySlot[slot], claim{
				value:      f.Value,
				normalized: f.Normalized,
				memory:     mf.Memory,
				order:      order,
			})
		}
	}
	sort.Strings(slotOrder)

	var out []model.Contradiction
	for _, slot := range slotOrder {
		claims := bySlot[slot]
		if len(distinctValues(claims)) < 2 {
			continue
		}
		switch Kind(slot) {
		case "additive":
			continue
		case "exclusive":
			out = append(out, resolve(slot, claims, draftSlots[slot], exclusiveAction))
		default:
			if dynamicConflicts(claims, matcher) {
				out = append(out, resolve(slot, claims, draftSlots[slot], dynamicAction))
			}
		}
	}
	return out
}

// dynamicConflicts decides whether divergent values on a dynamic slot
// are a real conflict. Without a matcher, divergence is conflict. With
// one, any memory pair reported as entailment-contradiction at or above
// the confidence floor conflicts. Matcher failures fall back to the
// no-matcher behavior.
func dynamicConflicts(claims []claim, matcher model.Matcher) bool {
	if matcher == nil {
		return true
	}
	for i := 0; i < len(claims); i++ {
		for j := i + 1; j < len(claims); j++ {
			if claims[i].normalized == claims[j].normalized {
				continue
			}
			verdict, conf, err := matcher.Entails(claims[i].memory.Text, claims[j].memory.Text)
			if err != nil {
				return true
			}
			if verdict == model.EntailmentContradict && conf >= entailmentConfidenceFloor {
				return true
			}
		}
	}
	return false
}

func exclusiveAction(slot, trusted string) string {
	return fmt.Sprintf("slot %q holds one value per subject: keep %q and retire the rest", slot, trusted)
}

func dynamicAction(slot, trusted string) string {
	return fmt.Sprintf("review conflicting sources for %q before relying on %q", slot, trusted)
}

// resolve computes the winners and the trust gap for one conflict group.
func resolve(slot string, claims []claim, draftSlot bool, action func(slot, trusted string) string) model.Contradiction {
	trusted := mostTrusted(claims)
	recent := mostRecent(claims)

	minTrust, maxTrust := claims[0].memory.Trust, claims[0].memory.Trust
	for _, cl := range claims[1:] {
		if cl.memory.Trust < minTrust {
			minTrust = cl.memory.Trust
		}
		if cl.memory.Trust > maxTrust {
			maxTrust = cl.memory.Trust
		}
	}

	return model.Contradiction{
		Slot:             slot,
		Values:           distinctValues(claims),
		MostTrustedValue: trusted.normalized,
		MostRecentValue:  recent.normalized,
		Action:           action(slot, trusted.normalized),
		TrustGap:         maxTrust - minTrust,
		DraftSlot:        draftSlot,
	}
}

// mostTrusted orders by trust, then most-recent timestamp, then list
// position.
func mostTrusted(claims []claim) claim {
	best := claims[0]
	for _, cl := range claims[1:] {
		if trustedLess(best, cl) {
			best = cl
		}
	}
	return best
}

func trustedLess(a, b claim) bool {
	if a.memory.Trust != b.memory.Trust {
		return a.memory.Trust < b.memory.Trust
	}
	at, bt := tsOrd(a.memory), tsOrd(b.memory)
	if at != bt {
		return at < bt
	}
	return a.order > b.order
}

// mostRecent orders by timestamp (unknown sorts last), then trust, then
// list position.
func mostRecent(claims []claim) claim {
	best := claims[0]
	for _, cl := range claims[1:] {
		if recentLess(best, cl) {
			best = cl
		}
	}
	return best
}

func recentLess(a, b claim) bool {
	at, bt := tsOrd(a.memory), tsOrd(b.memory)
	if at != bt {
		return at < bt
	}
	if a.memory.Trust != b.memory.Trust {
		return a.memory.Trust < b.memory.Trust
	}
	return a.order > b.order
}

func tsOrd(m model.Memory) int64 {
	if m.Timestamp == nil {
		return -1 << 62
	}
	return *m.Timestamp
}

func distinctValues(claims []claim) []string {
	seen := make(map[string]bool, len(claims))
	var vals []string
	for _, cl := range claims {
		if seen[cl.normalized] {
			continue
		}
		seen[cl.normalized] = true
		vals = append(vals, cl.normalized)
	}
	return vals
}
