package verify

import (
	"github.com/ashita-ai/groundcheck/internal/model"
)

// slotAliases maps a Tier-1.5 taxonomy category onto the Tier-1 slot
// vocabulary. The merger owns this table; the extractors never see each
// other's slot names.
var slotAliases = map[string]string{
	"database":       "database",
	"language":       "programming_language",
	"framework":      "framework",
	"message_broker": "message_broker",
	"cache":          "cache",
	"cloud":          "cloud_provider",
	"container":      "container_platform",
	"ci":             "ci",
	"monitoring":     "monitoring",
	"editor":         "editor",
	"os":             "os",
}

// aliasSlot resolves a taxonomy category to its slot name. Unknown
// categories pass through as their own slot.
func aliasSlot(category string) string {
	if s, ok := slotAliases[category]; ok {
		return s
	}
	return category
}

// knowledgeFact converts a Tier-1.5 inference to a claim-shaped fact.
// Migration facts claim the destination value.
func knowledgeFact(kf model.KnowledgeFact) model.Fact {
	value := kf.Entity
	if kf.MigrationTo != "" {
		value = kf.MigrationTo
	}
	return model.Fact{
		Slot:       aliasSlot(kf.Category),
		Value:      value,
		Normalized: value, // canonical taxonomy names are already normalized
		Start:      kf.Start,
		End:        kf.End,
		Origin:     model.OriginKnowledge,
		Rule:       string(kf.Verb),
	}
}

// mergeFacts unions Tier-1 and Tier-1.5 outputs into one slot->fact map.
// Tier-1 wins on conflict; a Tier-1.5 fact that repeats a Tier-1 value
// is discarded, and one that disagrees is retained as evidence rather
// than as a second claim on the slot. slots preserves first-seen order
// for deterministic iteration.
func mergeFacts(tier1 []model.Fact, knowledge []model.KnowledgeFact) (claims map[string]model.Fact, slots []string, evidence []model.Fact) {
	claims = make(map[string]model.Fact, len(tier1)+len(knowledge))
	for _, f := range tier1 {
		if _, taken := claims[f.Slot]; taken {
			continue
		}
		claims[f.Slot] = f
		slots = append(slots, f.Slot)
	}
	for _, kf := range knowledge {
		f := knowledgeFact(kf)
		existing, taken := claims[f.Slot]
		if !taken {
			claims[f.Slot] = f
			slots = append(slots, f.Slot)
			continue
		}
		if existing.Normalized == f.Normalized {
			continue // same underlying fact, never counted twice
		}
		evidence = append(evidence, f)
	}
	return claims, slots, evidence
}
