// Package extract implements the Tier-1 pattern extractor: nine rule
// families tried in order over each clause. The first family that
// matches a clause consumes it, except the named-slot family, which may
// emit several facts from one clause.
package extract

import (
	"regexp"
	"strings"

	"github.com/ashita-ai/groundcheck/internal/model"
	"github.com/ashita-ai/groundcheck/internal/textnorm"
)

// Rule family names recorded on extracted facts.
const (
	RuleNamedSlot    = "named_slot"
	RuleBareCopular  = "bare_copular"
	RuleHaveHas      = "have_has"
	RuleActionVerb   = "action_verb"
	RuleRequirement  = "requirement"
	RuleDecision     = "decision"
	RulePrescriptive = "prescriptive"
	RulePassive      = "passive"
	RuleConfig       = "config"
)

var (
	reCopular = regexp.MustCompile(
		`(?i)(?:\b(?:my|your|our|their|his|her|its|the)\s+)?\b(` +
			lexiconAlternation() + `)(?:'s)?\s+(?:is|are|was|were|am)\s+(.+)$`)

	reAge = regexp.MustCompile(`(?i)\b(?:is|am|are|turned)\s+(\d{1,3})\s+years?\s+old\b`)

	// Verb-lexicon forms of the named-slot family: the verb names the slot.
	slotVerbRules = []struct {
		re   *regexp.Regexp
		slot string
	}{
		{regexp.MustCompile(`(?i)\b(?:work(?:s|ed|ing)?\s+(?:at|for)|employed\s+(?:at|by))\s+(.+)$`), "employer"},
		{regexp.MustCompile(`(?i)\b(?:live[sd]?|living|reside[sd]?|residing|based)\s+in\s+(.+)$`), "location"},
		{regexp.MustCompile(`(?i)\b(?:is|are|am|was|were)\s+(?:named|called)\s+(.+)$`), "name"},
		{regexp.MustCompile(`(?i)\b(?:graduated\s+from|studie[sd]\s+at|studying\s+at)\s+(.+)$`), "school"},
		{regexp.MustCompile(`(?i)\bmajor(?:s|ed|ing)?\s+in\s+(.+)$`), "degree"},
	}

	reBare = regexp.MustCompile(`(?i)^((?:[\w.+#/-]+\s+){0,3}[\w.+#/-]+?)\s+(?:is|are)\s+(.+)$`)
	reHave = regexp.MustCompile(`(?i)^(.{1,60}?)\s+(?:has|have)\s+(.+)$`)
	reAct  = regexp.MustCompile(`(?i)^(.{1,60}?)\s+(?:uses?|used|handles|supports|runs|manufactures|chose|picked|selected)\s+(.+)$`)
	reReq  = regexp.MustCompile(`(?i)^(.{1,60}?)\s+(?:requires|needs|demands)\s+(.+)$`)
	reDec  = regexp.MustCompile(`(?i)^(?:we|they|i)\s+(?:agreed|decided|chose|picked)\s+(?:to\s+(?:use|adopt|go\s+with)|on)\s+(.+)$`)
	rePre  = regexp.MustCompile(`(?i)^(.{1,60}?)\s+(?:should\s+be|must\s+be|needs\s+to\s+be)\s+(.+)$`)
	reImp  = regexp.MustCompile(`(?i)^(always|never)\s+([a-z]+)\s+(.+)$`)
	rePas  = regexp.MustCompile(`(?i)^(.{1,60}?)\s+(?:is|are|was|were)\s+(?:handled|managed|done|served)\s+(?:via|by|with)\s+(.+)$`)
	reCfg  = regexp.MustCompile(`(?i)^(.{1,60}?)\s+(?:is\s+set\s+to|is\s+configured\s+as|equals)\s+(.+)$`)
)

// bareValueHeads are value-opening words that belong to later families;
// the bare-copular family must not swallow them.
var bareValueHeads = map[string]bool{
	"set": true, "configured": true, "handled": true, "managed": true,
	"done": true, "served": true, "named": true, "called": true,
}

// Extract runs the nine families over each clause and returns facts in
// clause order.
func Extract(clauses []model.Clause) []model.Fact {
	var facts []model.Fact
	for _, c := range clauses {
		facts = append(facts, extractClause(c)...)
	}
	return facts
}

func extractClause(c model.Clause) []model.Fact {
	if interrogative(c) {
		return nil
	}

	// Family 1: named-slot copular plus its verb-lexicon forms. The only
	// family allowed to emit multiple facts from one clause.
	if facts := namedSlot(c); len(facts) > 0 {
		return facts
	}

	// Families 2-9: first match consumes the clause.
	if f, ok := bareCopular(c); ok {
		return []model.Fact{f}
	}
	if f, ok := haveHas(c); ok {
		return []model.Fact{f}
	}
	if f, ok := subjectVerb(c, reAct, RuleActionVerb); ok {
		return []model.Fact{f}
	}
	if f, ok := subjectVerb(c, reReq, RuleRequirement); ok {
		return []model.Fact{f}
	}
	if f, ok := decision(c); ok {
		return []model.Fact{f}
	}
	if f, ok := prescriptive(c); ok {
		return []model.Fact{f}
	}
	if f, ok := passiveOrConfig(c, rePas, RulePassive); ok {
		return []model.Fact{f}
	}
	if f, ok := passiveOrConfig(c, reCfg, RuleConfig); ok {
		return []model.Fact{f}
	}
	return nil
}

// interrogative rejects questions: a leading question word or a trailing
// question mark.
func interrogative(c model.Clause) bool {
	if strings.HasSuffix(strings.TrimSpace(c.Text), "?") {
		return true
	}
	return len(c.Tokens) > 0 && questionWords[c.Tokens[0].Norm]
}

func namedSlot(c model.Clause) []model.Fact {
	var facts []model.Fact

	if m := reCopular.FindStringSubmatchIndex(c.Text); m != nil {
		surface := strings.Join(strings.Fields(strings.ToLower(c.Text[m[2]:m[3]])), " ")
		if slot, ok := slotLexicon[surface]; ok {
			if f, ok := newFact(c, slot, m[4], m[5], RuleNamedSlot); ok {
				facts = append(facts, f)
			}
		}
	}

	for _, rule := range slotVerbRules {
		if slotTaken(facts, rule.slot) {
			continue
		}
		if m := rule.re.FindStringSubmatchIndex(c.Text); m != nil {
			if f, ok := newFact(c, rule.slot, m[2], m[3], RuleNamedSlot); ok {
				facts = append(facts, f)
			}
		}
	}

	if !slotTaken(facts, "age") {
		if m := reAge.FindStringSubmatchIndex(c.Text); m != nil {
			if f, ok := newFact(c, "age", m[2], m[3], RuleNamedSlot); ok {
				facts = append(facts, f)
			}
		}
	}
	return facts
}

func bareCopular(c model.Clause) (model.Fact, bool) {
	m := reBare.FindStringSubmatchIndex(c.Text)
	if m == nil {
		return model.Fact{}, false
	}
	slot, ok := slugify(c.Text[m[2]:m[3]])
	if !ok {
		return model.Fact{}, false
	}
	head := firstWord(c.Text[m[4]:m[5]])
	if bareValueHeads[head] {
		return model.Fact{}, false
	}
	return newFact(c, slot, m[4], m[5], RuleBareCopular)
}

func haveHas(c model.Clause) (model.Fact, bool) {
	m := reHave.FindStringSubmatchIndex(c.Text)
	if m == nil {
		return model.Fact{}, false
	}
	subject := c.Text[m[2]:m[3]]
	if slot, ok := slugify(subject); ok {
		return newFact(c, slot, m[4], m[5], RuleHaveHas)
	}
	// Pronoun subject: only a pet mention makes a usable slot
	// ("I have a dog named Rex" -> pet).
	value := c.Text[m[4]:m[5]]
	for _, tok := range textnorm.Tokenize(value) {
		if petWords[tok.Norm] {
			return newFact(c, "pet", m[4]+tok.Start, m[4]+tok.End, RuleHaveHas)
		}
	}
	return model.Fact{}, false
}

func subjectVerb(c model.Clause, re *regexp.Regexp, rule string) (model.Fact, bool) {
	m := re.FindStringSubmatchIndex(c.Text)
	if m == nil {
		return model.Fact{}, false
	}
	slot, ok := slugify(c.Text[m[2]:m[3]])
	if !ok {
		return model.Fact{}, false
	}
	return newFact(c, slot, m[4], m[5], rule)
}

func decision(c model.Clause) (model.Fact, bool) {
	m := reDec.FindStringSubmatchIndex(c.Text)
	if m == nil {
		return model.Fact{}, false
	}
	return newFact(c, "decision", m[2], m[3], RuleDecision)
}

func prescriptive(c model.Clause) (model.Fact, bool) {
	if m := rePre.FindStringSubmatchIndex(c.Text); m != nil {
		if slot, ok := slugify(c.Text[m[2]:m[3]]); ok {
			return newFact(c, slot, m[4], m[5], RulePrescriptive)
		}
	}
	if m := reImp.FindStringSubmatchIndex(c.Text); m != nil {
		if slot, ok := slugify(c.Text[m[4]:m[5]]); ok {
			return newFact(c, slot, m[6], m[7], RulePrescriptive)
		}
	}
	return model.Fact{}, false
}

func passiveOrConfig(c model.Clause, re *regexp.Regexp, rule string) (model.Fact, bool) {
	m := re.FindStringSubmatchIndex(c.Text)
	if m == nil {
		return model.Fact{}, false
	}
	slot, ok := slugify(c.Text[m[2]:m[3]])
	if !ok {
		return model.Fact{}, false
	}
	return newFact(c, slot, m[4], m[5], rule)
}

// newFact builds a fact from a value span within the clause, excluding a
// leading article and trailing punctuation from the recorded span so
// rewrites replace only the value itself.
func newFact(c model.Clause, slot string, gs, ge int, rule string) (model.Fact, bool) {
	raw := c.Text[gs:ge]
	lead := textnorm.StripLeadingArticle(raw)
	gs += lead
	raw = raw[lead:]
	// A value never crosses a sentence boundary; internal periods in
	// decimals and versions are not followed by a space.
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if (ch == '.' || ch == '!' || ch == '?') && (i+1 == len(raw) || raw[i+1] == ' ') {
			raw = raw[:i]
			break
		}
	}
	trimmed := strings.TrimRight(raw, " \t.?!,;:'\"")
	if trimmed == "" {
		return model.Fact{}, false
	}
	value := strings.TrimLeft(trimmed, " \t")
	gs += len(trimmed) - len(value)
	start := c.Start + gs
	return model.Fact{
		Slot:       slot,
		Value:      value,
		Normalized: textnorm.NormalizeValue(value),
		Start:      start,
		End:        start + len(value),
		Origin:     model.OriginPattern,
		Rule:       rule,
	}, true
}

// slugify turns a subject phrase into a slot name: articles and
// possessives stripped, lowercased, underscore-joined. ok is false for
// pronoun-only or empty subjects.
func slugify(subject string) (string, bool) {
	norm := textnorm.Normalize(subject)
	words := strings.Fields(norm)
	if len(words) == 0 || pronouns[words[0]] {
		return "", false
	}
	return strings.Join(words, "_"), true
}

func slotTaken(facts []model.Fact, slot string) bool {
	for _, f := range facts {
		if f.Slot == slot {
			return true
		}
	}
	return false
}

func firstWord(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
