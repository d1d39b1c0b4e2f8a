// Package knowledge implements the Tier-1.5 extractor: ontology-driven
// inference over clauses that the pattern families miss. Each clause goes
// through an entity pass, a verb pass, verb-entity routing, verb-context
// inheritance, negative-context detection, the tentative override, and
// migration fusion, in that order.
package knowledge

import (
	"strings"

	"github.com/ashita-ai/groundcheck/internal/model"
	"github.com/ashita-ai/groundcheck/internal/ontology"
)

// negativeTokens emit a deprecation fact for a nearby entity even when no
// verb is present ("the whole MySQL disaster").
var negativeTokens = map[string]bool{
	"disaster": true, "failed": true, "failure": true, "broke": true,
	"broken": true, "nightmare": true, "headache": true, "mess": true,
	"fiasco": true,
}

// tentativeTokens soften an adoption or migration verb that follows them.
var tentativeTokens = map[string]bool{
	"considering": true, "might": true, "may": true, "possibly": true,
	"maybe": true, "perhaps": true, "evaluating": true, "exploring": true,
}

// tentativePhrases are multi-word tentative cues checked against token
// pairs ("thinking about").
var tentativePhrases = map[string]bool{
	"thinking about": true, "leaning towards": true, "leaning toward": true,
}

// negativeWindow is how many tokens an entity may sit from a
// negative-sentiment token and still be read as deprecated.
const negativeWindow = 5

type entityHit struct {
	name     string // canonical
	category string
	pos      int // token index of the first token
	width    int
	start    int // byte span of the mention
	end      int
}

type verbHit struct {
	category model.VerbCategory
	pos      int
	width    int
}

// Extract runs the knowledge pipeline over all clauses. Facts are
// returned in clause order; entities resolve to canonical taxonomy names.
func Extract(clauses []model.Clause, tables *ontology.Tables) []model.KnowledgeFact {
	var facts []model.KnowledgeFact
	prevCategory := model.VerbCategory("")

	for _, c := range clauses {
		entities := scanEntities(c, tables)
		verbs := scanVerbs(c, tables)

		clauseFacts, attached := route(c, entities, verbs)

		// Verb-context inheritance: entities with no verb in a verbless
		// clause borrow the previous clause's category.
		if len(verbs) == 0 && prevCategory != "" {
			for i, e := range entities {
				if attached[i] {
					continue
				}
				attached[i] = true
				clauseFacts = append(clauseFacts, model.KnowledgeFact{
					Entity:      e.name,
					Category:    e.category,
					Verb:        prevCategory,
					ClauseIndex: c.Index,
					Confidence:  confidenceFor(prevCategory),
					Start:       e.start,
					End:         e.end,
				})
			}
		}

		// Negative context: unattached entities near a negative token are
		// deprecated without needing a verb.
		for i, e := range entities {
			if attached[i] {
				continue
			}
			if nearNegative(c, e) {
				clauseFacts = append(clauseFacts, model.KnowledgeFact{
					Entity:      e.name,
					Category:    e.category,
					Verb:        model.VerbDeprecation,
					ClauseIndex: c.Index,
					Confidence:  1.0,
					Start:       e.start,
					End:         e.end,
				})
			}
		}

		clauseFacts = applyTentative(c, verbs, clauseFacts)
		clauseFacts = fuseMigration(c, entities, clauseFacts, tables)

		facts = append(facts, dedupe(clauseFacts)...)

		if len(verbs) > 0 {
			prevCategory = verbs[len(verbs)-1].category
		}
	}
	return facts
}

// scanEntities slides windows of length 4 down to 1 over the clause
// tokens, longest match first, consuming matched tokens.
func scanEntities(c model.Clause, tables *ontology.Tables) []entityHit {
	var hits []entityHit
	maxW := tables.MaxEntityWords
	if maxW < 1 {
		maxW = 1
	}
	if maxW > 4 {
		maxW = 4
	}
	toks := c.Tokens
	for i := 0; i < len(toks); {
		matched := 0
		for w := maxW; w >= 1; w-- {
			if i+w > len(toks) {
				continue
			}
			phrase := joinNorms(toks[i : i+w])
			name, cat := tables.Canonical(phrase)
			if name == "" {
				continue
			}
			hits = append(hits, entityHit{
				name:     name,
				category: cat,
				pos:      i,
				width:    w,
				start:    toks[i].Start,
				end:      toks[i+w-1].End,
			})
			matched = w
			break
		}
		if matched > 0 {
			i += matched
		} else {
			i++
		}
	}
	return hits
}

// scanVerbs slides windows of up to 3 tokens over the clause against the
// verb ontology, longest match first.
func scanVerbs(c model.Clause, tables *ontology.Tables) []verbHit {
	var hits []verbHit
	maxW := tables.MaxVerbWords
	if maxW < 1 {
		maxW = 1
	}
	if maxW > 3 {
		maxW = 3
	}
	toks := c.Tokens
	for i := 0; i < len(toks); {
		matched := 0
		for w := maxW; w >= 1; w-- {
			if i+w > len(toks) {
				continue
			}
			cat, ok := tables.VerbCategoryOf(joinNorms(toks[i : i+w]))
			if !ok {
				continue
			}
			hits = append(hits, verbHit{category: cat, pos: i, width: w})
			matched = w
			break
		}
		if matched > 0 {
			i += matched
		} else {
			i++
		}
	}
	return hits
}

// route attaches each verb to the nearest entity on its right, falling
// back to the nearest on its left. attached marks consumed entities by
// index into entities.
func route(c model.Clause, entities []entityHit, verbs []verbHit) ([]model.KnowledgeFact, []bool) {
	attached := make([]bool, len(entities))
	var facts []model.KnowledgeFact
	for _, v := range verbs {
		best := -1
		for i, e := range entities {
			if e.pos >= v.pos+v.width {
				if best == -1 || e.pos < entities[best].pos {
					best = i
				}
			}
		}
		if best == -1 {
			for i, e := range entities {
				if e.pos < v.pos {
					if best == -1 || e.pos > entities[best].pos {
						best = i
					}
				}
			}
		}
		if best == -1 {
			continue
		}
		attached[best] = true
		e := entities[best]
		facts = append(facts, model.KnowledgeFact{
			Entity:      e.name,
			Category:    e.category,
			Verb:        v.category,
			ClauseIndex: c.Index,
			Confidence:  confidenceFor(v.category),
			Start:       e.start,
			End:         e.end,
		})
	}
	return facts, attached
}

// nearNegative reports whether a negative-sentiment token sits within
// negativeWindow tokens of the entity.
func nearNegative(c model.Clause, e entityHit) bool {
	lo := e.pos - negativeWindow
	hi := e.pos + e.width + negativeWindow
	for i, tok := range c.Tokens {
		if i < lo || i >= hi {
			continue
		}
		if negativeTokens[tok.Norm] {
			return true
		}
	}
	return false
}

// applyTentative softens a clause once a tentative cue precedes an
// adoption or migration verb in it: adoption facts become tentative, and
// migration facts keep their category with tentative confidence (0.5).
func applyTentative(c model.Clause, verbs []verbHit, facts []model.KnowledgeFact) []model.KnowledgeFact {
	cuePos := -1
	for i, tok := range c.Tokens {
		if tentativeTokens[tok.Norm] {
			cuePos = i
			break
		}
		if i+1 < len(c.Tokens) && tentativePhrases[tok.Norm+" "+c.Tokens[i+1].Norm] {
			cuePos = i
			break
		}
	}
	if cuePos == -1 {
		return facts
	}
	softened := false
	for _, v := range verbs {
		if v.pos > cuePos && (v.category == model.VerbAdoption || v.category == model.VerbMigration) {
			softened = true
			break
		}
	}
	if !softened {
		return facts
	}
	for i := range facts {
		if facts[i].Verb == model.VerbAdoption || facts[i].Verb == model.VerbMigration {
			// Migration endpoints survive the downgrade; only the
			// certainty changes.
			if facts[i].Verb == model.VerbMigration {
				facts[i].Confidence = 0.5
			} else {
				facts[i].Verb = model.VerbTentative
				facts[i].Confidence = 0.5
			}
		}
	}
	return facts
}

// fuseMigration collapses "from X to Y" clauses into one migration fact
// and drops the redundant adoption(Y)/deprecation(X) from the same clause.
func fuseMigration(c model.Clause, entities []entityHit, facts []model.KnowledgeFact, tables *ontology.Tables) []model.KnowledgeFact {
	from, to := migrationEndpoints(c, entities)
	if from == nil && (strings.Contains(c.Text, "->") || strings.Contains(c.Text, "→")) {
		from, to = arrowEndpoints(c, entities)
	}
	if from == nil || to == nil {
		return facts
	}

	tentative := false
	for _, f := range facts {
		if (f.Verb == model.VerbMigration || f.Verb == model.VerbTentative) && f.Confidence < 1.0 {
			tentative = true
		}
	}

	fused := model.KnowledgeFact{
		Entity:        to.name,
		Category:      to.category,
		Verb:          model.VerbMigration,
		ClauseIndex:   c.Index,
		Confidence:    1.0,
		MigrationFrom: from.name,
		MigrationTo:   to.name,
		Start:         to.start,
		End:           to.end,
	}
	if tentative {
		fused.Confidence = 0.5
	}

	kept := facts[:0]
	for _, f := range facts {
		switch {
		case f.Verb == model.VerbMigration && f.MigrationFrom == "":
			continue // superseded by the fused fact
		case (f.Verb == model.VerbAdoption || f.Verb == model.VerbTentative) &&
			(f.Entity == to.name || f.Entity == from.name):
			continue
		case f.Verb == model.VerbDeprecation && f.Entity == from.name:
			continue
		}
		kept = append(kept, f)
	}
	return append(kept, fused)
}

// migrationEndpoints finds "from <X> ... to <Y>" over the entity hits.
func migrationEndpoints(c model.Clause, entities []entityHit) (from, to *entityHit) {
	fromPos, toPos := -1, -1
	for i, tok := range c.Tokens {
		switch tok.Norm {
		case "from":
			if fromPos == -1 {
				fromPos = i
			}
		case "to":
			if fromPos != -1 && i > fromPos {
				toPos = i
			}
		}
	}
	if fromPos == -1 || toPos == -1 {
		return nil, nil
	}
	for i := range entities {
		e := &entities[i]
		if from == nil && e.pos > fromPos && e.pos < toPos {
			from = e
		}
		if to == nil && e.pos > toPos {
			to = e
		}
	}
	if from == nil || to == nil {
		return nil, nil
	}
	return from, to
}

// arrowEndpoints handles "X -> Y" with both sides being known entities.
func arrowEndpoints(c model.Clause, entities []entityHit) (from, to *entityHit) {
	arrow := strings.Index(c.Text, "->")
	if arrow == -1 {
		arrow = strings.Index(c.Text, "→")
	}
	if arrow == -1 {
		return nil, nil
	}
	cut := c.Start + arrow
	for i := range entities {
		e := &entities[i]
		if e.end <= cut {
			from = e // last entity before the arrow
		}
		if to == nil && e.start > cut {
			to = e
		}
	}
	if from == nil || to == nil {
		return nil, nil
	}
	return from, to
}

func confidenceFor(cat model.VerbCategory) float64 {
	if cat == model.VerbTentative {
		return 0.5
	}
	return 1.0
}

// dedupe drops repeated (entity, verb) facts within a clause.
func dedupe(facts []model.KnowledgeFact) []model.KnowledgeFact {
	seen := make(map[string]bool, len(facts))
	out := facts[:0]
	for _, f := range facts {
		key := f.Entity + "|" + string(f.Verb)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}

func joinNorms(toks []model.Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Norm
	}
	return strings.Join(parts, " ")
}
