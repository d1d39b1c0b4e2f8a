package textnorm

import (
	"strings"

	"github.com/ashita-ai/groundcheck/internal/model"
)

// verbCues mark a token that can open the predicate of a full clause.
// A coordinating conjunction only splits when one of these appears within
// the next few tokens, so "salt and pepper" stays whole while
// "works at Amazon and lives in Seattle" splits.
var verbCues = map[string]bool{
	"is": true, "am": true, "are": true, "was": true, "were": true,
	"has": true, "have": true, "had": true,
	"use": true, "uses": true, "used": true, "using": true,
	"live": true, "lives": true, "lived": true,
	"work": true, "works": true, "worked": true,
	"requires": true, "require": true, "needs": true, "need": true,
	"supports": true, "handles": true, "runs": true, "serves": true,
	"chose": true, "picked": true, "selected": true, "decided": true,
	"agreed": true, "moved": true, "migrated": true, "switched": true,
	"went": true, "prefers": true, "prefer": true, "likes": true,
	"lacks": true, "owns": true, "manages": true, "equals": true,
	"should": true, "must": true, "studied": true, "graduated": true,
}

var conjunctions = map[string]bool{"and": true, "or": true, "but": true}

// conjunctionLookahead is how many tokens past a conjunction are searched
// for a verb cue before deciding it joins two full clauses.
const conjunctionLookahead = 4

// SplitClauses breaks text into sub-clauses. Sentences are split first
// (periods, !, ? — decimals preserved); within a sentence, clauses break
// at commas outside quotes and balanced parentheses, at semicolons, and
// at coordinating conjunctions that join full clauses. Each clause keeps
// its global 0-based ordinal and byte span.
func SplitClauses(text string) []model.Clause {
	var clauses []model.Clause
	for _, sent := range splitSentences(text) {
		for _, span := range splitWithinSentence(text, sent) {
			raw := strings.TrimSpace(text[span[0]:span[1]])
			if raw == "" {
				continue
			}
			start := span[0] + strings.Index(text[span[0]:span[1]], raw)
			c := model.Clause{
				Index:  len(clauses),
				Text:   raw,
				Start:  start,
				End:    start + len(raw),
				Tokens: offsetTokens(raw, start),
			}
			if len(c.Tokens) == 0 {
				continue
			}
			clauses = append(clauses, c)
		}
	}
	return clauses
}

// offsetTokens tokenizes a clause and shifts spans to text coordinates.
func offsetTokens(clause string, base int) []model.Token {
	toks := Tokenize(clause)
	for i := range toks {
		toks[i].Start += base
		toks[i].End += base
	}
	return toks
}

// splitSentences returns byte spans of sentences. A period splits only
// when followed by whitespace or end-of-string, so decimals and version
// strings survive.
func splitSentences(text string) [][2]int {
	var spans [][2]int
	start := 0
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch != '.' && ch != '!' && ch != '?' {
			continue
		}
		if ch == '.' {
			j := i + 1
			for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '\n') {
				j++
			}
			if j == i+1 && j < len(text) {
				continue // internal period: 99.9, v3.11
			}
			// Abbreviations like "e.g. the" keep their sentence: only a
			// capital, digit, or opening quote/paren starts a new one.
			if j < len(text) {
				next := text[j]
				isUpper := next >= 'A' && next <= 'Z'
				isDigit := next >= '0' && next <= '9'
				if !isUpper && !isDigit && next != '(' && next != '"' && next != '\'' {
					continue
				}
			}
		}
		spans = append(spans, [2]int{start, i + 1})
		start = i + 1
	}
	if start < len(text) {
		spans = append(spans, [2]int{start, len(text)})
	}
	return spans
}

// splitWithinSentence splits one sentence span at commas, semicolons and
// clause-joining conjunctions. Commas inside quoted spans or parentheses
// never split.
func splitWithinSentence(text string, sent [2]int) [][2]int {
	toks := Tokenize(text[sent[0]:sent[1]])
	for i := range toks {
		toks[i].Start += sent[0]
		toks[i].End += sent[0]
	}

	var spans [][2]int
	start := sent[0]
	depth := 0
	inQuote := byte(0)
	tok := 0 // index of the first token at or past the scan position

	for i := sent[0]; i < sent[1]; i++ {
		ch := text[i]
		switch ch {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '"':
			if inQuote == '"' {
				inQuote = 0
			} else if inQuote == 0 {
				inQuote = '"'
			}
		}
		if depth > 0 || inQuote != 0 {
			continue
		}
		if ch == ',' || ch == ';' {
			spans = append(spans, [2]int{start, i})
			start = i + 1
			continue
		}
		// Conjunction check at token boundaries.
		for tok < len(toks) && toks[tok].End <= i {
			tok++
		}
		if tok < len(toks) && toks[tok].Start == i && conjunctions[toks[tok].Norm] && i > start {
			if clauseFollows(toks, tok) {
				spans = append(spans, [2]int{start, i})
				start = toks[tok].End // the conjunction itself is dropped
			}
		}
	}
	if start < sent[1] {
		spans = append(spans, [2]int{start, sent[1]})
	}
	return spans
}

// clauseFollows reports whether the tokens after a conjunction look like a
// full clause: a verb cue within the lookahead window.
func clauseFollows(toks []model.Token, conj int) bool {
	limit := conj + 1 + conjunctionLookahead
	if limit > len(toks) {
		limit = len(toks)
	}
	for i := conj + 1; i < limit; i++ {
		if verbCues[toks[i].Norm] {
			return true
		}
	}
	return false
}
