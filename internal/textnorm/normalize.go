// Package textnorm provides the normalizer and clause splitter that feed
// the extraction tiers. Normalization is total: every input produces a
// token stream, and every token keeps its byte span in the source so the
// corrector can rewrite the original text in place.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ashita-ai/groundcheck/internal/model"
)

// articles and possessives are stripped when they open a noun phrase.
var articles = map[string]bool{"a": true, "an": true, "the": true}

var possessives = map[string]bool{
	"my": true, "your": true, "our": true, "their": true,
	"his": true, "her": true, "its": true,
}

// isTokenRune reports whether r can continue a token. Periods, dashes and
// similar connectors are accepted mid-token (v3.11, 99.9%, c++, k8s);
// sentence punctuation is trimmed afterwards.
func isTokenRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '.', '-', '/', '+', '#', '_', '%', '\'':
		return true
	}
	return false
}

// Tokenize splits text into tokens carrying byte offsets. A trailing
// period is sentence punctuation and is trimmed; an internal period
// (decimals, versions) is kept.
func Tokenize(text string) []model.Token {
	var toks []model.Token
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			i += size
			continue
		}
		start := i
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !isTokenRune(r) {
				break
			}
			i += size
		}
		end := i
		// Trim trailing punctuation that is not part of the token itself.
		for end > start {
			last := text[end-1]
			if last == '.' || last == '\'' || last == '-' || last == '/' {
				end--
				continue
			}
			break
		}
		if end <= start {
			continue
		}
		raw := text[start:end]
		toks = append(toks, model.Token{
			Text:  raw,
			Norm:  normToken(raw),
			Start: start,
			End:   end,
		})
	}
	return toks
}

// normToken lowercases a token and strips a possessive 's suffix.
func normToken(raw string) string {
	n := strings.ToLower(raw)
	n = strings.TrimSuffix(n, "'s")
	n = strings.TrimSuffix(n, "'")
	return n
}

// Normalize lowercases, strips leading articles and possessive pronouns,
// collapses whitespace, and preserves decimal numerics. It is total and
// deterministic; Fact.Normalized is always Normalize of Fact.Value.
func Normalize(text string) string {
	toks := Tokenize(text)
	start := 0
	for start < len(toks) && (articles[toks[start].Norm] || possessives[toks[start].Norm]) {
		start++
	}
	if start >= len(toks) {
		// All-article input: fall back to plain lowercasing rather than "".
		return strings.ToLower(strings.TrimSpace(text))
	}
	parts := make([]string, 0, len(toks)-start)
	for _, t := range toks[start:] {
		parts = append(parts, t.Norm)
	}
	return strings.Join(parts, " ")
}

// NormalizeValue is the comparison form used for fact values. It is
// Normalize; named separately so call sites read as what they mean.
func NormalizeValue(value string) string { return Normalize(value) }

// StripLeadingArticle returns the byte offset past any leading article or
// possessive pronoun in s, so the extractor can exclude it from a value
// span. Whitespace after the article is consumed too.
func StripLeadingArticle(s string) int {
	trimmed := strings.TrimLeft(s, " \t")
	lead := len(s) - len(trimmed)
	sp := strings.IndexAny(trimmed, " \t")
	if sp < 0 {
		return lead
	}
	first := strings.ToLower(trimmed[:sp])
	if !articles[first] && !possessives[first] {
		return lead
	}
	rest := strings.TrimLeft(trimmed[sp:], " \t")
	return len(s) - len(rest)
}
