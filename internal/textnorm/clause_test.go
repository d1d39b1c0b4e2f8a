package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clauseTexts(text string) []string {
	var out []string
	for _, c := range SplitClauses(text) {
		out = append(out, c.Text)
	}
	return out
}

func TestSplitClauses_Comma(t *testing.T) {
	assert.Equal(t,
		[]string{"frontend is React", "backend is FastAPI"},
		clauseTexts("frontend is React, backend is FastAPI"))
}

func TestSplitClauses_ConjunctionJoinsClauses(t *testing.T) {
	assert.Equal(t,
		[]string{"You work at Amazon", "live in Seattle"},
		clauseTexts("You work at Amazon and live in Seattle"))
}

func TestSplitClauses_ConjunctionInsideNounPhrase(t *testing.T) {
	// "salt and pepper" is not two clauses.
	assert.Equal(t,
		[]string{"My favorite seasoning is salt and pepper"},
		clauseTexts("My favorite seasoning is salt and pepper"))
}

func TestSplitClauses_Semicolon(t *testing.T) {
	assert.Equal(t,
		[]string{"the cache is Redis", "the queue is Kafka"},
		clauseTexts("the cache is Redis; the queue is Kafka"))
}

func TestSplitClauses_CommaInsideParens(t *testing.T) {
	got := clauseTexts("The stack (Go, Postgres) is settled")
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "(Go, Postgres)")
}

func TestSplitClauses_CommaInsideQuotes(t *testing.T) {
	got := clauseTexts(`The motto is "fast, correct, simple"`)
	assert.Len(t, got, 1)
}

func TestSplitClauses_SentenceBoundary(t *testing.T) {
	got := clauseTexts("You work at Amazon. You live in Seattle.")
	assert.Equal(t, []string{"You work at Amazon.", "You live in Seattle."}, got)
}

func TestSplitClauses_DecimalDoesNotEndSentence(t *testing.T) {
	got := clauseTexts("Uptime went from 99.5 to 99.9 this quarter")
	assert.Len(t, got, 1)
}

func TestSplitClauses_GlobalOrdinals(t *testing.T) {
	cs := SplitClauses("frontend is React, backend is FastAPI. The cache is Redis.")
	require.Len(t, cs, 3)
	for i, c := range cs {
		assert.Equal(t, i, c.Index)
	}
}

func TestSplitClauses_SpansPointIntoSource(t *testing.T) {
	text := "frontend is React, backend is FastAPI"
	for _, c := range SplitClauses(text) {
		assert.Equal(t, c.Text, text[c.Start:c.End])
		for _, tok := range c.Tokens {
			assert.Equal(t, tok.Text, text[tok.Start:tok.End])
		}
	}
}
