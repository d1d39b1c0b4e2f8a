package ground

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ashita-ai/groundcheck/internal/model"
)

// Correction is the outcome of a strict-mode rewrite pass.
type Correction struct {
	Text string
	// Disclosed is set when a replacement value was picked out of
	// competing memory values, so the caller must disclose the conflict.
	Disclosed bool
	// Replaced counts applied substitutions; zero means no rewrite.
	Replaced int
}

// Rewrite substitutes hallucinated values in the draft with grounded ones
// from the memories. For each hallucinated claim it looks up the memory
// values on that slot: a single agreed value substitutes directly; when
// the memories themselves compete, the most trusted value wins and the
// conflict is marked for disclosure. Substitutions are applied by span
// from right to left so earlier offsets stay valid. Returns nil when no
// claim has a grounded replacement.
func Rewrite(draft string, hallucinated []model.Fact, memories []model.MemoryFacts) *Correction {
	type sub struct {
		start, end int
		value      string
	}
	var subs []sub
	disclosed := false

	for _, claim := range hallucinated {
		replacement, competing := replacementFor(claim, memories)
		if replacement == "" {
			continue
		}
		if competing {
			disclosed = true
		}
		subs = append(subs, sub{start: claim.Start, end: claim.End, value: replacement})
	}
	if len(subs) == 0 {
		return nil
	}

	sort.Slice(subs, func(i, j int) bool { return subs[i].start > subs[j].start })
	out := draft
	for _, s := range subs {
		if s.start < 0 || s.end > len(out) || s.start >= s.end {
			continue
		}
		out = out[:s.start] + matchCase(out[s.start:s.end], s.value) + out[s.end:]
	}
	return &Correction{Text: out, Disclosed: disclosed, Replaced: len(subs)}
}

// replacementFor picks the grounded value for a hallucinated slot.
// competing is true when the memories disagree among themselves.
func replacementFor(claim model.Fact, memories []model.MemoryFacts) (string, bool) {
	type option struct {
		fact  model.Fact
		mem   model.Memory
		order int
	}
	var options []option
	distinct := map[string]bool{}
	for order, mf := range memories {
		f, ok := mf.Facts[claim.Slot]
		if !ok {
			continue
		}
		options = append(options, option{fact: f, mem: mf.Memory, order: order})
		distinct[f.Normalized] = true
	}
	if len(options) == 0 {
		return "", false
	}
	sort.SliceStable(options, func(i, j int) bool {
		a, b := options[i], options[j]
		if a.mem.Trust != b.mem.Trust {
			return a.mem.Trust > b.mem.Trust
		}
		at, bt := tsOrd(a.mem), tsOrd(b.mem)
		if at != bt {
			return at > bt
		}
		return a.order < b.order
	})
	return options[0].fact.Value, len(distinct) > 1
}

func tsOrd(m model.Memory) int64 {
	if m.Timestamp == nil {
		return -1 << 62
	}
	return *m.Timestamp
}

// matchCase shapes the replacement's first character after the original
// span's: an uppercase original keeps the replacement capitalized, a
// lowercase one lowers it.
func matchCase(original, replacement string) string {
	or, _ := utf8.DecodeRuneInString(original)
	rr, size := utf8.DecodeRuneInString(replacement)
	if or == utf8.RuneError || rr == utf8.RuneError {
		return replacement
	}
	switch {
	case unicode.IsUpper(or) && unicode.IsLower(rr):
		return strings.ToUpper(string(rr)) + replacement[size:]
	case unicode.IsLower(or) && unicode.IsUpper(rr):
		return strings.ToLower(string(rr)) + replacement[size:]
	}
	return replacement
}
