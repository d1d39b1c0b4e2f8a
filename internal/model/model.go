// Package model defines the working types shared by the verification
// pipeline packages. The root groundcheck package exposes curated public
// views of these types; internal packages only ever see model.
package model

// Memory is one trust-scored grounding statement supplied by the caller.
// JSON tags match the wire shape the MCP server and memory files use.
type Memory struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Trust float64 `json:"trust"`
	// Timestamp is a monotonic ordinal. Nil means unknown.
	Timestamp *int64 `json:"timestamp,omitempty"`
}

// Token is a normalized token with its byte span in the source text.
type Token struct {
	Text  string // raw text as it appeared
	Norm  string // lowercased comparison form
	Start int    // byte offset into the source
	End   int
}

// Clause is one sub-clause of the source text. Index is the 0-based
// ordinal across the whole text, used by position-aware knowledge rules.
type Clause struct {
	Index  int
	Text   string
	Start  int
	End    int
	Tokens []Token
}

// Origin identifies which extraction tier produced a fact.
type Origin string

const (
	OriginPattern   Origin = "pattern"
	OriginKnowledge Origin = "knowledge"
	OriginNeural    Origin = "neural"
)

// Fact is one atomic claim extracted from text.
// Normalized is a deterministic function of Value (textnorm.NormalizeValue).
type Fact struct {
	Slot       string
	Value      string
	Normalized string
	Start      int // byte span of Value in the source text, used for rewrites
	End        int
	Origin     Origin
	Rule       string // pattern family name or verb category
}

// VerbCategory classifies a Tier-1.5 verb phrase.
type VerbCategory string

const (
	VerbAdoption    VerbCategory = "adoption"
	VerbMigration   VerbCategory = "migration"
	VerbDeprecation VerbCategory = "deprecation"
	VerbTentative   VerbCategory = "tentative"
	VerbCapability  VerbCategory = "capability"
	VerbLimitation  VerbCategory = "limitation"
	VerbAssignment  VerbCategory = "assignment"
	VerbRequirement VerbCategory = "requirement"
	VerbPreference  VerbCategory = "preference"
	VerbCreation    VerbCategory = "creation"
)

// KnowledgeFact is a Tier-1.5 inference over the verb ontology and
// entity taxonomy.
type KnowledgeFact struct {
	Entity      string // canonical entity name from the taxonomy
	Category    string // taxonomy category (database, language, ...)
	Verb        VerbCategory
	ClauseIndex int
	// Confidence is 0.5 for tentative facts, 1.0 for confirmed ones.
	Confidence float64
	// MigrationFrom/To are set only on fused migration facts.
	MigrationFrom string
	MigrationTo   string
	Start         int // byte span of the entity mention
	End           int
}

// Tentative reports whether the fact carries tentative confidence.
func (f KnowledgeFact) Tentative() bool { return f.Confidence < 1.0 }

// Contradiction is one resolved conflict between memories on a slot.
type Contradiction struct {
	Slot string `json:"slot"`
	// Values are the distinct normalized values in first-seen order.
	Values           []string `json:"values"`
	MostTrustedValue string   `json:"most_trusted_value"`
	MostRecentValue  string   `json:"most_recent_value"`
	Action           string   `json:"action"`
	TrustGap         float64  `json:"trust_gap"`
	// DraftSlot marks contradictions on slots the draft actually claims;
	// only those fail a verification.
	DraftSlot bool `json:"draft_slot"`
}

// Support records how a draft claim was grounded to a memory.
type Support struct {
	MemoryID string
	Strategy string // exact | normalization | fuzzy | synonym | embedding
	Score    float64
}

// MemoryFacts pairs a memory with the claims extracted from its text.
type MemoryFacts struct {
	Memory Memory
	Facts  map[string]Fact
}

// Report is the full verification result.
type Report struct {
	Passed             bool
	Corrected          *string
	Hallucinations     []string
	GroundingMap       map[string]*string // slot -> memory id, nil when ungrounded
	Confidence         float64
	Contradictions     []Contradiction
	RequiresDisclosure bool
	Facts              map[string]Fact
}

// Entailment is the verdict of a semantic entailment check.
type Entailment string

const (
	EntailmentEntail     Entailment = "entail"
	EntailmentNeutral    Entailment = "neutral"
	EntailmentContradict Entailment = "contradict"
)

// Matcher is the semantic capability consumed by the pipeline. It is a
// narrowed view of the public SemanticMatcher; implementations may be
// expensive but must be deterministic. A nil Matcher disables Tier-2.
type Matcher interface {
	Similarity(a, b string) (float64, error)
	Entails(premise, hypothesis string) (Entailment, float64, error)
}
