package groundcheck

// Mode selects what happens to hallucinated values during verification.
type Mode string

const (
	// ModeStrict rewrites hallucinated values with grounded ones.
	ModeStrict Mode = "strict"
	// ModePermissive reports hallucinations without rewriting the draft.
	ModePermissive Mode = "permissive"
)

// Memory is a trust-scored statement the draft is checked against.
// The checker never mutates memories; list order only breaks ties.
type Memory struct {
	// ID is a stable unique token. Empty ids are assigned positionally.
	ID string `json:"id,omitempty"`
	// Text is the natural-language content.
	Text string `json:"text"`
	// Trust is in [0.0, 1.0]. NewMemory defaults it to 1.0.
	Trust float64 `json:"trust"`
	// Timestamp is a monotonic ordinal; nil means unknown.
	Timestamp *int64 `json:"timestamp,omitempty"`
}

// NewMemory builds a fully-trusted memory with no timestamp.
func NewMemory(text string) Memory {
	return Memory{Text: text, Trust: 1.0}
}

// Origin identifies the extraction tier that produced a fact.
type Origin string

const (
	OriginPattern   Origin = "pattern"
	OriginKnowledge Origin = "knowledge"
	OriginNeural    Origin = "neural"
)

// ExtractedFact is one atomic claim pulled from text.
type ExtractedFact struct {
	Slot       string `json:"slot"`
	Value      string `json:"value"`
	Normalized string `json:"normalized"`
	// Start/End are byte offsets of Value in the source text.
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Origin Origin `json:"origin"`
	// Rule is the pattern family or verb category that matched.
	Rule string `json:"rule"`
}

// VerbCategory classifies a knowledge-extractor verb phrase.
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
	Entity      string       `json:"entity"`
	Category    string       `json:"category"`
	Verb        VerbCategory `json:"verb_category"`
	ClauseIndex int          `json:"clause_index"`
	// Confidence is 0.5 for tentative inferences, 1.0 for confirmed.
	Confidence float64 `json:"confidence"`
	// MigrationFrom/To are set only on fused migration facts.
	MigrationFrom string `json:"migration_from,omitempty"`
	MigrationTo   string `json:"migration_to,omitempty"`
}

// Claim names a (slot, value) pair for FindSupport.
type Claim struct {
	Slot  string `json:"slot"`
	Value string `json:"value"`
}

// Support records which memory grounds a claim and how.
type Support struct {
	MemoryID string  `json:"memory_id"`
	Strategy string  `json:"strategy"`
	Score    float64 `json:"score"`
}

// ContradictionDetail is one resolved conflict between memories.
type ContradictionDetail struct {
	Slot             string   `json:"slot"`
	Values           []string `json:"values"`
	MostTrustedValue string   `json:"most_trusted_value"`
	MostRecentValue  string   `json:"most_recent_value"`
	Action           string   `json:"action"`
	TrustGap         float64  `json:"trust_gap"`
}

// VerificationReport is the output contract of Verify.
type VerificationReport struct {
	Passed         bool     `json:"passed"`
	Corrected      *string  `json:"corrected,omitempty"`
	Hallucinations []string `json:"hallucinations,omitempty"`
	// GroundingMap maps each extracted slot to the supporting memory id,
	// or nil when the claim is hallucinated.
	GroundingMap         map[string]*string       `json:"grounding_map"`
	Confidence           float64                  `json:"confidence"`
	ContradictionDetails []ContradictionDetail    `json:"contradiction_details,omitempty"`
	RequiresDisclosure   bool                     `json:"requires_disclosure"`
	FactsExtracted       map[string]ExtractedFact `json:"facts_extracted"`
}
