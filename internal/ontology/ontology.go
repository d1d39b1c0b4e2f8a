// Package ontology loads the verb ontology and entity taxonomy that
// drive Tier-1.5 knowledge extraction. Tables are loaded once into
// immutable in-memory structures; concurrent callers share them freely.
package ontology

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/ashita-ai/groundcheck/internal/model"
)

//go:embed data/*.json
var defaultFS embed.FS

// File names looked up in the source filesystem.
const (
	verbFile   = "verb_ontology.json"
	entityFile = "entity_taxonomy.json"
)

// ErrMissing is returned when an ontology file is absent or unparseable.
// The checker refuses to start without its tables.
var ErrMissing = errors.New("ontology: file missing or unparseable")

// Tables holds the loaded ontology. All maps are keyed by lowercase,
// space-separated phrases.
type Tables struct {
	// Verbs maps a verb phrase to its category. Phrases may be
	// multi-word; the extractor scans longest-match-first.
	Verbs        map[string]model.VerbCategory
	MaxVerbWords int

	// Entities maps a canonical entity name to its taxonomy category.
	// Duplicate names across categories resolve first-seen.
	Entities map[string]string
	// Aliases maps an alias to its canonical entity name.
	Aliases        map[string]string
	MaxEntityWords int
}

// validCategories are the ten verb categories the pipeline understands.
var validCategories = map[string]model.VerbCategory{
	"adoption":    model.VerbAdoption,
	"migration":   model.VerbMigration,
	"deprecation": model.VerbDeprecation,
	"tentative":   model.VerbTentative,
	"capability":  model.VerbCapability,
	"limitation":  model.VerbLimitation,
	"assignment":  model.VerbAssignment,
	"requirement": model.VerbRequirement,
	"preference":  model.VerbPreference,
	"creation":    model.VerbCreation,
}

// Default loads the embedded ontology tables. The embedded files are
// known-good, so any failure here is a build defect and panics.
func Default(logger *slog.Logger) *Tables {
	sub, err := fs.Sub(defaultFS, "data")
	if err != nil {
		panic(fmt.Sprintf("ontology: embedded data: %v", err))
	}
	t, err := Load(sub, logger)
	if err != nil {
		panic(fmt.Sprintf("ontology: embedded tables: %v", err))
	}
	return t
}

// Load reads verb_ontology.json and entity_taxonomy.json from fsys.
// Malformed entries are skipped with a warning; a missing or unparseable
// file wraps ErrMissing.
func Load(fsys fs.FS, logger *slog.Logger) (*Tables, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tables{
		Verbs:    make(map[string]model.VerbCategory),
		Entities: make(map[string]string),
		Aliases:  make(map[string]string),
	}
	if err := t.loadVerbs(fsys, logger); err != nil {
		return nil, err
	}
	if err := t.loadEntities(fsys, logger); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tables) loadVerbs(fsys fs.FS, logger *slog.Logger) error {
	raw, err := fs.ReadFile(fsys, verbFile)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissing, verbFile, err)
	}
	var doc map[string][]string
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissing, verbFile, err)
	}
	// Visit categories in sorted order so duplicate-phrase resolution is
	// deterministic across runs.
	for _, name := range sortedKeys(doc) {
		phrases := doc[name]
		cat, ok := validCategories[name]
		if !ok {
			logger.Warn("ontology: skipping unknown verb category", "category", name)
			continue
		}
		for _, p := range phrases {
			phrase := normPhrase(p)
			if phrase == "" {
				logger.Warn("ontology: skipping empty verb phrase", "category", name)
				continue
			}
			if prev, dup := t.Verbs[phrase]; dup && prev != cat {
				logger.Warn("ontology: duplicate verb phrase", "phrase", phrase, "kept", string(prev))
				continue
			}
			t.Verbs[phrase] = cat
			if n := wordCount(phrase); n > t.MaxVerbWords {
				t.MaxVerbWords = n
			}
		}
	}
	return nil
}

func (t *Tables) loadEntities(fsys fs.FS, logger *slog.Logger) error {
	raw, err := fs.ReadFile(fsys, entityFile)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissing, entityFile, err)
	}
	var doc struct {
		Categories map[string][]string `json:"categories"`
		Aliases    map[string]string   `json:"aliases"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissing, entityFile, err)
	}
	// Sorted order keeps first-seen duplicate resolution deterministic.
	for _, cat := range sortedKeys(doc.Categories) {
		for _, n := range doc.Categories[cat] {
			name := normPhrase(n)
			if name == "" {
				logger.Warn("ontology: skipping empty entity", "category", cat)
				continue
			}
			if _, dup := t.Entities[name]; dup {
				// First-seen wins across categories.
				continue
			}
			t.Entities[name] = cat
			if w := wordCount(name); w > t.MaxEntityWords {
				t.MaxEntityWords = w
			}
		}
	}
	for _, alias := range sortedKeys(doc.Aliases) {
		a, c := normPhrase(alias), normPhrase(doc.Aliases[alias])
		if a == "" || c == "" {
			logger.Warn("ontology: skipping malformed alias", "alias", alias)
			continue
		}
		if _, ok := t.Entities[c]; !ok {
			logger.Warn("ontology: alias targets unknown entity", "alias", a, "canonical", c)
			continue
		}
		t.Aliases[a] = c
		if w := wordCount(a); w > t.MaxEntityWords {
			t.MaxEntityWords = w
		}
	}
	return nil
}

// Canonical resolves a phrase to a canonical entity name, following the
// alias table. The empty string means the phrase is not a known entity.
func (t *Tables) Canonical(phrase string) (name, category string) {
	p := normPhrase(phrase)
	if c, ok := t.Aliases[p]; ok {
		p = c
	}
	if cat, ok := t.Entities[p]; ok {
		return p, cat
	}
	return "", ""
}

// VerbCategoryOf looks up a verb phrase. ok is false when unknown.
func (t *Tables) VerbCategoryOf(phrase string) (model.VerbCategory, bool) {
	cat, ok := t.Verbs[normPhrase(phrase)]
	return cat, ok
}

func normPhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
