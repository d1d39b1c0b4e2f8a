package groundcheck

import "log/slog"

// Option configures a Checker.
type Option func(*resolvedOptions)

// resolvedOptions holds all extension points after applying defaults.
// Unexported — callers use the With* functions.
type resolvedOptions struct {
	logger              *slog.Logger
	neural              bool
	matcher             SemanticMatcher
	ontologyDir         string
	disclosureThreshold float64
	fuzzyTolerance      func(valueLen int) int
}

// WithLogger sets the structured logger for the Checker.
// If not set, the default slog logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *resolvedOptions) { o.logger = logger }
}

// WithNeural declares whether Tier-2 semantic matching is expected.
// Turning it on is a promise that a matcher is injected via
// WithSemanticMatcher; New fails with ErrSemanticUnavailable otherwise.
func WithNeural(enabled bool) Option {
	return func(o *resolvedOptions) { o.neural = enabled }
}

// WithSemanticMatcher injects the Tier-2 backend and implies neural mode.
func WithSemanticMatcher(m SemanticMatcher) Option {
	return func(o *resolvedOptions) {
		o.matcher = m
		if m != nil {
			o.neural = true
		}
	}
}

// WithOntologyDir loads verb_ontology.json and entity_taxonomy.json from
// dir instead of the embedded defaults. New fails with ErrOntologyMissing
// when the files are absent or unparseable.
func WithOntologyDir(dir string) Option {
	return func(o *resolvedOptions) { o.ontologyDir = dir }
}

// WithDisclosureThreshold overrides the trust gap at which conflicting
// sources require disclosure. The default is 0.30.
func WithDisclosureThreshold(threshold float64) Option {
	return func(o *resolvedOptions) { o.disclosureThreshold = threshold }
}

// WithFuzzyTolerance overrides the edit-distance budget of the fuzzy
// grounding strategy. The default is max(2, len/6).
func WithFuzzyTolerance(fn func(valueLen int) int) Option {
	return func(o *resolvedOptions) { o.fuzzyTolerance = fn }
}
