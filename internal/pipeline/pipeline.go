package pipeline

import "strings"

// Settings are the per-converter values the pipeline consumes.
type Settings struct {
	BaseURL string // relative links resolve against this, no trailing slash
	Width   int    // wrap column, 0 disables wrapping
	Allowed TagSet // tags kept by the strip step
}

// Pipeline runs RuleTable, TagTransformer, tag stripping and normalization in order.
// A Pipeline holds no per-call state; it is safe for concurrent use as long
// as its RuleTable is not mutated.
type Pipeline struct {
	Rules       *RuleTable
	Transformer *TagTransformer
}

// New returns a pipeline with the default rules and transforms.
func New() *Pipeline {
	return &Pipeline{
		Rules:       NewRuleTable(),
		Transformer: NewTagTransformer(),
	}
}

// Process converts an HTML fragment to plain text.
func (p *Pipeline) Process(text, locale string, s Settings) string {
	text = strings.Trim(text, trimCutset)
	text = p.Rules.Apply(text)

	st := NewState(locale, s.BaseURL)
	text = p.Transformer.Apply(text, st)

	n := Normalizer{Allowed: s.Allowed, Width: s.Width}
	return n.Normalize(text, st.Links, locale)
}
