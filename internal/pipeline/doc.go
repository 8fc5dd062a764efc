// Package pipeline implements the HTML-to-text conversion stages.
//
// Text flows through four stages, in order:
//   - RuleTable: ordered regex substitutions (layout tags, entities, whitespace)
//   - TagTransformer: computed replacements (headings, bold, strong, anchors, table headers)
//   - tag stripping, honoring an allow-list
//   - normalization: blank-line collapsing, link footnotes, trimming, word wrap
//
// Per-call state (link footnotes, case mappers) lives in a State value that is
// created for each conversion and passed explicitly through the stages, so a
// Pipeline can be shared between goroutines.
//
// The package also hosts the Markdown input stage used by the CLI, which
// renders Markdown to HTML via Goldmark before conversion.
package pipeline
