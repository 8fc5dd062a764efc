// Package html2text converts HTML fragments and documents to readable plain text.
//
// # Quick Start
//
// For one-off conversions use the package-level helper:
//
//	text := html2text.ConvertHTMLToPlainText("<h1>Hello</h1><p>World</p>", "en")
//
// Create a Converter when you need a base URL, wrapping width, an allow-list
// of tags or custom rules:
//
//	conv, err := html2text.NewConverter(
//	    html2text.WithBaseURL("https://example.com"),
//	    html2text.WithWidth(72),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text := conv.Convert(htmlContent, "en")
//
// # Conversion Pipeline
//
// Every conversion runs the same stages in order:
//
//  1. Rule table: ordered regular-expression substitutions (whitespace,
//     layout tags, entities)
//  2. Tag transforms: headings, bold, strong, table headers and links
//  3. Tag stripping of everything not allow-listed
//  4. Normalization: blank-line collapsing, link footnotes, trimming and
//     word wrapping
//
// Links are numbered in document order and listed after the text under a
// localized header:
//
//	See our page [1].
//
//	Links:
//	-------
//	[1] https://example.com/page
//
// # Locales
//
// The locale code selects the footnote header (cs, sk, en, de, sp, hu, cn, jp;
// anything else falls back to "Links") and the language used to uppercase
// headings and bold text.
//
// # Custom Rules
//
// Rules use RE2 syntax and Go replacement templates. Registering a pattern that
// already exists replaces its replacement and keeps its position:
//
//	conv.MustAddRule(`(?i)<blockquote[^>]*>`, "\n> ")
//
// # Concurrency
//
// A Converter is safe for concurrent use. Each call to Convert works on its
// own link registry, so footnote numbering never leaks between calls.
package html2text
