package pipeline

import (
	"regexp"
	"strings"
)

// trimCutset is the whitespace removed from both ends of the text.
const trimCutset = " \t\n\r\x00\x0b"

// footnoteRule underlines the footnote block header.
const footnoteRule = "-------"

var (
	whitespaceOnlyLine = regexp.MustCompile(`\n\s+\n`)
	excessNewlines     = regexp.MustCompile(`\n{3,}`)
	lineLeadingSpace   = regexp.MustCompile(`\n[\t ]+`)
	lineTrailingSpace  = regexp.MustCompile(`(?m)(\S)[\t ]+$`)
)

// Normalizer turns transformed text into its final plain-text layout.
type Normalizer struct {
	Allowed TagSet
	Width   int
}

// Normalize strips leftover markup, collapses blank lines, appends the link
// footnotes under the locale's label, trims every line and word-wraps.
func (n Normalizer) Normalize(text string, links *LinkRegistry, locale string) string {
	text = StripTags(text, n.Allowed)
	text = CollapseBlankLines(text)

	if links != nil && links.Len() > 0 {
		text = strings.TrimRight(text, trimCutset) + "\n\n" + LinksLabel(locale) + ":\n" + footnoteRule + "\n" + links.Footnotes()
	}

	text = TrimLines(text)
	return Wrap(text, n.Width)
}

// CollapseBlankLines turns whitespace-only lines into empty ones and caps
// consecutive blank lines at one.
func CollapseBlankLines(text string) string {
	text = whitespaceOnlyLine.ReplaceAllString(text, "\n\n")
	return excessNewlines.ReplaceAllString(text, "\n\n")
}

// TrimLines trims the text, then removes leading and trailing blanks on every line.
func TrimLines(text string) string {
	text = lineLeadingSpace.ReplaceAllString(strings.Trim(text, trimCutset), "\n")
	return lineTrailingSpace.ReplaceAllString(strings.Trim(text, trimCutset), "$1")
}
