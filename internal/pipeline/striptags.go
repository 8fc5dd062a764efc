package pipeline

import (
	"strings"

	"golang.org/x/net/html"
)

// TagSet is a set of lower-case tag names allowed to survive stripping.
type TagSet map[string]struct{}

// ParseTagSet parses an allow-list such as "<b><a>", "b, a" or "<b>,</i>".
func ParseTagSet(spec string) TagSet {
	fields := strings.FieldsFunc(spec, func(r rune) bool {
		switch r {
		case '<', '>', '/', ',', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
	if len(fields) == 0 {
		return nil
	}

	set := make(TagSet, len(fields))
	for _, f := range fields {
		set[strings.ToLower(f)] = struct{}{}
	}
	return set
}

// Has reports whether name is allowed.
func (s TagSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// markupRawTags are elements whose content the tokenizer returns as raw
// text even though it may hold markup. Their content is stripped again.
// Script and style hold code, not markup, and are left alone.
var markupRawTags = map[string]bool{
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
	"textarea":  true,
	"title":     true,
	"xmp":       true,
}

// StripTags removes markup from text, keeping text content verbatim.
// Tags named in allowed are emitted unchanged; comments and doctypes are dropped.
// The tokenizer never builds a tree, so unbalanced markup is handled token by token.
func StripTags(text string, allowed TagSet) string {
	if !strings.Contains(text, "<") {
		return text
	}

	z := html.NewTokenizer(strings.NewReader(text))
	var b strings.Builder
	b.Grow(len(text))
	inRaw := false

	for {
		switch tt := z.Next(); tt {
		case html.ErrorToken:
			// io.EOF, or an unterminated construct at the end of input
			return b.String()
		case html.TextToken:
			if inRaw {
				b.WriteString(StripTags(string(z.Raw()), allowed))
			} else {
				b.Write(z.Raw())
			}
			inRaw = false
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			// TagName lower-cases the token buffer in place, so copy Raw first.
			raw := append([]byte(nil), z.Raw()...)
			name, _ := z.TagName()
			inRaw = tt != html.EndTagToken && markupRawTags[string(name)]
			if allowed.Has(string(name)) {
				b.Write(raw)
			}
		default:
			inRaw = false
		}
	}
}
