package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// missingGroup is emitted when a handler's captured group did not participate in the match.
const missingGroup = "?"

// State carries per-conversion data through the transform step.
// Create one per call with NewState; never share it between calls.
type State struct {
	Links *LinkRegistry
	upper cases.Caser
	title cases.Caser
}

// NewState creates fresh per-call state for the given locale and base URL.
func NewState(locale, baseURL string) *State {
	tag := LanguageFor(locale)
	return &State{
		Links: NewLinkRegistry(baseURL),
		upper: cases.Upper(tag),
		title: cases.Title(tag, cases.NoLower),
	}
}

// Upper applies locale-aware uppercasing to the text between tags.
// Tags are copied unchanged so attribute values such as href keep their case.
func (s *State) Upper(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for text != "" {
		open := strings.IndexByte(text, '<')
		if open < 0 {
			b.WriteString(s.upper.String(text))
			break
		}
		b.WriteString(s.upper.String(text[:open]))
		text = text[open:]

		end := strings.IndexByte(text, '>')
		if end < 0 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:end+1])
		text = text[end+1:]
	}
	return b.String()
}

// Title uppercases the first rune of the text and every rune following
// whitespace. Everything else, markup included, is copied byte for byte.
func (s *State) Title(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	wordStart := true
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		chunk := text[i : i+size]
		if wordStart && !isWordSeparator(r) && r != utf8.RuneError {
			chunk = s.title.String(chunk)
		}
		b.WriteString(chunk)
		wordStart = isWordSeparator(r)
		i += size
	}
	return b.String()
}

// isWordSeparator matches the whitespace that starts a new word for Title.
func isWordSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// Match is a single regex match handed to a Handler.
type Match struct {
	Full   string
	groups []string
	found  []bool
}

// Group returns capture group i and whether it participated in the match.
func (m Match) Group(i int) (string, bool) {
	if i < 1 || i > len(m.groups) || !m.found[i-1] {
		return "", false
	}
	return m.groups[i-1], true
}

// Handler computes the replacement for a match.
type Handler func(m Match, st *State) string

// TransformRule pairs a pattern with the handler computing its replacement.
type TransformRule struct {
	Name    string
	Pattern *regexp.Regexp
	Handler Handler
}

var (
	headingMajor = regexp.MustCompile(`(?i)<h[123][^>]*>(.*?)</h[123]>`)
	headingMinor = regexp.MustCompile(`(?i)<h[456][^>]*>(.*?)</h[456]>`)
	boldTag      = regexp.MustCompile(`(?i)<b[^>]*>([^<]+)</b>`)
	strongTag    = regexp.MustCompile(`(?i)<strong[^>]*>(.*?)</strong>`)
	anchorTag    = regexp.MustCompile(`(?i)<a [^>]*href="([^"]+)"[^>]*>(.*?)</a>`)
	tableHeader  = regexp.MustCompile(`(?i)<th[^>]*>(.*?)</th>`)
)

// defaultTransforms is the built-in transform order. <b> accepts no nested
// markup while <strong> does; both forms are kept distinct on purpose.
var defaultTransforms = []TransformRule{
	{Name: "heading-major", Pattern: headingMajor, Handler: upperBlock},
	{Name: "heading-minor", Pattern: headingMinor, Handler: titleBlock},
	{Name: "bold", Pattern: boldTag, Handler: upperInline},
	{Name: "strong", Pattern: strongTag, Handler: upperInline},
	{Name: "anchor", Pattern: anchorTag, Handler: anchorFootnote},
	{Name: "table-header", Pattern: tableHeader, Handler: headerCell},
}

func upperBlock(m Match, st *State) string {
	content, ok := m.Group(1)
	if !ok {
		return missingGroup
	}
	return "\n\n" + st.Upper(content) + "\n\n"
}

func titleBlock(m Match, st *State) string {
	content, ok := m.Group(1)
	if !ok {
		return missingGroup
	}
	return "\n\n" + st.Title(content) + "\n\n"
}

func upperInline(m Match, st *State) string {
	content, ok := m.Group(1)
	if !ok {
		return missingGroup
	}
	return st.Upper(content)
}

func anchorFootnote(m Match, st *State) string {
	href, ok := m.Group(1)
	if !ok {
		return missingGroup
	}
	display, ok := m.Group(2)
	if !ok {
		return missingGroup
	}
	return st.Links.Register(href, display)
}

func headerCell(m Match, st *State) string {
	content, ok := m.Group(1)
	if !ok {
		return missingGroup
	}
	return "\t\t" + st.Upper(content) + "\n"
}

// TagTransformer runs an ordered list of transform rules through a single driver.
type TagTransformer struct {
	rules []TransformRule
}

// NewTagTransformer returns a transformer with the built-in rules.
func NewTagTransformer() *TagTransformer {
	rules := make([]TransformRule, len(defaultTransforms))
	copy(rules, defaultTransforms)
	return &TagTransformer{rules: rules}
}

// Rules returns the transform rules in application order.
func (t *TagTransformer) Rules() []TransformRule {
	out := make([]TransformRule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Apply runs each rule over the whole text, left to right.
func (t *TagTransformer) Apply(text string, st *State) string {
	for _, r := range t.rules {
		text = replaceAllFunc(r.Pattern, text, func(m Match) string {
			return r.Handler(m, st)
		})
	}
	return text
}

// replaceAllFunc is ReplaceAllStringFunc with access to capture groups.
// Handlers run in match order, which keeps footnote numbering in document order.
func replaceAllFunc(re *regexp.Regexp, text string, fn func(Match) string) string {
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, loc := range locs {
		b.WriteString(text[last:loc[0]])
		b.WriteString(fn(newMatch(text, loc)))
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func newMatch(text string, loc []int) Match {
	n := len(loc)/2 - 1
	m := Match{
		Full:   text[loc[0]:loc[1]],
		groups: make([]string, n),
		found:  make([]bool, n),
	}
	for i := 0; i < n; i++ {
		start, end := loc[2*(i+1)], loc[2*(i+1)+1]
		if start < 0 {
			continue
		}
		m.groups[i] = text[start:end]
		m.found[i] = true
	}
	return m
}
