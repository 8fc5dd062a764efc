package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// absoluteScheme matches link targets that are kept verbatim.
var absoluteScheme = regexp.MustCompile(`(?i)^(https?|mailto):`)

const javascriptScheme = "javascript:"

// LinkEntry is one numbered footnote.
type LinkEntry struct {
	Index  int    // 1-based, in encounter order
	Target string // resolved URL
}

// LinkRegistry accumulates link footnotes for a single conversion.
type LinkRegistry struct {
	baseURL string
	entries []LinkEntry
}

// NewLinkRegistry creates an empty registry resolving relative links against baseURL.
func NewLinkRegistry(baseURL string) *LinkRegistry {
	return &LinkRegistry{baseURL: baseURL}
}

// Register classifies a link target and returns the display text to emit.
// Absolute (http, https, mailto) and relative targets get the next footnote
// number appended as " [n]"; javascript: targets are returned untouched.
func (r *LinkRegistry) Register(rawTarget, display string) string {
	target := strings.TrimSpace(rawTarget)

	switch {
	case absoluteScheme.MatchString(target):
		// kept verbatim
	case hasPrefixFold(target, javascriptScheme):
		return display
	default:
		target = r.resolve(target)
	}

	n := len(r.entries) + 1
	r.entries = append(r.entries, LinkEntry{Index: n, Target: target})
	return display + " [" + strconv.Itoa(n) + "]"
}

// resolve joins a relative target onto the base URL.
func (r *LinkRegistry) resolve(target string) string {
	if target != "" && target[0] != '/' {
		return r.baseURL + "/" + target
	}
	return r.baseURL + target
}

// Entries returns the registered footnotes in order.
func (r *LinkRegistry) Entries() []LinkEntry {
	out := make([]LinkEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered footnotes.
func (r *LinkRegistry) Len() int {
	return len(r.entries)
}

// Footnotes renders the footnote lines, one "[n] target\n" per entry.
func (r *LinkRegistry) Footnotes() string {
	var b strings.Builder
	for _, e := range r.entries {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(e.Index))
		b.WriteString("] ")
		b.WriteString(e.Target)
		b.WriteByte('\n')
	}
	return b.String()
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
