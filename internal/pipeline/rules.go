package pipeline

import (
	"errors"
	"fmt"
	"regexp"
)

// Sentinel errors for rule registration.
var (
	ErrEmptyPattern   = errors.New("rule pattern cannot be empty")
	ErrInvalidPattern = errors.New("invalid rule pattern")
)

// Rule is a single ordered substitution applied to the whole text.
// Replacement uses regexp template syntax ($1, ${name}).
type Rule struct {
	Pattern     string
	Replacement string
}

type compiledRule struct {
	Rule
	re *regexp.Regexp
}

// hrLine is the horizontal rule rendering for <hr>.
const hrLine = "\n-------------------------\n"

// defaultRules is the built-in rule order. Whitespace collapsing runs first,
// layout tags next, entity decoding after the tags (so decoded '<' and '>'
// are not mistaken for layout markup), and a final space collapse last.
var defaultRules = []Rule{
	{`\r`, ""},
	{`[\n\t]+`, " "},
	{`[ ]{2,}`, " "},
	{`(?i)<title[^>]*>.*?</title>`, ""},
	{`(?i)<script[^>]*>.*?</script>`, ""},
	{`(?i)<style[^>]*>.*?</style>`, ""},
	{`(?i)<p[^>]*>`, "\n\n\t"},
	{`(?i)<br[^>]*>`, "\n"},
	{`(?i)<i[^>]*>(.*?)</i>`, "_${1}_"},
	{`(?i)<em[^>]*>(.*?)</em>`, "_${1}_"},
	{`(?i)(<ul[^>]*>|</ul>)`, "\n\n"},
	{`(?i)(<ol[^>]*>|</ol>)`, "\n\n"},
	{`(?i)<li[^>]*>(.*?)</li>`, "\t* ${1}\n"},
	{`(?i)<li[^>]*>`, "\n\t* "},
	{`(?i)<hr[^>]*>`, hrLine},
	{`(?i)(<table[^>]*>|</table>)`, "\n"},
	{`(?i)(<tr[^>]*>|</tr>)`, "\n"},
	{`(?i)<td[^>]*>(.*?)</td>`, "${1}"},
	{`(?i)&(nbsp|#160);`, " "},
	{`(?i)&(quot|rdquo|ldquo|#8220|#8221|#147|#148);`, `"`},
	{`(?i)&(apos|rsquo|lsquo|#8216|#8217);`, "'"},
	{`(?i)&gt;`, ">"},
	{`(?i)&lt;`, "<"},
	{`(?i)&(amp|#38);`, "&"},
	{`(?i)&(copy|#169);`, "(c)"},
	{`(?i)&(trade|#8482|#153);`, "(tm)"},
	{`(?i)&(reg|#174);`, "(R)"},
	{`(?i)&(mdash|#151|#8212);`, "--"},
	{`(?i)&(ndash|minus|#8211|#8722);`, "-"},
	{`(?i)&(bull|#149|#8226);`, "*"},
	{`(?i)&(pound|#163);`, "£"},
	{`(?i)&(euro|#8364);`, "EUR"},
	{`&[^&;]+;`, ""},
	{`[ ]{2,64}`, " "},
}

// compiledDefaults is built once; tables copy the slice, never the regexps.
var compiledDefaults = func() []compiledRule {
	out := make([]compiledRule, len(defaultRules))
	for i, r := range defaultRules {
		out[i] = compiledRule{Rule: r, re: regexp.MustCompile(r.Pattern)}
	}
	return out
}()

// RuleTable is an ordered mapping from pattern to replacement.
// Setting an existing pattern overwrites its replacement and keeps its position.
// A RuleTable is not safe for concurrent mutation; callers guard Set.
type RuleTable struct {
	entries []compiledRule
	index   map[string]int
}

// NewRuleTable returns a table seeded with the default rules.
func NewRuleTable() *RuleTable {
	t := &RuleTable{
		entries: make([]compiledRule, len(compiledDefaults)),
		index:   make(map[string]int, len(compiledDefaults)),
	}
	copy(t.entries, compiledDefaults)
	for i, e := range t.entries {
		t.index[e.Pattern] = i
	}
	return t
}

// NewEmptyRuleTable returns a table with no rules.
func NewEmptyRuleTable() *RuleTable {
	return &RuleTable{index: make(map[string]int)}
}

// CompileRule validates a rule pattern without registering it.
func CompileRule(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}
	return re, nil
}

// Set appends a rule, or overwrites the replacement of an existing pattern in place.
func (t *RuleTable) Set(pattern, replacement string) error {
	if i, ok := t.index[pattern]; ok {
		t.entries[i].Replacement = replacement
		return nil
	}

	re, err := CompileRule(pattern)
	if err != nil {
		return err
	}
	t.index[pattern] = len(t.entries)
	t.entries = append(t.entries, compiledRule{
		Rule: Rule{Pattern: pattern, Replacement: replacement},
		re:   re,
	})
	return nil
}

// Apply runs every rule in order, each replacing all matches.
func (t *RuleTable) Apply(text string) string {
	for _, e := range t.entries {
		text = e.re.ReplaceAllString(text, e.Replacement)
	}
	return text
}

// Rules returns a copy of the rules in application order.
func (t *RuleTable) Rules() []Rule {
	out := make([]Rule, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Rule
	}
	return out
}

// Len returns the number of rules.
func (t *RuleTable) Len() int {
	return len(t.entries)
}

// Clone returns an independent copy. Compiled regexps are shared; they are immutable.
func (t *RuleTable) Clone() *RuleTable {
	c := &RuleTable{
		entries: make([]compiledRule, len(t.entries)),
		index:   make(map[string]int, len(t.index)),
	}
	copy(c.entries, t.entries)
	for k, v := range t.index {
		c.index[k] = v
	}
	return c
}
