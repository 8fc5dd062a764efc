package html2text

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alnah/go-html2text/internal/pipeline"
)

// Compile-time interface implementation checks.
var _ pipeline.MarkdownRenderer = (*pipeline.GoldmarkRenderer)(nil)

const (
	// dollarSentinel stands in for '$' while ConvertHTMLToPlainText runs the pipeline.
	dollarSentinel = "^_#%^"

	trimCutset = " \t\n\r\x00\x0b"
)

// Converter turns HTML into plain text.
// Create with NewConverter. A Converter is safe for concurrent use.
type Converter struct {
	mu          sync.RWMutex
	baseURL     string
	width       int
	allowedTags string
	allowed     pipeline.TagSet
	host        HostURLProvider
	pipe        *pipeline.Pipeline // replaced, never mutated, once published
	markdown    pipeline.MarkdownRenderer
}

// NewConverter creates a Converter with the default rules, a width of
// DefaultWidth and no allowed tags. Without WithBaseURL the base URL comes
// from the HostURLProvider, or stays empty.
// Returns ErrInvalidWidth for negative widths and ErrInvalidRule for rules
// that do not compile.
func NewConverter(opts ...Option) (*Converter, error) {
	cfg := converterConfig{width: DefaultWidth}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.width < 0 {
		return nil, fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWidth, cfg.width)
	}

	pipe := pipeline.New()
	for _, r := range cfg.rules {
		if err := pipe.Rules.Set(r.Pattern, r.Replacement); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
		}
	}

	c := &Converter{
		width:       cfg.width,
		allowedTags: cfg.allowedTags,
		allowed:     pipeline.ParseTagSet(cfg.allowedTags),
		host:        cfg.host,
		pipe:        pipe,
		markdown:    pipeline.NewGoldmarkRenderer(),
	}

	if cfg.baseURLSet {
		c.baseURL = cfg.baseURL
	} else {
		c.baseURL = c.hostURL()
	}

	return c, nil
}

// ConvertHTMLToPlainText converts html with a default Converter and trims the result.
// Dollar signs survive the conversion untouched.
func ConvertHTMLToPlainText(html, locale string) string {
	escaped := strings.ReplaceAll(html, "$", dollarSentinel)
	text := defaultConverter().Convert(escaped, locale)
	return strings.Trim(strings.ReplaceAll(text, dollarSentinel, "$"), trimCutset)
}

// defaultConverter is shared by ConvertHTMLToPlainText; it is never mutated.
var defaultConverter = sync.OnceValue(func() *Converter {
	c, err := NewConverter()
	if err != nil {
		panic("html2text: default converter: " + err.Error())
	}
	return c
})

// Convert converts html to plain text. The locale selects the footnote
// header and the case mapping language. Malformed markup degrades gracefully;
// Convert never fails.
func (c *Converter) Convert(html, locale string) string {
	c.mu.RLock()
	pipe := c.pipe
	settings := pipeline.Settings{
		BaseURL: c.baseURL,
		Width:   c.width,
		Allowed: c.allowed,
	}
	c.mu.RUnlock()

	return pipe.Process(html, locale, settings)
}

// ConvertMarkdown renders markdown to HTML, then converts it like Convert.
// The context is used for cancellation.
func (c *Converter) ConvertMarkdown(ctx context.Context, markdown, locale string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", ErrEmptyMarkdown
	}

	htmlContent, err := c.markdown.ToHTML(ctx, markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return c.Convert(htmlContent, locale), nil
}

// SetBaseURL sets the URL relative links resolve against.
// One trailing slash is stripped.
func (c *Converter) SetBaseURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = trimBaseURL(url)
}

// UseHostBaseURL resets the base URL to the HostURLProvider's value,
// or to "" when there is no provider.
func (c *Converter) UseHostBaseURL() {
	url := c.hostURL()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = url
}

func (c *Converter) hostURL() string {
	if c.host == nil {
		return ""
	}
	return trimBaseURL(c.host())
}

// AddRule appends a rule after the existing ones, or replaces the replacement
// of an existing pattern in place. Conversions already running keep the
// rules they started with.
func (c *Converter) AddRule(pattern, replacement string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rules := c.pipe.Rules.Clone()
	if err := rules.Set(pattern, replacement); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	c.pipe = &pipeline.Pipeline{Rules: rules, Transformer: c.pipe.Transformer}
	return nil
}

// MustAddRule is like AddRule but panics on an invalid pattern.
// It returns c to allow chaining.
func (c *Converter) MustAddRule(pattern, replacement string) *Converter {
	if err := c.AddRule(pattern, replacement); err != nil {
		panic("html2text: MustAddRule: " + err.Error())
	}
	return c
}

// Rules returns the rule table in application order.
func (c *Converter) Rules() []Rule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pipe.Rules.Rules()
}

// BaseURL returns the URL relative links resolve against.
func (c *Converter) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// Width returns the wrap column; 0 means no wrapping.
func (c *Converter) Width() int {
	return c.width
}

// AllowedTags returns the allow-list as configured.
func (c *Converter) AllowedTags() string {
	return c.allowedTags
}

// LinksLabel returns the footnote header used for a locale code.
func LinksLabel(locale string) string {
	return pipeline.LinksLabel(locale)
}
