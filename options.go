package html2text

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/alnah/go-html2text/internal/pipeline"
)

// DefaultWidth is the wrap column used when no width is configured.
const DefaultWidth = 120

// Rule is an ordered substitution: Pattern is an RE2 expression and
// Replacement a Go regexp template ($1, ${name}).
type Rule = pipeline.Rule

// HostURLProvider returns the base URL of the current host, or "" when unknown.
// It backs UseHostBaseURL and converters created without WithBaseURL.
type HostURLProvider func() string

// Option configures a Converter.
type Option func(*converterConfig)

// converterConfig holds the values collected from options before validation.
type converterConfig struct {
	baseURL     string
	baseURLSet  bool
	width       int
	allowedTags string
	host        HostURLProvider
	rules       []Rule
}

// WithBaseURL sets the URL relative links resolve against.
// One trailing slash is stripped.
func WithBaseURL(url string) Option {
	return func(c *converterConfig) {
		c.baseURL = trimBaseURL(url)
		c.baseURLSet = true
	}
}

// WithWidth sets the wrap column. 0 disables wrapping; negative values are
// rejected by NewConverter with ErrInvalidWidth.
func WithWidth(width int) Option {
	return func(c *converterConfig) {
		c.width = width
	}
}

// WithAllowedTags sets the tags kept by the stripping step, written as
// "<b><a>" or "b, a".
func WithAllowedTags(tags string) Option {
	return func(c *converterConfig) {
		c.allowedTags = tags
	}
}

// WithHostURLProvider sets the provider used when no explicit base URL is given.
func WithHostURLProvider(p HostURLProvider) Option {
	return func(c *converterConfig) {
		c.host = p
	}
}

// WithRule registers an additional rule after the defaults.
// Invalid patterns make NewConverter fail with ErrInvalidRule.
func WithRule(pattern, replacement string) Option {
	return func(c *converterConfig) {
		c.rules = append(c.rules, Rule{Pattern: pattern, Replacement: replacement})
	}
}

// Keys recognised by OptionsFromMap.
const (
	keyBaseURL     = "baseUrl"
	keyWidth       = "width"
	keyAllowedTags = "allowedTags"
)

// OptionsFromMap builds options from loosely typed configuration, such as a
// decoded JSON object. Recognised keys are baseUrl, width and allowedTags;
// other keys and nil values are ignored. Values that cannot be coerced to the
// declared type fail with ErrInvalidOption.
func OptionsFromMap(m map[string]any) ([]Option, error) {
	var opts []Option

	// Sorted so the first reported error does not depend on map order.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := m[key]
		if v == nil {
			continue
		}

		switch key {
		case keyBaseURL:
			s, err := coerceString(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOption, key, err)
			}
			opts = append(opts, WithBaseURL(s))
		case keyWidth:
			n, err := coerceInt(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOption, key, err)
			}
			opts = append(opts, WithWidth(n))
		case keyAllowedTags:
			s, err := coerceTagList(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOption, key, err)
			}
			opts = append(opts, WithAllowedTags(s))
		}
	}

	return opts, nil
}

func coerceString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func coerceInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int64ToInt(n)
	case uint:
		return uint64ToInt(uint64(n))
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return uint64ToInt(uint64(n))
	case uint64:
		return uint64ToInt(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", n.String())
		}
		return int64ToInt(i)
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func int64ToInt(n int64) (int, error) {
	if n > math.MaxInt || n < math.MinInt {
		return 0, fmt.Errorf("out of range: %d", n)
	}
	return int(n), nil
}

func uint64ToInt(n uint64) (int, error) {
	if n > math.MaxInt {
		return 0, fmt.Errorf("out of range: %d", n)
	}
	return int(n), nil
}

func floatToInt(f float64) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("not an integer: %v", f)
	}
	return int(f), nil
}

// coerceTagList accepts a single string or a list of tag names.
func coerceTagList(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []string:
		return strings.Join(t, ","), nil
	case []any:
		names := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return "", fmt.Errorf("expected tag name, got %T", item)
			}
			names = append(names, s)
		}
		return strings.Join(names, ","), nil
	default:
		return "", fmt.Errorf("expected string or list, got %T", v)
	}
}

// trimBaseURL removes a single trailing slash.
func trimBaseURL(url string) string {
	return strings.TrimSuffix(url, "/")
}
