package pipeline

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLinksLabel is used for locales missing from the label table.
const DefaultLinksLabel = "Links"

// linksLabels maps locale codes to the footnote block header.
var linksLabels = map[string]string{
	"cs": "Odkazy",
	"sk": "Odkazy",
	"en": "Links",
	"de": "Links",
	"sp": "Enlaces",
	"hu": "Referenciák",
	"cn": "友情链接",
	"jp": "リンク集",
}

// localeLanguages maps locale codes that are country codes or legacy aliases
// to their BCP 47 language.
var localeLanguages = map[string]string{
	"cn": "zh",
	"jp": "ja",
	"sp": "es",
}

// LinksLabel returns the footnote header label for a locale code.
func LinksLabel(locale string) string {
	if label, ok := linksLabels[locale]; ok {
		return label
	}
	return DefaultLinksLabel
}

// LabelledLocales returns the locale codes with a dedicated footnote label, sorted.
func LabelledLocales() []string {
	codes := make([]string, 0, len(linksLabels))
	for code := range linksLabels {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// LanguageFor returns the language used for case mapping under a locale code.
// Unknown or malformed codes map to language.Und.
func LanguageFor(locale string) language.Tag {
	code := strings.ToLower(strings.TrimSpace(locale))
	if code == "" {
		return language.Und
	}
	if alias, ok := localeLanguages[code]; ok {
		code = alias
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und
	}
	return tag
}
