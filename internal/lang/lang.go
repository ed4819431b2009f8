// Package lang pins all cross-component text to one canonical language
// and owns the translation cache in front of the model.
package lang

import "fmt"

type Lang string

const (
	English   Lang = "en"
	Russian   Lang = "ru"
	Ukrainian Lang = "uk"
	Polish    Lang = "pl"
	Czech     Lang = "cs"
)

// Canonical is the internal language every stored or classified text is
// normalized to.
const Canonical = English

var supported = map[Lang]struct{}{
	English:   {},
	Russian:   {},
	Ukrainian: {},
	Polish:    {},
	Czech:     {},
}

// Parse rejects codes outside the closed set; persisted values that fail
// here indicate schema drift and must not be silently defaulted.
func Parse(code string) (Lang, error) {
	l := Lang(code)
	if _, ok := supported[l]; !ok {
		return "", fmt.Errorf("lang: unknown code %q", code)
	}
	return l, nil
}

// ParseHint is the permissive form for transport-supplied hints.
func ParseHint(code string) (Lang, bool) {
	l, err := Parse(code)
	return l, err == nil
}

func (l Lang) String() string { return string(l) }

// DisplayName is the English name used inside model prompts.
func (l Lang) DisplayName() string {
	switch l {
	case English:
		return "English"
	case Russian:
		return "Russian"
	case Ukrainian:
		return "Ukrainian"
	case Polish:
		return "Polish"
	case Czech:
		return "Czech"
	}
	return string(l)
}
