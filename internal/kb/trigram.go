package kb

import (
	"strings"
	"unicode"
)

// NormalizeQuestion reduces a question to its matching form: pictographic
// symbols stripped, lowercased, every run of non-letter/digit characters
// collapsed to a single space, and tokens shorter than the trigram window
// dropped (function words like "a" or "in" carry no trigram signal and
// would only dilute the score). The matcher and the teaching writer must
// both go through this function, otherwise round-trip similarity is
// meaningless.
func NormalizeQuestion(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	var token []rune
	flush := func() {
		if len(token) >= 3 {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(string(token))
		}
		token = token[:0]
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			token = append(token, r)
			continue
		}
		// Emoji, punctuation, separators all act as one gap.
		flush()
	}
	flush()
	return b.String()
}

// trigramSet builds the padded character-trigram set: two spaces on each
// side keep edge trigrams distinguishable from interior ones.
func trigramSet(normalized string) map[string]struct{} {
	if normalized == "" {
		return nil
	}
	runes := []rune("  " + normalized + "  ")
	set := make(map[string]struct{}, len(runes))
	for i := 0; i+3 <= len(runes); i++ {
		set[string(runes[i:i+3])] = struct{}{}
	}
	return set
}

// TrigramSimilarity is the Jaccard index over padded trigram sets of the
// normalized inputs: symmetric, in [0,1], 0 when both are empty.
func TrigramSimilarity(a, b string) float64 {
	sa := trigramSet(NormalizeQuestion(a))
	sb := trigramSet(NormalizeQuestion(b))
	if len(sa) == 0 && len(sb) == 0 {
		return 0
	}
	inter := 0
	for t := range sa {
		if _, ok := sb[t]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
