package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var quoteFold = strings.NewReplacer(
	"«", `"`, // «
	"»", `"`, // »
	"“", `"`, // LDQUO
	"”", `"`, // RDQUO
	"„", `"`, // „
	"‘", "'",
	"’", "'",
	"‚", "'",
	"`", "'", // backtick
)

var wsRun = regexp.MustCompile(`\s+`)

// Normalize canonicalizes raw user text: NFKC fold, typographic quotes
// mapped to their ASCII equivalents, all unicode whitespace mapped to a
// single space, runs collapsed, edges trimmed. Total; never fails.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = quoteFold.Replace(text)
	text = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, text)
	return strings.TrimSpace(wsRun.ReplaceAllString(text, " "))
}

// Fold is the matching form: Normalize plus lowercasing.
func Fold(text string) string {
	return strings.ToLower(Normalize(text))
}

// replyHeaderRes matches lines that belong to a quoted reply rather than
// the user's own words: mail-style headers, "X wrote:" banners, forwarded
// sender tags.
var replyHeaderRes = []*regexp.Regexp{
	regexp.MustCompile(`^\s*(From|To|Sent|Subject|Date)\s*:`),
	regexp.MustCompile(`(?i)^\s*on .+ wrote:\s*$`),
	regexp.MustCompile(`(?i)^\s*-{2,}\s*(original|forwarded) message\s*-{2,}`),
	regexp.MustCompile(`^\s*\[[^\]]+\]\s*:`),
	regexp.MustCompile(`(?i)^\s*sent from my `),
	regexp.MustCompile(`^\s*\S+@\S+\.\S+\s+(пишет|писал|wrote|napisał)`),
}

// StripQuoted drops quoted-reply context so command phrases are detected
// only against the user's own words.
func StripQuoted(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
line:
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" || strings.HasPrefix(trimmed, ">") {
			continue
		}
		for _, re := range replyHeaderRes {
			if re.MatchString(trimmed) {
				continue line
			}
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, "\n")
}
