package command

import (
	"regexp"
	"strings"

	"github.com/talentlinkco/recruitbot/internal/lang"
	"github.com/talentlinkco/recruitbot/internal/textutil"
)

// Kind tags an imperative command embedded in free text.
type Kind string

const (
	Teach     Kind = "teach"
	Translate Kind = "translate"
	Objection Kind = "objection"
)

// trigger is one detection pattern for one command kind in one language.
// Detection runs over folded, quote-stripped text, so patterns are all
// lowercase. Adding a language or phrasing means adding a row.
type trigger struct {
	kind Kind
	lang lang.Lang
	re   *regexp.Regexp
}

var triggers = []trigger{
	// Teach: first-person conditional "I would answer ...", several word
	// orders plus the feminine past form in the Slavic languages.
	{Teach, lang.English, regexp.MustCompile(`\bi\s+would\s+answer\b`)},
	{Teach, lang.English, regexp.MustCompile(`\bi'?d\s+answer\b`)},
	{Teach, lang.Russian, regexp.MustCompile(`я\s+бы\s+ответил(а)?`)},
	{Teach, lang.Russian, regexp.MustCompile(`ответил(а)?\s+бы\s+я`)},
	{Teach, lang.Russian, regexp.MustCompile(`я\s+б\s+ответил(а)?`)},
	{Teach, lang.Ukrainian, regexp.MustCompile(`я\s+б(и)?\s+відповів`)},
	{Teach, lang.Ukrainian, regexp.MustCompile(`я\s+б(и)?\s+відповіла`)},
	{Teach, lang.Polish, regexp.MustCompile(`odpowiedział(a)?bym`)},
	{Teach, lang.Czech, regexp.MustCompile(`odpověděl(a)?\s+bych`)},

	// Translate: imperative "translate" verb per language.
	{Translate, lang.English, regexp.MustCompile(`\btranslate\b`)},
	{Translate, lang.Russian, regexp.MustCompile(`перевед(и|ите)`)},
	{Translate, lang.Russian, regexp.MustCompile(`перевест(и|ь)`)},
	{Translate, lang.Ukrainian, regexp.MustCompile(`переклад(и|іть)`)},
	{Translate, lang.Polish, regexp.MustCompile(`przetłumacz`)},
	{Translate, lang.Czech, regexp.MustCompile(`přelož`)},

	// Canned objection: the fixed "answer the price objection" idiom.
	{Objection, lang.English, regexp.MustCompile(`answer\s+the\s+price\s+objection`)},
	{Objection, lang.Russian, regexp.MustCompile(`ответь?\s+на\s+возражение\s+дорого`)},
}

// Detect reports the first command trigger found in the text, if any.
// The caller passes quote-stripped original text; folding happens here so
// trigger tables stay lowercase.
func Detect(text string) (Kind, bool) {
	folded := textutil.Fold(text)
	if folded == "" {
		return "", false
	}
	for _, t := range triggers {
		if t.re.MatchString(folded) {
			return t.kind, true
		}
	}
	return "", false
}

// teachPayloadRes is tried strictest first: payload after a separator,
// then any trailing text after the trigger.
var teachPayloadRes = []*regexp.Regexp{
	regexp.MustCompile(`(?:i\s+would\s+answer|i'?d\s+answer|я\s+бы?\s+ответил(?:а)?|ответил(?:а)?\s+бы\s+я|я\s+б(?:и)?\s+відповів(?:ла)?|odpowiedział(?:a)?bym|odpověděl(?:a)?\s+bych)\s*[:,—-]\s*(.+)$`),
	regexp.MustCompile(`(?:i\s+would\s+answer|i'?d\s+answer|я\s+бы?\s+ответил(?:а)?|ответил(?:а)?\s+бы\s+я|я\s+б(?:и)?\s+відповів(?:ла)?|odpowiedział(?:a)?bym|odpověděl(?:a)?\s+bych)\s+(.+)$`),
}

var teachTriggerRe = regexp.MustCompile(`(?:i\s+would\s+answer|i'?d\s+answer|я\s+бы?\s+ответил(?:а)?|ответил(?:а)?\s+бы\s+я|я\s+б(?:и)?\s+відповів(?:ла)?|odpowiedział(?:a)?bym|odpověděl(?:a)?\s+bych)`)

// ParseTeach extracts the answer text supplied with a teach command. It
// tries progressively looser captures, finally stripping the trigger
// phrase itself. The payload keeps the original casing: only the match
// offsets come from folded text, the slice is taken from the original.
func ParseTeach(text string) (string, bool) {
	norm := textutil.Normalize(text)
	folded := strings.ToLower(norm)
	for _, re := range teachPayloadRes {
		if loc := re.FindStringSubmatchIndex(folded); loc != nil {
			payload := strings.TrimSpace(norm[loc[2]:loc[3]])
			if payload != "" {
				return payload, true
			}
		}
	}
	// Last resort: cut the trigger out and keep whatever is left.
	if loc := teachTriggerRe.FindStringIndex(folded); loc != nil {
		rest := norm[:loc[0]] + norm[loc[1]:]
		rest = strings.Trim(strings.TrimSpace(rest), ":,—-. ")
		if rest != "" {
			return rest, true
		}
	}
	return "", false
}

// targetWords maps a spoken language name, in any supported language, to
// its code. Declensions are covered by listing the inflected forms.
var targetWords = map[string]lang.Lang{
	"english": lang.English, "английский": lang.English, "англійську": lang.English,
	"angielski": lang.English, "angličtiny": lang.English, "anglicky": lang.English,
	"russian": lang.Russian, "русский": lang.Russian, "російську": lang.Russian,
	"rosyjski": lang.Russian, "ruštiny": lang.Russian, "rusky": lang.Russian,
	"ukrainian": lang.Ukrainian, "украинский": lang.Ukrainian, "українську": lang.Ukrainian,
	"ukraiński": lang.Ukrainian, "ukrajinštiny": lang.Ukrainian,
	"polish": lang.Polish, "польский": lang.Polish, "польську": lang.Polish,
	"polski": lang.Polish, "polštiny": lang.Polish, "polsky": lang.Polish,
	"czech": lang.Czech, "чешский": lang.Czech, "чеську": lang.Czech,
	"czeski": lang.Czech, "češtiny": lang.Czech, "česky": lang.Czech,
}

var translateRes = []*regexp.Regexp{
	// "translate to <language>: text", preposition per language.
	regexp.MustCompile(`(?:translate|перевед(?:и|ите)|перевест(?:и|ь)|переклад(?:и|іть)|przetłumacz|přelož)\s+(?:to|into|на|do|na)\s+([\p{L}]+)\s*[:,—-]?\s*(.*)$`),
	// "translate: text" with no target.
	regexp.MustCompile(`(?:translate|перевед(?:и|ите)|перевест(?:и|ь)|переклад(?:и|іть)|przetłumacz|přelož)\s*[:,—-]?\s*(.*)$`),
}

// TranslateRequest is the parsed payload of a translate command. Target
// is zero when the user named no language; the caller picks a default.
type TranslateRequest struct {
	Target lang.Lang
	Text   string
}

// ParseTranslate extracts the optional target language and the text to
// translate. ok is false when no residual text follows the trigger.
func ParseTranslate(text string) (TranslateRequest, bool) {
	norm := textutil.Normalize(text)
	folded := strings.ToLower(norm)

	if loc := translateRes[0].FindStringSubmatchIndex(folded); loc != nil {
		word := folded[loc[2]:loc[3]]
		if target, known := targetWords[word]; known {
			payload := strings.TrimSpace(norm[loc[4]:loc[5]])
			if payload == "" {
				return TranslateRequest{}, false
			}
			return TranslateRequest{Target: target, Text: payload}, true
		}
		// The word after the preposition was not a language name; fall
		// through and treat it as part of the payload.
	}
	if loc := translateRes[1].FindStringSubmatchIndex(folded); loc != nil {
		payload := strings.TrimSpace(norm[loc[2]:loc[3]])
		if payload == "" {
			return TranslateRequest{}, false
		}
		return TranslateRequest{Text: payload}, true
	}
	return TranslateRequest{}, false
}
