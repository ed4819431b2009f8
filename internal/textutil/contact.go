package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

type Gender int

const (
	GenderMale Gender = iota
	GenderFemale
)

const (
	minNameLen = 2
	maxNameLen = 30
)

// namePatterns cover the "my name is <Name>" sentence shape in the five
// supported languages. First capture group is the candidate name.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmy name is\s+(\p{Lu}[\p{L}'-]*(?:\s+\p{Lu}[\p{L}'-]*)?)`),
	regexp.MustCompile(`(?i)\bменя зовут\s+(\p{Lu}[\p{L}'-]*(?:\s+\p{Lu}[\p{L}'-]*)?)`),
	regexp.MustCompile(`(?i)\bмо[её] имя\s+(\p{Lu}[\p{L}'-]*(?:\s+\p{Lu}[\p{L}'-]*)?)`),
	regexp.MustCompile(`(?i)\bмене (?:звати|звуть)\s+(\p{Lu}[\p{L}'-]*(?:\s+\p{Lu}[\p{L}'-]*)?)`),
	regexp.MustCompile(`(?i)\bmam na imi[eę]\s+(\p{Lu}[\p{L}'-]*(?:\s+\p{Lu}[\p{L}'-]*)?)`),
	regexp.MustCompile(`(?i)\bnazywam si[eę]\s+(\p{Lu}[\p{L}'-]*(?:\s+\p{Lu}[\p{L}'-]*)?)`),
	regexp.MustCompile(`(?i)\bjmenuj[iu] se\s+(\p{Lu}[\p{L}'-]*(?:\s+\p{Lu}[\p{L}'-]*)?)`),
}

// leadingNameRe matches a capitalized token at the start of the message
// set off by a comma or dash ("Anna, good afternoon").
var leadingNameRe = regexp.MustCompile(`^(\p{Lu}[\p{L}'-]*)\s*[,—-]`)

// nameStopWords rejects tokens that look like names positionally but are
// greetings, role nouns or acknowledgements. Lowercased.
var nameStopWords = map[string]struct{}{
	// greetings
	"hello": {}, "hi": {}, "hey": {}, "good": {}, "morning": {}, "evening": {},
	"привет": {}, "здравствуйте": {}, "добрый": {}, "доброе": {}, "вечер": {}, "утро": {},
	"вітаю": {}, "добрий": {}, "день": {},
	"cześć": {}, "czesc": {}, "witam": {}, "dzień": {}, "dobry": {},
	"ahoj": {}, "dobrý": {}, "den": {},
	// role nouns
	"manager": {}, "recruiter": {}, "director": {}, "hr": {}, "admin": {},
	"менеджер": {}, "рекрутер": {}, "директор": {}, "компания": {}, "агентство": {},
	"agencja": {}, "agentura": {}, "firma": {},
	// acknowledgements
	"thanks": {}, "thank": {}, "yes": {}, "no": {}, "ok": {}, "okay": {},
	"спасибо": {}, "да": {}, "нет": {}, "хорошо": {}, "окей": {},
	"дякую": {}, "так": {}, "ні": {},
	"dziękuję": {}, "dziekuje": {}, "tak": {}, "nie": {},
	"děkuji": {}, "dekuji": {}, "ano": {},
}

// ExtractName finds a user-supplied name. Strategies run in precedence
// order, first hit wins:
//  1. "my name is X" sentence patterns,
//  2. the whole trimmed message is exactly one plausible name,
//  3. a leading capitalized token before a comma/dash separator.
func ExtractName(text string) (string, bool) {
	text = Normalize(text)

	for _, re := range namePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if name, ok := validName(m[1]); ok {
				return name, true
			}
		}
	}

	if fields := strings.Fields(text); len(fields) == 1 {
		token := strings.Trim(fields[0], ".,!?")
		if startsUpper(token) {
			if name, ok := validName(token); ok {
				return name, true
			}
		}
	}

	if m := leadingNameRe.FindStringSubmatch(text); m != nil {
		if name, ok := validName(m[1]); ok {
			return name, true
		}
	}

	return "", false
}

func validName(candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	for _, token := range strings.Fields(candidate) {
		runes := []rune(token)
		if len(runes) < minNameLen || len(runes) > maxNameLen {
			return "", false
		}
		for _, r := range runes {
			if unicode.IsDigit(r) {
				return "", false
			}
		}
		if _, stop := nameStopWords[strings.ToLower(token)]; stop {
			return "", false
		}
	}
	if candidate == "" {
		return "", false
	}
	return candidate, true
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

var phoneRe = regexp.MustCompile(`\+?\d[\d+\-() ]{5,}\d`)

// ExtractPhone finds the first phone-looking sequence: digit-led, at
// least 7 digits, separators limited to "+- ()". The result keeps only
// digits and a leading plus.
func ExtractPhone(text string) (string, bool) {
	m := phoneRe.FindString(text)
	if m == "" {
		return "", false
	}
	var b strings.Builder
	for i, r := range m {
		if r >= '0' && r <= '9' || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	phone := b.String()
	if n := len(strings.TrimPrefix(phone, "+")); n < 7 {
		return "", false
	}
	return phone, true
}

var maleNames = map[string]struct{}{
	"alexander": {}, "andrew": {}, "john": {}, "peter": {}, "michael": {}, "david": {},
	"александр": {}, "андрей": {}, "иван": {}, "сергей": {}, "дмитрий": {}, "павел": {},
	"петр": {}, "пётр": {}, "олег": {}, "максим": {}, "никита": {}, "владимир": {},
	"олександр": {}, "андрій": {}, "іван": {}, "олексій": {},
	"jan": {}, "adam": {}, "tomasz": {}, "piotr": {}, "marek": {}, "michał": {},
	"tomáš": {}, "jakub": {}, "petr": {}, "pavel": {}, "martin": {}, "ondřej": {},
}

// femaleEndings is a suffix heuristic applied when the name list misses.
var femaleEndings = []string{"a", "я", "а", "ia", "ie"}

// GuessGender picks a grammatical gender for honorifics only; it must
// never block the pipeline, so the fallback is male.
func GuessGender(name string) Gender {
	first := strings.ToLower(strings.TrimSpace(name))
	if i := strings.IndexByte(first, ' '); i > 0 {
		first = first[:i]
	}
	if first == "" {
		return GenderMale
	}
	if _, ok := maleNames[first]; ok {
		return GenderMale
	}
	for _, suffix := range femaleEndings {
		if strings.HasSuffix(first, suffix) {
			return GenderFemale
		}
	}
	return GenderMale
}
