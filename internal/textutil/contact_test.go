package textutil

import "testing"

func TestExtractNameSentencePatterns(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, my name is Viktor and I need staff", "Viktor"},
		{"Добрый день! Меня зовут Ольга", "Ольга"},
		{"Мене звати Олена", "Олена"},
		{"Mam na imię Tomasz", "Tomasz"},
		{"Jmenuji se Petr", "Petr"},
		{"my name is Anna Kowalska", "Anna Kowalska"},
	}
	for _, c := range cases {
		got, ok := ExtractName(c.in)
		if !ok || got != c.want {
			t.Errorf("ExtractName(%q) = %q/%v, want %q", c.in, got, ok, c.want)
		}
	}
}

func TestExtractNameStandaloneToken(t *testing.T) {
	got, ok := ExtractName("  Viktor  ")
	if !ok || got != "Viktor" {
		t.Errorf("ExtractName = %q/%v, want Viktor", got, ok)
	}
}

func TestExtractNameLeadingToken(t *testing.T) {
	got, ok := ExtractName("Anna, добрый день")
	if !ok || got != "Anna" {
		t.Errorf("ExtractName = %q/%v, want Anna", got, ok)
	}
}

// Sentence pattern beats the standalone token and the leading-token rule.
func TestExtractNamePrecedence(t *testing.T) {
	got, ok := ExtractName("Boris, my name is Viktor")
	if !ok || got != "Viktor" {
		t.Errorf("ExtractName = %q/%v, want Viktor (sentence pattern wins)", got, ok)
	}
}

func TestExtractNameRejectsStopWords(t *testing.T) {
	for _, in := range []string{
		"Hello",
		"Привет",
		"ПРИВЕТ",
		"Спасибо",
		"Manager",
		"Менеджер, добрый день",
		"my name is Manager",
		"Dziękuję",
	} {
		if got, ok := ExtractName(in); ok {
			t.Errorf("ExtractName(%q) = %q, want no match", in, got)
		}
	}
}

func TestExtractNameRejectsDigitsAndLength(t *testing.T) {
	for _, in := range []string{"Viktor2", "X", "my name is R2D2"} {
		if got, ok := ExtractName(in); ok {
			t.Errorf("ExtractName(%q) = %q, want no match", in, got)
		}
	}
}

func TestExtractPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"call me at +420 777 123 456 please", "+420777123456", true},
		{"8 (916) 123-45-67", "89161234567", true},
		{"short 12345", "", false},
		{"no digits here", "", false},
	}
	for _, c := range cases {
		got, ok := ExtractPhone(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ExtractPhone(%q) = %q/%v, want %q/%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestGuessGender(t *testing.T) {
	cases := []struct {
		name string
		want Gender
	}{
		{"Иван", GenderMale},
		{"Ольга", GenderFemale},
		{"Anna", GenderFemale},
		{"Tomasz", GenderMale},
		{"", GenderMale},          // inconclusive defaults to male
		{"Xyzzy", GenderMale},     // unknown, no female ending
		{"Мария Петрова", GenderFemale}, // first name only
	}
	for _, c := range cases {
		if got := GuessGender(c.name); got != c.want {
			t.Errorf("GuessGender(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}
