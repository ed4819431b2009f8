package command

import (
	"testing"

	"github.com/talentlinkco/recruitbot/internal/lang"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
		ok   bool
	}{
		{"I would answer: thanks, let's proceed!", Teach, true},
		{"I'd answer sure thing", Teach, true},
		{"Я бы ответил: Спасибо, давай продолжим!", Teach, true},
		{"я бы ответила что всё в порядке", Teach, true},
		{"ответил бы я так: хорошо", Teach, true},
		{"odpowiedziałbym że tak", Teach, true},
		{"odpověděl bych ano", Teach, true},
		{"translate to polish: good morning", Translate, true},
		{"Переведи на английский: добрый день", Translate, true},
		{"przetłumacz: dzień dobry", Translate, true},
		{"answer the price objection", Objection, true},
		{"Ответь на возражение дорого", Objection, true},
		{"just a normal message", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		kind, ok := Detect(tc.in)
		if ok != tc.ok || kind != tc.kind {
			t.Errorf("Detect(%q) = (%q, %v), want (%q, %v)", tc.in, kind, ok, tc.kind, tc.ok)
		}
	}
}

func TestParseTeach(t *testing.T) {
	cases := []struct {
		in      string
		payload string
		ok      bool
	}{
		{"I would answer: Thanks, let's proceed!", "Thanks, let's proceed!", true},
		{"I would answer Thanks anyway", "Thanks anyway", true},
		{"Я бы ответил: Спасибо, давай продолжим!", "Спасибо, давай продолжим!", true},
		{"я бы ответила, что это нормально", "что это нормально", true},
		{"I would answer", "", false},
		{"я бы ответил:", "", false},
	}
	for _, tc := range cases {
		payload, ok := ParseTeach(tc.in)
		if ok != tc.ok || payload != tc.payload {
			t.Errorf("ParseTeach(%q) = (%q, %v), want (%q, %v)", tc.in, payload, ok, tc.payload, tc.ok)
		}
	}
}

func TestParseTeachKeepsCasing(t *testing.T) {
	payload, ok := ParseTeach("I WOULD ANSWER: We Start Monday")
	if !ok || payload != "We Start Monday" {
		t.Fatalf("ParseTeach = (%q, %v)", payload, ok)
	}
}

func TestParseTranslate(t *testing.T) {
	cases := []struct {
		in     string
		target lang.Lang
		text   string
		ok     bool
	}{
		{"translate to polish: good morning", lang.Polish, "good morning", true},
		{"translate into czech dobrý den please", lang.Czech, "dobrý den please", true},
		{"Переведи на английский: добрый день", lang.English, "добрый день", true},
		{"przetłumacz: dzień dobry", "", "dzień dobry", true},
		{"translate this sentence for me", "", "this sentence for me", true},
		{"translate", "", "", false},
		{"translate to polish", "", "", false},
	}
	for _, tc := range cases {
		req, ok := ParseTranslate(tc.in)
		if ok != tc.ok || req.Target != tc.target || req.Text != tc.text {
			t.Errorf("ParseTranslate(%q) = (%+v, %v), want ({%q %q}, %v)",
				tc.in, req, ok, tc.target, tc.text, tc.ok)
		}
	}
}
