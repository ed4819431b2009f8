package textutil

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"tabs\tand\nnewlines", "tabs and newlines"},
		{"«кавычки» and “quotes” and ‘single’", `"кавычки" and "quotes" and 'single'`},
		{"", ""},
		{" nbsp run ", "nbsp run"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFold(t *testing.T) {
	if got := Fold("  HeLLo   WORLD "); got != "hello world" {
		t.Errorf("Fold = %q, want %q", got, "hello world")
	}
}

func TestStripQuoted(t *testing.T) {
	in := "my own words\n\n> quoted line\nFrom: someone@example.com\nOn Monday, Bob wrote:\nmore of my words"
	want := "my own words\nmore of my words"
	if got := StripQuoted(in); got != want {
		t.Errorf("StripQuoted = %q, want %q", got, want)
	}
}

func TestStripQuotedAllQuoted(t *testing.T) {
	if got := StripQuoted("> a\n> b"); got != "" {
		t.Errorf("StripQuoted = %q, want empty", got)
	}
}
