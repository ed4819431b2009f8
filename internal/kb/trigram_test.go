package kb

import "testing"

func TestNormalizeQuestion(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Need a work visa??? 🙂", "need work visa"},
		{"HOW   much -- does it COST", "how much does cost"},
		{"дорого!!!", "дорого"},
		{"a in is", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeQuestion(c.in); got != c.want {
			t.Errorf("NormalizeQuestion(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTrigramSimilaritySelf(t *testing.T) {
	for _, s := range []string{"need work visa", "дорого", "one more question about salary"} {
		if got := TrigramSimilarity(s, s); got != 1 {
			t.Errorf("similarity(%q, itself) = %v, want 1", s, got)
		}
	}
}

func TestTrigramSimilaritySymmetricAndBounded(t *testing.T) {
	pairs := [][2]string{
		{"need a work visa in Czech Republic", "need work visa czech republic"},
		{"how much does it cost", "what is the weather"},
		{"salary expectations", ""},
		{"", ""},
	}
	for _, p := range pairs {
		ab := TrigramSimilarity(p[0], p[1])
		ba := TrigramSimilarity(p[1], p[0])
		if ab != ba {
			t.Errorf("similarity not symmetric for %q/%q: %v vs %v", p[0], p[1], ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Errorf("similarity(%q, %q) = %v, out of [0,1]", p[0], p[1], ab)
		}
	}
}

func TestTrigramSimilarityThresholdCases(t *testing.T) {
	stored := "need a work visa in Czech Republic"

	if got := TrigramSimilarity(stored, "need work visa czech republic"); got < AcceptThreshold {
		t.Errorf("punctuation/case/function-word variant = %v, want >= %v", got, AcceptThreshold)
	}
	if got := TrigramSimilarity(stored, "what is the weather like today"); got >= AcceptThreshold {
		t.Errorf("unrelated sentence = %v, want < %v", got, AcceptThreshold)
	}
}

func TestTrigramSimilarityEmpty(t *testing.T) {
	if got := TrigramSimilarity("", ""); got != 0 {
		t.Errorf("similarity of empties = %v, want 0", got)
	}
	if got := TrigramSimilarity("visa", ""); got != 0 {
		t.Errorf("similarity vs empty = %v, want 0", got)
	}
}
