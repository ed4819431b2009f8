package lang

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/talentlinkco/recruitbot/internal/config"
	"github.com/talentlinkco/recruitbot/internal/llm"
)

type fakeLLM struct {
	fn    func(prompt string) (string, error)
	calls int
	mu    sync.Mutex
}

func (f *fakeLLM) Run(_ context.Context, messages []llm.Message, _ llm.Params) (llm.Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	text, err := f.fn(messages[len(messages)-1].Content)
	if err != nil {
		return llm.Result{}, err
	}
	return llm.Result{Model: "fake", Text: text}, nil
}

type memCache struct {
	mu      sync.Mutex
	rows    map[string]string
	gets    int
	puts    int
	putFail bool
}

func newMemCache() *memCache { return &memCache{rows: make(map[string]string)} }

func (m *memCache) GetTranslation(_ context.Context, from, to, hash string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	v, ok := m.rows[from+"|"+to+"|"+hash]
	return v, ok, nil
}

func (m *memCache) PutTranslation(_ context.Context, from, to, hash, _, translated string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putFail {
		return errors.New("disk full")
	}
	key := from + "|" + to + "|" + hash
	if _, exists := m.rows[key]; !exists {
		m.rows[key] = translated
	}
	return nil
}

func newTestCanonicalizer(client llm.Client, cache TranslationCache) *Canonicalizer {
	return NewCanonicalizer(client, cache, config.DefaultConfig())
}

func TestParse(t *testing.T) {
	for _, code := range []string{"en", "ru", "uk", "pl", "cs"} {
		if _, err := Parse(code); err != nil {
			t.Errorf("Parse(%q) error: %v", code, err)
		}
	}
	for _, code := range []string{"", "de", "EN", "english"} {
		if _, err := Parse(code); err == nil {
			t.Errorf("Parse(%q) should fail", code)
		}
	}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		model string
		want  Lang
	}{
		{"ru", Russian},
		{" pl \n", Polish},
		{`"cs"`, Czech},
		{"klingon", Canonical}, // out-of-set defaults to canonical
		{"", Canonical},
	}
	for _, c := range cases {
		f := &fakeLLM{fn: func(string) (string, error) { return c.model, nil }}
		canon := newTestCanonicalizer(f, newMemCache())
		got, err := canon.Detect(context.Background(), "какой-то текст")
		if err != nil {
			t.Fatalf("Detect error: %v", err)
		}
		if got != c.want {
			t.Errorf("Detect with model output %q = %v, want %v", c.model, got, c.want)
		}
	}
}

func TestDetectEmptyTextSkipsModel(t *testing.T) {
	f := &fakeLLM{fn: func(string) (string, error) { t.Fatal("model must not be called"); return "", nil }}
	canon := newTestCanonicalizer(f, newMemCache())
	got, err := canon.Detect(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if got != Canonical {
		t.Errorf("Detect = %v, want canonical", got)
	}
}

func TestDetectModelFailurePropagates(t *testing.T) {
	f := &fakeLLM{fn: func(string) (string, error) { return "", llm.ErrModelUnavailable }}
	canon := newTestCanonicalizer(f, newMemCache())
	if _, err := canon.Detect(context.Background(), "jakie są warunki współpracy?"); !errors.Is(err, llm.ErrModelUnavailable) {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}
}

func TestToCanonicalFailsWhenDetectFails(t *testing.T) {
	f := &fakeLLM{fn: func(string) (string, error) { return "", llm.ErrModelUnavailable }}
	canon := newTestCanonicalizer(f, newMemCache())

	// Wrong-language text must never be stored as canonical just
	// because detection could not run.
	if _, err := canon.ToCanonical(context.Background(), "jakie są warunki współpracy?"); !errors.Is(err, llm.ErrModelUnavailable) {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}
}

func TestTranslateCachedIdentityShortCircuit(t *testing.T) {
	cache := newMemCache()
	f := &fakeLLM{fn: func(string) (string, error) { t.Fatal("model must not be called"); return "", nil }}
	canon := newTestCanonicalizer(f, cache)

	tr, err := canon.TranslateCached(context.Background(), "any text", Russian, Russian)
	if err != nil {
		t.Fatalf("TranslateCached error: %v", err)
	}
	if tr.Text != "any text" || !tr.Cached {
		t.Errorf("identity = %+v, want same text, cached", tr)
	}
	if cache.gets != 0 || cache.puts != 0 {
		t.Errorf("store accessed %d/%d times on identity translation", cache.gets, cache.puts)
	}

	// Empty text short-circuits too.
	tr, err = canon.TranslateCached(context.Background(), "  ", Russian, English)
	if err != nil || !tr.Cached {
		t.Errorf("empty text = %+v/%v, want cached pass-through", tr, err)
	}
}

func TestTranslateCachedMissThenHit(t *testing.T) {
	cache := newMemCache()
	f := &fakeLLM{fn: func(string) (string, error) { return "hello", nil }}
	canon := newTestCanonicalizer(f, cache)

	tr, err := canon.TranslateCached(context.Background(), "привет", Russian, English)
	if err != nil {
		t.Fatalf("TranslateCached error: %v", err)
	}
	if tr.Text != "hello" || tr.Cached {
		t.Errorf("first call = %+v, want fresh translation", tr)
	}

	tr, err = canon.TranslateCached(context.Background(), "привет", Russian, English)
	if err != nil {
		t.Fatalf("TranslateCached error: %v", err)
	}
	if tr.Text != "hello" || !tr.Cached {
		t.Errorf("second call = %+v, want cache hit", tr)
	}
	if f.calls != 1 {
		t.Errorf("model called %d times, want 1", f.calls)
	}
}

func TestTranslateCachedConcurrentSameKey(t *testing.T) {
	cache := newMemCache()
	f := &fakeLLM{fn: func(string) (string, error) { return "hello", nil }}
	canon := newTestCanonicalizer(f, cache)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := canon.TranslateCached(context.Background(), "привет", Russian, English); err != nil {
				t.Errorf("TranslateCached error: %v", err)
			}
		}()
	}
	wg.Wait()

	// Exactly one row for the key, regardless of which call inserted it.
	if len(cache.rows) != 1 {
		t.Errorf("cache rows = %d, want 1", len(cache.rows))
	}
	tr, err := canon.TranslateCached(context.Background(), "привет", Russian, English)
	if err != nil || tr.Text != "hello" {
		t.Errorf("read-back = %+v/%v", tr, err)
	}
}

func TestTranslateCachedWriteFailureSwallowed(t *testing.T) {
	cache := newMemCache()
	cache.putFail = true
	f := &fakeLLM{fn: func(string) (string, error) { return "hello", nil }}
	canon := newTestCanonicalizer(f, cache)

	tr, err := canon.TranslateCached(context.Background(), "привет", Russian, English)
	if err != nil {
		t.Fatalf("cache write failure must not fail translation: %v", err)
	}
	if tr.Text != "hello" {
		t.Errorf("text = %q", tr.Text)
	}
}

func TestTranslateCachedModelFailurePropagates(t *testing.T) {
	f := &fakeLLM{fn: func(string) (string, error) { return "", llm.ErrModelUnavailable }}
	canon := newTestCanonicalizer(f, newMemCache())
	if _, err := canon.TranslateCached(context.Background(), "привет", Russian, English); !errors.Is(err, llm.ErrModelUnavailable) {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}
}

func TestToCanonical(t *testing.T) {
	f := &fakeLLM{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Identify the language") {
			return "ru", nil
		}
		return "good afternoon", nil
	}}
	canon := newTestCanonicalizer(f, newMemCache())

	got, err := canon.ToCanonical(context.Background(), "добрый день")
	if err != nil {
		t.Fatalf("ToCanonical error: %v", err)
	}
	if got.Canonical != "good afternoon" || got.Source != Russian || got.Original != "добрый день" {
		t.Errorf("ToCanonical = %+v", got)
	}
}

func TestToCanonicalIdentity(t *testing.T) {
	f := &fakeLLM{fn: func(string) (string, error) { return "en", nil }}
	canon := newTestCanonicalizer(f, newMemCache())

	got, err := canon.ToCanonical(context.Background(), "already english")
	if err != nil {
		t.Fatalf("ToCanonical error: %v", err)
	}
	if got.Canonical != "already english" || got.Source != English {
		t.Errorf("ToCanonical = %+v, want unchanged", got)
	}
	if f.calls != 1 {
		t.Errorf("model called %d times, want detection only", f.calls)
	}
}

func TestTranslateWithStyle(t *testing.T) {
	f := &fakeLLM{fn: func(string) (string, error) {
		return `{"styled":"Dzień dobry!","back":"Good morning!","alt":"","altBack":""}`, nil
	}}
	canon := newTestCanonicalizer(f, newMemCache())

	got, err := canon.TranslateWithStyle(context.Background(), "good morning", Polish)
	if err != nil {
		t.Fatalf("TranslateWithStyle error: %v", err)
	}
	if got.Styled != "Dzień dobry!" || got.Back != "Good morning!" {
		t.Errorf("styled = %+v", got)
	}
	if got.Alt != "" {
		t.Errorf("alt = %q, empty string is the no-alternative signal", got.Alt)
	}
}

func TestTranslateWithStyleTolerantParse(t *testing.T) {
	f := &fakeLLM{fn: func(string) (string, error) {
		return "Sure, here it is:\n{\"styled\":\"s\",\"back\":\"b\",\"alt\":\"a\",\"altBack\":\"ab\"}", nil
	}}
	canon := newTestCanonicalizer(f, newMemCache())

	got, err := canon.TranslateWithStyle(context.Background(), "x", Czech)
	if err != nil {
		t.Fatalf("TranslateWithStyle error: %v", err)
	}
	if got.Alt != "a" || got.AltBack != "ab" {
		t.Errorf("styled = %+v", got)
	}
}

func TestTranslateWithStyleMissingBack(t *testing.T) {
	f := &fakeLLM{fn: func(string) (string, error) {
		return `{"styled":"s","back":""}`, nil
	}}
	canon := newTestCanonicalizer(f, newMemCache())
	if _, err := canon.TranslateWithStyle(context.Background(), "x", Czech); err == nil {
		t.Fatal("expected error when back-translation is missing")
	}
}

func TestContentHashStable(t *testing.T) {
	if contentHash("a") != contentHash("a") {
		t.Error("hash not stable")
	}
	if contentHash("a") == contentHash("b") {
		t.Error("hash collision on trivially different inputs")
	}
	if len(contentHash(fmt.Sprintf("%d", 42))) != 64 {
		t.Error("expected hex sha256")
	}
}
