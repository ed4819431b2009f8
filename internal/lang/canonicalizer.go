package lang

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/talentlinkco/recruitbot/internal/config"
	"github.com/talentlinkco/recruitbot/internal/llm"
)

const (
	detectPrompt = `Identify the language of the text below.
Answer with exactly one code from this list and nothing else: en, ru, uk, pl, cs.

Text:
%s`

	translatePrompt = `Translate the text below from %s to %s.
Be faithful: keep meaning, names, numbers and tone; add nothing.
Answer with the translation only.

Text:
%s`

	stylePrompt = `Rewrite the text below in %s as a persuasive reply from a recruitment agency.
Use 1-4 sentences and at most two rhetorical techniques.
Return a strict JSON object:
{"styled":"...","back":"...","alt":"...","altBack":"..."}
where "back" is a faithful %s back-translation of "styled",
"alt" is an optional alternative phrasing (empty string if none),
and "altBack" is its %s back-translation (empty when "alt" is empty).

Text:
%s`
)

// TranslationCache is the persistent (text, source, target) keyed cache.
type TranslationCache interface {
	GetTranslation(ctx context.Context, sourceLang, targetLang, textHash string) (string, bool, error)
	PutTranslation(ctx context.Context, sourceLang, targetLang, textHash, sourceText, translated string) error
}

type Canonicalized struct {
	Canonical string
	Source    Lang
	Original  string
}

type Translation struct {
	Text   string
	Cached bool
}

type Styled struct {
	Styled  string
	Back    string
	Alt     string
	AltBack string
}

type Canonicalizer struct {
	llm    llm.Client
	cache  TranslationCache
	params llm.Params
}

func NewCanonicalizer(client llm.Client, cache TranslationCache, cfg *config.Config) *Canonicalizer {
	return &Canonicalizer{
		llm:   client,
		cache: cache,
		params: llm.Params{
			Temperature: 0.2,
			MaxTokens:   cfg.Models.MaxTokens,
		},
	}
}

// Detect asks the model for the language under a constrained prompt; any
// out-of-set or empty answer defaults to the canonical language. A call
// that fails after the model chain is exhausted is an error, not a
// default: assuming the canonical language on failure would let
// wrong-language text pass through canonicalization unchanged.
func (c *Canonicalizer) Detect(ctx context.Context, text string) (Lang, error) {
	if strings.TrimSpace(text) == "" {
		return Canonical, nil
	}
	res, err := c.llm.Run(ctx, []llm.Message{
		{Role: "user", Content: fmt.Sprintf(detectPrompt, text)},
	}, c.params)
	if err != nil {
		return Canonical, fmt.Errorf("detect language: %w", err)
	}
	code := strings.ToLower(strings.Trim(strings.TrimSpace(res.Text), "\"'.`"))
	if l, err := Parse(code); err == nil {
		return l, nil
	}
	return Canonical, nil
}

// ToCanonical returns the text in the canonical language together with
// the detected source. Already-canonical text passes through unchanged.
func (c *Canonicalizer) ToCanonical(ctx context.Context, text string) (Canonicalized, error) {
	source, err := c.Detect(ctx, text)
	if err != nil {
		return Canonicalized{}, err
	}
	if source == Canonical {
		return Canonicalized{Canonical: text, Source: source, Original: text}, nil
	}
	tr, err := c.TranslateCached(ctx, text, source, Canonical)
	if err != nil {
		return Canonicalized{}, err
	}
	return Canonicalized{Canonical: tr.Text, Source: source, Original: text}, nil
}

// TranslateCached translates through the persistent cache. Identity
// requests (same languages, or empty text) short-circuit without any
// store access. Cache writes are best effort.
func (c *Canonicalizer) TranslateCached(ctx context.Context, text string, from, to Lang) (Translation, error) {
	if from == to || strings.TrimSpace(text) == "" {
		return Translation{Text: text, Cached: true}, nil
	}

	hash := contentHash(text)
	if cached, hit, err := c.cache.GetTranslation(ctx, from.String(), to.String(), hash); err != nil {
		log.Printf("[lang] cache read failed, translating directly: %v", err)
	} else if hit {
		return Translation{Text: cached, Cached: true}, nil
	}

	res, err := c.llm.Run(ctx, []llm.Message{
		{Role: "user", Content: fmt.Sprintf(translatePrompt, from.DisplayName(), to.DisplayName(), text)},
	}, c.params)
	if err != nil {
		return Translation{}, fmt.Errorf("translate %s->%s: %w", from, to, err)
	}

	if err := c.cache.PutTranslation(ctx, from.String(), to.String(), hash, text, res.Text); err != nil {
		log.Printf("[lang] cache write failed: %v", err)
	}
	return Translation{Text: res.Text, Cached: false}, nil
}

// TranslateWithStyle produces a persuasive register-adjusted rendering in
// the target language plus a mandatory back-translation for bilingual
// display. The alternative phrasing is optional; empty means none.
func (c *Canonicalizer) TranslateWithStyle(ctx context.Context, text string, to Lang) (Styled, error) {
	back := Canonical.DisplayName()
	res, err := c.llm.Run(ctx, []llm.Message{
		{Role: "user", Content: fmt.Sprintf(stylePrompt, to.DisplayName(), back, back, text)},
	}, llm.Params{Temperature: 0.7, MaxTokens: c.params.MaxTokens})
	if err != nil {
		return Styled{}, fmt.Errorf("styled translate to %s: %w", to, err)
	}

	raw := res.Text
	if i, j := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); i >= 0 && j > i {
		raw = raw[i : j+1]
	}
	var decoded struct {
		Styled  string `json:"styled"`
		Back    string `json:"back"`
		Alt     string `json:"alt"`
		AltBack string `json:"altBack"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return Styled{}, fmt.Errorf("parse styled translation: %w", err)
	}
	if strings.TrimSpace(decoded.Styled) == "" || strings.TrimSpace(decoded.Back) == "" {
		return Styled{}, fmt.Errorf("styled translation missing styled/back text")
	}
	return Styled(decoded), nil
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
