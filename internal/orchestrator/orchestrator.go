package orchestrator

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/talentlinkco/recruitbot/internal/classify"
	"github.com/talentlinkco/recruitbot/internal/command"
	"github.com/talentlinkco/recruitbot/internal/kb"
	"github.com/talentlinkco/recruitbot/internal/lang"
	"github.com/talentlinkco/recruitbot/internal/llm"
	"github.com/talentlinkco/recruitbot/internal/stage"
	"github.com/talentlinkco/recruitbot/internal/store"
	"github.com/talentlinkco/recruitbot/internal/textutil"
)

// Reply strategies recorded in the audit trail.
const (
	StrategyCmd             = "cmd"
	StrategyAskName         = "ask_name"
	StrategyStage           = "stage"
	StrategyIntroOnce       = "intro_once"
	StrategyKBHit           = "kb_hit"
	StrategyGeneralVariants = "general_variants"
	StrategyFallbackLLM     = "fallback_llm"
)

// recentWindow bounds the message context handed to the generative
// fallback.
const recentWindow = 12

// Orchestrator resolves one inbound turn into at most one reply,
// short-circuiting at the first applicable branch: command, name
// precheck, knowledge base, discovery script, canned fillers, generative
// fallback.
type Orchestrator struct {
	store      *store.Store
	llm        llm.Client
	canon      *lang.Canonicalizer
	kb         *kb.Matcher
	classifier *classify.Classifier
	stages     *stage.Engine
	rnd        *rand.Rand
	logger     *log.Logger
}

func New(st *store.Store, client llm.Client, canon *lang.Canonicalizer, matcher *kb.Matcher,
	classifier *classify.Classifier, stages *stage.Engine, rnd *rand.Rand) *Orchestrator {
	return &Orchestrator{
		store:      st,
		llm:        client,
		canon:      canon,
		kb:         matcher,
		classifier: classifier,
		stages:     stages,
		rnd:        rnd,
		logger:     log.New(log.Writer(), "[orchestrator] ", log.LstdFlags),
	}
}

// HandleIncoming resolves one inbound message to a reply in the user's
// language. A fatal model or storage error returns "" with the error and
// produces no assistant message; the inbound message is persisted before
// any fallible classification work, so retrying the same turn is safe.
func (o *Orchestrator) HandleIncoming(ctx context.Context, sessionKey, channel, rawText, langHint string) (string, error) {
	sessionID, err := o.store.UpsertSession(ctx, sessionKey, channel)
	if err != nil {
		return "", err
	}
	sess, err := o.store.GetSession(ctx, sessionID)
	if err != nil {
		return "", err
	}

	// Quoted-reply context is dropped from the raw text first:
	// Normalize folds newlines into spaces, so the line-based stripper
	// has to run before it.
	stripped := textutil.Normalize(textutil.StripQuoted(rawText))
	norm := textutil.Normalize(rawText)
	userLang, err := o.userLang(ctx, norm, langHint, sess.Locale)
	if err != nil {
		return "", err
	}

	// Commands are idiom-specific, so they are detected on the
	// quote-stripped original, never on canonicalized text.
	if kind, ok := command.Detect(stripped); ok {
		return o.handleCommand(ctx, sess, kind, stripped, norm, userLang)
	}

	if err := o.captureContact(ctx, sess, norm, userLang); err != nil {
		return "", err
	}

	cz, err := o.canon.ToCanonical(ctx, norm)
	if err != nil {
		return "", err
	}
	inboundID, err := o.store.SaveMessage(ctx, store.SaveMessageParams{
		SessionID:       sess.ID,
		Role:            "user",
		Content:         cz.Canonical,
		OriginalContent: cz.Original,
		Lang:            cz.Source.String(),
		DisplayLang:     userLang.String(),
	})
	if err != nil {
		return "", err
	}
	turn, err := o.store.IncrementTurn(ctx, sess.ID)
	if err != nil {
		return "", err
	}
	if err := o.captureFacts(ctx, sess, cz.Canonical); err != nil {
		return "", err
	}

	// Contact capture before substantive reply: while the session is in
	// intro without a name, the discovery script's greeting/name ask
	// takes priority over classification.
	if sess.Name == "" && sess.Stage == stage.Intro.String() {
		adv, ok, err := o.stages.Advise(ctx, sess, userLang)
		if err != nil {
			return "", err
		}
		if ok {
			strategy := StrategyStage
			if adv.Stage == stage.Intro {
				strategy = StrategyAskName
			}
			return o.respond(ctx, sess, userLang, adv.Text, strategy, "", nil, inboundID)
		}
	}

	category := o.classifier.Classify(cz.Canonical)

	item, err := o.kb.Find(ctx, category, lang.Canonical, cz.Canonical)
	if err != nil {
		return "", err
	}
	if item != nil {
		answer, err := o.localizeAnswer(ctx, item.Answer, userLang)
		if err != nil {
			return "", err
		}
		return o.respond(ctx, sess, userLang, answer, StrategyKBHit, category.String(), &item.ID, inboundID)
	}

	if adv, ok, err := o.stages.Advise(ctx, sess, userLang); err != nil {
		return "", err
	} else if ok {
		return o.respond(ctx, sess, userLang, adv.Text, StrategyStage, category.String(), nil, inboundID)
	}

	r := repliesFor(userLang)
	if category == classify.General {
		if turn-1 < 2 {
			return o.respond(ctx, sess, userLang, r.introOnce, StrategyIntroOnce, category.String(), nil, inboundID)
		}
		text := r.generalVariants[o.rnd.Intn(len(r.generalVariants))]
		if h := honorific(userLang, sess.Name); h != "" {
			text = h + ", " + text
		}
		return o.respond(ctx, sess, userLang, text, StrategyGeneralVariants, category.String(), nil, inboundID)
	}

	text, err := o.generativeFallback(ctx, sess, userLang)
	if err != nil {
		return "", err
	}
	return o.respond(ctx, sess, userLang, text, StrategyFallbackLLM, category.String(), nil, inboundID)
}

// userLang resolves the display language: explicit transport hint first,
// then the stored locale, then model detection.
func (o *Orchestrator) userLang(ctx context.Context, text, hint, locale string) (lang.Lang, error) {
	if l, ok := lang.ParseHint(hint); ok {
		return l, nil
	}
	if l, ok := lang.ParseHint(locale); ok {
		return l, nil
	}
	return o.canon.Detect(ctx, text)
}

// captureContact extracts name/phone from the raw text and upserts only
// what was found; it also records the detected language as the locale on
// first contact. Failed extraction never clears stored values.
func (o *Orchestrator) captureContact(ctx context.Context, sess *store.Session, text string, userLang lang.Lang) error {
	var upd store.ContactUpdate
	if name, ok := textutil.ExtractName(text); ok && sess.Name == "" {
		upd.Name = &name
		sess.Name = name
	}
	if phone, ok := textutil.ExtractPhone(text); ok && sess.Phone == "" {
		upd.Phone = &phone
		sess.Phone = phone
	}
	if sess.Locale == "" {
		locale := userLang.String()
		upd.Locale = &locale
		sess.Locale = locale
	}
	if upd.Name == nil && upd.Phone == nil && upd.Locale == nil {
		return nil
	}
	return o.store.UpdateContact(ctx, sess.ID, upd)
}

// localizeAnswer returns a taught answer in the user's language. Answers
// are stored verbatim as taught, so the stored language has to be
// detected before deciding whether to translate.
func (o *Orchestrator) localizeAnswer(ctx context.Context, answer string, userLang lang.Lang) (string, error) {
	answerLang, err := o.canon.Detect(ctx, answer)
	if err != nil {
		return "", err
	}
	if answerLang == userLang {
		return answer, nil
	}
	tr, err := o.canon.TranslateCached(ctx, answer, answerLang, userLang)
	if err != nil {
		return "", err
	}
	return tr.Text, nil
}

const fallbackSystemPrompt = "You are a recruitment agency assistant talking to an employer. " +
	"Answer briefly and concretely in %s, using the conversation so far. " +
	"Stay within recruitment topics: candidates, terms, documents, salary, cooperation."

// generativeFallback answers from the recent message window plus the
// latest summary through the model chain, translating the output when the
// model ignored the language instruction.
func (o *Orchestrator) generativeFallback(ctx context.Context, sess *store.Session, userLang lang.Lang) (string, error) {
	messages := []llm.Message{{
		Role:    "system",
		Content: fmt.Sprintf(fallbackSystemPrompt, userLang.DisplayName()),
	}}
	if summary, err := o.store.LoadLatestSummary(ctx, sess.ID); err == nil && summary != "" {
		messages = append(messages, llm.Message{Role: "system", Content: "Conversation summary so far: " + summary})
	}
	recent, err := o.store.LoadRecentMessages(ctx, sess.ID, recentWindow)
	if err != nil {
		return "", err
	}
	for _, m := range recent {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	res, err := o.llm.Run(ctx, messages, llm.Params{Temperature: 0.6, TopP: 1, MaxTokens: 500})
	if err != nil {
		return "", err
	}
	text := res.Text
	got, err := o.canon.Detect(ctx, text)
	if err != nil {
		return "", err
	}
	if got != userLang {
		tr, err := o.canon.TranslateCached(ctx, text, got, userLang)
		if err != nil {
			return "", err
		}
		text = tr.Text
	}
	return text, nil
}

// respond persists the outbound message, logs the audit row best-effort
// and returns the user-facing text.
func (o *Orchestrator) respond(ctx context.Context, sess *store.Session, userLang lang.Lang,
	text, strategy, category string, kbItemID *int64, inboundID int64) (string, error) {
	outID, err := o.store.SaveMessage(ctx, store.SaveMessageParams{
		SessionID:   sess.ID,
		Role:        "assistant",
		Content:     text,
		Lang:        userLang.String(),
		DisplayLang: userLang.String(),
		Category:    category,
	})
	if err != nil {
		return "", err
	}
	audit := store.ReplyAudit{
		SessionID: sess.ID,
		Strategy:  strategy,
		Category:  category,
		KBItemID:  kbItemID,
		MessageID: &outID,
	}
	if inboundID != 0 {
		audit.Notes = fmt.Sprintf("inbound_message_id=%d", inboundID)
	}
	if err := o.store.LogReply(ctx, audit); err != nil {
		o.logger.Printf("audit write failed for session %d: %v", sess.ID, err)
	}
	return text, nil
}
