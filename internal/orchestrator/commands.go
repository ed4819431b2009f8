package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/talentlinkco/recruitbot/internal/classify"
	"github.com/talentlinkco/recruitbot/internal/command"
	"github.com/talentlinkco/recruitbot/internal/lang"
	"github.com/talentlinkco/recruitbot/internal/store"
)

// handleCommand persists the inbound message tagged with the command
// kind, runs the handler and persists the reply under strategy "cmd".
// Command turns never fall through to classification.
func (o *Orchestrator) handleCommand(ctx context.Context, sess *store.Session,
	kind command.Kind, stripped, original string, userLang lang.Lang) (string, error) {
	inboundID, err := o.store.SaveMessage(ctx, store.SaveMessageParams{
		SessionID:       sess.ID,
		Role:            "user",
		Content:         original,
		OriginalContent: original,
		Lang:            userLang.String(),
		DisplayLang:     userLang.String(),
		Metadata:        map[string]any{"command": string(kind)},
	})
	if err != nil {
		return "", err
	}
	if _, err := o.store.IncrementTurn(ctx, sess.ID); err != nil {
		return "", err
	}

	var (
		reply    string
		kbItemID *int64
	)
	switch kind {
	case command.Teach:
		reply, kbItemID, err = o.handleTeach(ctx, sess, stripped, userLang)
	case command.Translate:
		reply, err = o.handleTranslate(ctx, stripped, userLang)
	case command.Objection:
		reply, kbItemID, err = o.handleObjection(ctx, userLang)
	default:
		err = fmt.Errorf("orchestrator: unhandled command kind %q", kind)
	}
	if err != nil {
		return "", err
	}
	text, err := o.respond(ctx, sess, userLang, reply, StrategyCmd, "", kbItemID, inboundID)
	if err != nil {
		return "", err
	}
	return text, nil
}

// handleTeach stores the supplied answer in the knowledge base under the
// last discussed category, keyed by the previous user utterance so the
// matcher can find it again. A missing payload degrades to a localized
// help reply, never an error.
func (o *Orchestrator) handleTeach(ctx context.Context, sess *store.Session,
	text string, userLang lang.Lang) (string, *int64, error) {
	r := repliesFor(userLang)
	payload, ok := command.ParseTeach(text)
	if !ok {
		return r.teachHelp, nil, nil
	}

	category := classify.General
	if cat, err := o.store.LastAuditCategory(ctx, sess.ID); err == nil {
		category, err = classify.ParseCategory(cat)
		if err != nil {
			return "", nil, err
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", nil, err
	}

	// The teach turn itself is the most recent user message; the one
	// before it is what the taught answer responds to.
	var question string
	if prev, err := o.store.GetPreviousUserUtterance(ctx, sess.ID); err == nil {
		question = prev.Content
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", nil, err
	}

	id, err := o.kb.InsertAnswer(ctx, category, lang.Canonical, payload, true, question)
	if err != nil {
		return "", nil, err
	}
	return r.teachConfirm, &id, nil
}

// handleTranslate produces a persuasive rendering in the target language
// plus a back-translation for bilingual display. Without an explicit
// target the text is translated into the canonical language.
func (o *Orchestrator) handleTranslate(ctx context.Context, text string, userLang lang.Lang) (string, error) {
	r := repliesFor(userLang)
	req, ok := command.ParseTranslate(text)
	if !ok {
		return r.translateHelp, nil
	}

	target := req.Target
	if target == "" {
		target = lang.Canonical
		if userLang == lang.Canonical {
			// Canonical-language user with no explicit target:
			// nothing sensible to translate into.
			return r.translateHelp, nil
		}
	}

	styled, err := o.canon.TranslateWithStyle(ctx, req.Text, target)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(styled.Styled)
	b.WriteString("\n\n")
	b.WriteString(styled.Back)
	if styled.Alt != "" {
		b.WriteString("\n\n")
		b.WriteString(styled.Alt)
		if styled.AltBack != "" {
			b.WriteString("\n")
			b.WriteString(styled.AltBack)
		}
	}
	return b.String(), nil
}

// handleObjection answers the price objection from taught variants under
// the expensive category, picked pseudo-randomly; the built-in rebuttal
// covers an empty knowledge base.
func (o *Orchestrator) handleObjection(ctx context.Context, userLang lang.Lang) (string, *int64, error) {
	items, err := o.store.KBActiveItems(ctx, classify.Expensive.String(), lang.Canonical.String())
	if err != nil {
		return "", nil, err
	}
	if len(items) == 0 {
		return repliesFor(userLang).objection, nil, nil
	}
	item := items[o.rnd.Intn(len(items))]
	answer, err := o.localizeAnswer(ctx, item.Answer, userLang)
	if err != nil {
		return "", nil, err
	}
	return answer, &item.ID, nil
}
