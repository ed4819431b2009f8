package stage

import (
	"context"
	"strings"

	"github.com/talentlinkco/recruitbot/internal/lang"
	"github.com/talentlinkco/recruitbot/internal/store"
)

// Advice is the engine's proposed next message for a session.
type Advice struct {
	Text  string
	Stage Stage
}

// Engine drives the discovery script. All ask bookkeeping goes through
// the store's atomic upsert-increment, so invoking Advise twice for a
// duplicate-delivered turn increments each counter once per delivery and
// never skips ahead.
type Engine struct {
	store *store.Store
}

func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// Advise returns the scripted message for the session's current stage.
// ok is false once the session is in free dialogue and the engine has no
// opinion; the caller falls back to KB or the generative chain.
func (e *Engine) Advise(ctx context.Context, sess *store.Session, l lang.Lang) (Advice, bool, error) {
	st, err := Parse(sess.Stage)
	if err != nil {
		return Advice{}, false, err
	}
	p := promptsFor(l)

	// Stage handlers may advance and fall through to the next stage in
	// the same turn, so loop instead of recursing.
	for {
		switch st {
		case Intro:
			adv, done, err := e.adviseIntro(ctx, sess, p)
			if err != nil {
				return Advice{}, false, err
			}
			if done {
				adv.Stage = Intro
				return adv, true, nil
			}
			if _, err := e.store.AdvanceStage(ctx, sess.ID, Intro.String(), Discovery.String()); err != nil {
				return Advice{}, false, err
			}
			st = Discovery

		case Discovery:
			adv, done, err := e.adviseDiscovery(ctx, sess, p)
			if err != nil {
				return Advice{}, false, err
			}
			if done {
				adv.Stage = Discovery
				return adv, true, nil
			}
			if _, err := e.store.AdvanceStage(ctx, sess.ID, Discovery.String(), Specifics.String()); err != nil {
				return Advice{}, false, err
			}
			st = Specifics

		case Specifics:
			asked, err := e.store.Asked(ctx, sess.ID)
			if err != nil {
				return Advice{}, false, err
			}
			if asked[KeySpecifics] == 0 {
				if n, err := e.store.MarkAsked(ctx, sess.ID, KeySpecifics); err != nil {
					return Advice{}, false, err
				} else if n == 1 {
					return Advice{Text: p.askSpecifics, Stage: Specifics}, true, nil
				}
			}
			if _, err := e.store.AdvanceStage(ctx, sess.ID, Specifics.String(), Open.String()); err != nil {
				return Advice{}, false, err
			}
			st = Open

		default: // Open: free dialogue, no opinion.
			return Advice{}, false, nil
		}
	}
}

// adviseIntro greets once and asks for the name up to maxNameAttempts.
// done=false means the intro is exhausted and the session should move on.
func (e *Engine) adviseIntro(ctx context.Context, sess *store.Session, p promptSet) (Advice, bool, error) {
	asked, err := e.store.Asked(ctx, sess.ID)
	if err != nil {
		return Advice{}, false, err
	}

	var parts []string
	if asked[KeyGreeting] == 0 {
		if n, err := e.store.MarkAsked(ctx, sess.ID, KeyGreeting); err != nil {
			return Advice{}, false, err
		} else if n == 1 {
			parts = append(parts, p.greeting)
		}
	}
	if sess.Name == "" && asked[KeyName] < maxNameAttempts {
		if n, err := e.store.MarkAsked(ctx, sess.ID, KeyName); err != nil {
			return Advice{}, false, err
		} else if n <= maxNameAttempts {
			parts = append(parts, p.askName)
		}
	}
	if len(parts) == 0 {
		return Advice{}, false, nil
	}
	return Advice{Text: strings.Join(parts, " ")}, true, nil
}

// adviseDiscovery asks never-asked missing facts in one batched message,
// nudges when every missing fact was already asked, and shows the demo
// message once when nothing is missing. done=false hands over to
// specifics.
func (e *Engine) adviseDiscovery(ctx context.Context, sess *store.Session, p promptSet) (Advice, bool, error) {
	asked, err := e.store.Asked(ctx, sess.ID)
	if err != nil {
		return Advice{}, false, err
	}

	type fact struct {
		key      string
		missing  bool
		question string
	}
	facts := []fact{
		{KeyCountry, sess.Country == "", p.askCountry},
		{KeyRole, sess.Role == "" && sess.Intent == "", p.askRole},
		{KeyCandidates, sess.Candidates == "", p.askCandidates},
	}

	var questions []string
	anyMissing := false
	for _, f := range facts {
		if !f.missing {
			continue
		}
		anyMissing = true
		if asked[f.key] > 0 {
			continue
		}
		if n, err := e.store.MarkAsked(ctx, sess.ID, f.key); err != nil {
			return Advice{}, false, err
		} else if n == 1 {
			questions = append(questions, f.question)
		}
	}
	if len(questions) > 0 {
		return Advice{Text: strings.Join(questions, " ")}, true, nil
	}
	if anyMissing {
		// Everything missing was already asked; nudge without
		// consuming a fresh ask.
		return Advice{Text: p.reminder}, true, nil
	}

	if asked[KeyDemo] == 0 {
		if n, err := e.store.MarkAsked(ctx, sess.ID, KeyDemo); err != nil {
			return Advice{}, false, err
		} else if n == 1 {
			return Advice{Text: p.demo}, true, nil
		}
	}
	return Advice{}, false, nil
}
