package kb

import (
	"context"
	"fmt"

	"github.com/talentlinkco/recruitbot/internal/classify"
	"github.com/talentlinkco/recruitbot/internal/lang"
	"github.com/talentlinkco/recruitbot/internal/store"
)

// AcceptThreshold is the hard similarity floor: anything below it is a
// miss, never a degraded match.
const AcceptThreshold = 0.90

type Matcher struct {
	store *store.Store
}

func NewMatcher(s *store.Store) *Matcher {
	return &Matcher{store: s}
}

// Find returns the closest taught answer for (category, language), or nil.
// Without a question it returns nil unconditionally: category-only lookup
// is disabled so stale generic answers cannot resurface. Among candidates
// with equal similarity the lowest item id wins (insert order).
func (m *Matcher) Find(ctx context.Context, category classify.Category, language lang.Lang, question string) (*store.KBItem, error) {
	if NormalizeQuestion(question) == "" {
		return nil, nil
	}

	items, err := m.store.KBActiveItems(ctx, category.String(), language.String())
	if err != nil {
		return nil, fmt.Errorf("kb find: %w", err)
	}

	var best *store.KBItem
	bestScore := 0.0
	for i := range items {
		score := TrigramSimilarity(question, items[i].Question)
		if best == nil || score > bestScore {
			best = &items[i]
			bestScore = score
		}
	}
	if best == nil || bestScore < AcceptThreshold {
		return nil, nil
	}
	return best, nil
}

// InsertAnswer stores a taught answer keyed by the normalized prior
// question.
func (m *Matcher) InsertAnswer(ctx context.Context, category classify.Category, language lang.Lang, answer string, active bool, question string) (int64, error) {
	id, err := m.store.KBInsertAnswer(ctx, category.String(), language.String(), answer, active, NormalizeQuestion(question))
	if err != nil {
		return 0, fmt.Errorf("kb insert: %w", err)
	}
	return id, nil
}
