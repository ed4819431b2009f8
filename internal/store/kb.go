package store

import (
	"context"
	"fmt"
)

type KBItem struct {
	ID       int64
	Category string
	Lang     string
	Question string
	Answer   string
	Active   bool
}

// KBActiveItems returns active items for (category, lang) in insert
// order, which the matcher relies on for its deterministic tie-break.
func (s *Store) KBActiveItems(ctx context.Context, category, lang string) ([]KBItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, lang, question, answer, active
		FROM kb_items WHERE category = ? AND lang = ? AND active = 1
		ORDER BY id`, category, lang)
	if err != nil {
		return nil, fmt.Errorf("kb items: %w", err)
	}
	defer rows.Close()

	var items []KBItem
	for rows.Next() {
		var it KBItem
		if err := rows.Scan(&it.ID, &it.Category, &it.Lang, &it.Question, &it.Answer, &it.Active); err != nil {
			return nil, fmt.Errorf("scan kb item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) KBInsertAnswer(ctx context.Context, category, lang, answer string, active bool, question string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO kb_items (category, lang, question, answer, active)
		VALUES (?, ?, ?, ?, ?)`, category, lang, question, answer, active)
	if err != nil {
		return 0, fmt.Errorf("kb insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("kb insert id: %w", err)
	}
	return id, nil
}
