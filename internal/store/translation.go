package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetTranslation looks up a cached translation by its exact key.
func (s *Store) GetTranslation(ctx context.Context, sourceLang, targetLang, textHash string) (string, bool, error) {
	var translated string
	err := s.db.QueryRowContext(ctx, `
		SELECT translated FROM translation_cache
		WHERE source_lang = ? AND target_lang = ? AND text_hash = ?`,
		sourceLang, targetLang, textHash).Scan(&translated)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get translation: %w", err)
	}
	return translated, true, nil
}

// PutTranslation is insert-if-absent: a concurrent insert of the same key
// is harmless and the first writer wins.
func (s *Store) PutTranslation(ctx context.Context, sourceLang, targetLang, textHash, sourceText, translated string) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO translation_cache (source_lang, target_lang, text_hash, source_text, translated)
		VALUES (?, ?, ?, ?, ?)`,
		sourceLang, targetLang, textHash, sourceText, translated); err != nil {
		return fmt.Errorf("put translation: %w", err)
	}
	return nil
}
