package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type ReplyAudit struct {
	ID        string
	SessionID int64
	Strategy  string
	Category  string
	KBItemID  *int64
	MessageID *int64
	Notes     string
}

// LogReply appends one audit row per produced reply.
func (s *Store) LogReply(ctx context.Context, a ReplyAudit) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO reply_audit (id, session_id, strategy, category, kb_item_id, message_id, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.SessionID, a.Strategy, a.Category, a.KBItemID, a.MessageID, a.Notes); err != nil {
		return fmt.Errorf("log reply: %w", err)
	}
	return nil
}

// LastReplyAudit returns the newest audit row for a session.
func (s *Store) LastReplyAudit(ctx context.Context, sessionID int64) (ReplyAudit, error) {
	var a ReplyAudit
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, strategy, category, kb_item_id, message_id, notes
		FROM reply_audit WHERE session_id = ?
		ORDER BY rowid DESC LIMIT 1`, sessionID).Scan(
		&a.ID, &a.SessionID, &a.Strategy, &a.Category, &a.KBItemID, &a.MessageID, &a.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return ReplyAudit{}, fmt.Errorf("last reply audit: %w", ErrNotFound)
	}
	if err != nil {
		return ReplyAudit{}, fmt.Errorf("last reply audit: %w", err)
	}
	return a, nil
}

// LastAuditCategory recovers the most recently discussed category, used
// by the teach command to decide where a taught answer belongs.
func (s *Store) LastAuditCategory(ctx context.Context, sessionID int64) (string, error) {
	var category string
	err := s.db.QueryRowContext(ctx, `
		SELECT category FROM reply_audit
		WHERE session_id = ? AND category != ''
		ORDER BY rowid DESC LIMIT 1`, sessionID).Scan(&category)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("last audit category: %w", ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("last audit category: %w", err)
	}
	return category, nil
}
