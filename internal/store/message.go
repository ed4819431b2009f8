package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type Message struct {
	ID              int64
	SessionID       int64
	Seq             int
	Role            string
	Content         string
	OriginalContent string
	Lang            string
	DisplayLang     string
	Category        string
	Metadata        map[string]any
}

type SaveMessageParams struct {
	SessionID       int64
	Role            string
	Content         string
	OriginalContent string
	Lang            string
	DisplayLang     string
	Category        string
	Metadata        map[string]any
}

// SaveMessage appends a message with the next per-session sequence id.
// Seq assignment and insert share one transaction so concurrent turns for
// the same session cannot interleave sequence numbers.
func (s *Store) SaveMessage(ctx context.Context, p SaveMessageParams) (int64, error) {
	if p.Role != "user" && p.Role != "assistant" {
		return 0, fmt.Errorf("save message: invalid role %q", p.Role)
	}
	meta := p.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return 0, fmt.Errorf("marshal message metadata: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save message: %w", err)
	}
	defer tx.Rollback()

	var seq int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) + 1 FROM messages WHERE session_id = ?",
		p.SessionID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next message seq: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO messages (session_id, seq, role, content, original_content, lang, display_lang, category, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SessionID, seq, p.Role, p.Content, p.OriginalContent, p.Lang, p.DisplayLang, p.Category, string(metaJSON))
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("message id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save message: %w", err)
	}
	return id, nil
}

// LoadRecentMessages returns up to limit newest messages, ordered oldest
// to newest.
func (s *Store) LoadRecentMessages(ctx context.Context, sessionID int64, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, seq, role, content, original_content, lang, display_lang, category, metadata
		FROM messages WHERE session_id = ?
		ORDER BY seq DESC LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("load recent messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Reverse into chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// GetPreviousUserUtterance returns the second-most-recent user message:
// the utterance the assistant already replied to, which the teach command
// attributes its answer to.
func (s *Store) GetPreviousUserUtterance(ctx context.Context, sessionID int64) (Message, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, seq, role, content, original_content, lang, display_lang, category, metadata
		FROM messages WHERE session_id = ? AND role = 'user'
		ORDER BY seq DESC LIMIT 1 OFFSET 1`, sessionID)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Message{}, fmt.Errorf("previous user utterance: %w", ErrNotFound)
	}
	return m, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(r rowScanner) (Message, error) {
	var m Message
	var metaJSON string
	if err := r.Scan(&m.ID, &m.SessionID, &m.Seq, &m.Role, &m.Content, &m.OriginalContent,
		&m.Lang, &m.DisplayLang, &m.Category, &metaJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Message{}, err
		}
		return Message{}, fmt.Errorf("scan message: %w", err)
	}
	if metaJSON != "" {
		if err := json.Unmarshal([]byte(metaJSON), &m.Metadata); err != nil {
			return Message{}, fmt.Errorf("parse message metadata: %w", err)
		}
	}
	return m, nil
}

// SaveSummary upserts the digest for (session, turn); later writes for
// the same turn replace content.
func (s *Store) SaveSummary(ctx context.Context, sessionID int64, turnNo int, text string) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO summaries (session_id, turn_no, content) VALUES (?, ?, ?)
		ON CONFLICT(session_id, turn_no) DO UPDATE SET content = excluded.content, updated_at = datetime('now')`,
		sessionID, turnNo, text); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

func (s *Store) LoadLatestSummary(ctx context.Context, sessionID int64) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx, `
		SELECT content FROM summaries WHERE session_id = ?
		ORDER BY turn_no DESC LIMIT 1`, sessionID).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("latest summary: %w", ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("latest summary: %w", err)
	}
	return content, nil
}

type SummaryCandidate struct {
	SessionID int64
	TurnCount int
}

// SessionsNeedingSummary lists sessions whose turn counter moved at least
// every turns past their newest digest.
func (s *Store) SessionsNeedingSummary(ctx context.Context, every int) ([]SummaryCandidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.turn_count
		FROM sessions s
		LEFT JOIN (SELECT session_id, MAX(turn_no) AS last_turn FROM summaries GROUP BY session_id) sum
			ON sum.session_id = s.id
		WHERE s.turn_count - COALESCE(sum.last_turn, 0) >= ?`, every)
	if err != nil {
		return nil, fmt.Errorf("sessions needing summary: %w", err)
	}
	defer rows.Close()

	var out []SummaryCandidate
	for rows.Next() {
		var c SummaryCandidate
		if err := rows.Scan(&c.SessionID, &c.TurnCount); err != nil {
			return nil, fmt.Errorf("scan summary candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
