package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Session struct {
	ID         int64
	Key        string
	Channel    string
	Name       string
	Phone      string
	Locale     string
	Country    string
	Role       string
	Intent     string
	Candidates string
	Psychotype string
	Stage      string
	TurnCount  int
}

// ContactUpdate carries only the fields to change; nil pointers leave the
// stored value untouched, so a later failed extraction never erases a
// previously captured contact.
type ContactUpdate struct {
	Name   *string
	Phone  *string
	Locale *string
}

// UpsertSession is idempotent on the channel-scoped session key.
func (s *Store) UpsertSession(ctx context.Context, key, channel string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sessions (session_key, channel) VALUES (?, ?)
		ON CONFLICT(session_key) DO UPDATE SET updated_at = datetime('now')
		RETURNING id`, key, channel).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert session: %w", err)
	}
	return id, nil
}

func (s *Store) GetSession(ctx context.Context, id int64) (*Session, error) {
	sess := &Session{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_key, channel, name, phone, locale,
		       country, role, intent, candidates, psychotype, stage, turn_count
		FROM sessions WHERE id = ?`, id).Scan(
		&sess.ID, &sess.Key, &sess.Channel, &sess.Name, &sess.Phone, &sess.Locale,
		&sess.Country, &sess.Role, &sess.Intent, &sess.Candidates, &sess.Psychotype,
		&sess.Stage, &sess.TurnCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *Store) UpdateContact(ctx context.Context, id int64, upd ContactUpdate) error {
	set := ""
	args := make([]any, 0, 4)
	appendField := func(col string, val *string) {
		if val == nil {
			return
		}
		if set != "" {
			set += ", "
		}
		set += col + " = ?"
		args = append(args, *val)
	}
	appendField("name", upd.Name)
	appendField("phone", upd.Phone)
	appendField("locale", upd.Locale)
	if set == "" {
		return nil
	}
	args = append(args, id)
	if _, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET "+set+", updated_at = datetime('now') WHERE id = ?", args...); err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return nil
}

// factColumns is the closed set of discovery facts; anything else is a
// programming error, not user input.
var factColumns = map[string]string{
	"country":    "country",
	"role":       "role",
	"intent":     "intent",
	"candidates": "candidates",
	"psychotype": "psychotype",
}

func (s *Store) SetFact(ctx context.Context, id int64, field, value string) error {
	col, ok := factColumns[field]
	if !ok {
		return fmt.Errorf("set fact: unknown field %q", field)
	}
	if _, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET "+col+" = ?, updated_at = datetime('now') WHERE id = ?", value, id); err != nil {
		return fmt.Errorf("set fact %s: %w", field, err)
	}
	return nil
}

// AdvanceStage moves the session forward only if it is still in the
// expected stage; a false return means a concurrent turn already moved it.
func (s *Store) AdvanceStage(ctx context.Context, id int64, from, to string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET stage = ?, updated_at = datetime('now')
		WHERE id = ? AND stage = ?`, to, id, from)
	if err != nil {
		return false, fmt.Errorf("advance stage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("advance stage rows: %w", err)
	}
	return n > 0, nil
}

func (s *Store) IncrementTurn(ctx context.Context, id int64) (int, error) {
	var turn int
	err := s.db.QueryRowContext(ctx, `
		UPDATE sessions SET turn_count = turn_count + 1, updated_at = datetime('now')
		WHERE id = ? RETURNING turn_count`, id).Scan(&turn)
	if err != nil {
		return 0, fmt.Errorf("increment turn: %w", err)
	}
	return turn, nil
}

// MarkAsked atomically records that a question was asked and returns the
// new attempt count, so the decision to ask and the bookkeeping are one
// storage round-trip.
func (s *Store) MarkAsked(ctx context.Context, id int64, field string) (int, error) {
	var attempts int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO asked (session_id, field, attempts) VALUES (?, ?, 1)
		ON CONFLICT(session_id, field) DO UPDATE SET attempts = attempts + 1
		RETURNING attempts`, id, field).Scan(&attempts)
	if err != nil {
		return 0, fmt.Errorf("mark asked: %w", err)
	}
	return attempts, nil
}

// Asked returns attempt counts per field; fields never asked are absent.
func (s *Store) Asked(ctx context.Context, id int64) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT field, attempts FROM asked WHERE session_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("load asked: %w", err)
	}
	defer rows.Close()

	asked := make(map[string]int)
	for rows.Next() {
		var field string
		var attempts int
		if err := rows.Scan(&field, &attempts); err != nil {
			return nil, fmt.Errorf("scan asked: %w", err)
		}
		asked[field] = attempts
	}
	return asked, rows.Err()
}
