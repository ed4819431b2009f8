package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound reports that a lookup matched no rows. Callers that treat
// absence as a normal result check for it with errors.Is.
var ErrNotFound = errors.New("store: not found")

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &Store{db: db}
	if err := s.configure(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("sqlite pragma %q: %w", p, err)
		}
	}
	return nil
}

func (s *Store) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_key TEXT NOT NULL UNIQUE,
	channel     TEXT NOT NULL,
	name        TEXT NOT NULL DEFAULT '',
	phone       TEXT NOT NULL DEFAULT '',
	locale      TEXT NOT NULL DEFAULT '',
	country     TEXT NOT NULL DEFAULT '',
	role        TEXT NOT NULL DEFAULT '',
	intent      TEXT NOT NULL DEFAULT '',
	candidates  TEXT NOT NULL DEFAULT '',
	psychotype  TEXT NOT NULL DEFAULT '',
	stage       TEXT NOT NULL DEFAULT 'intro',
	turn_count  INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL DEFAULT (datetime('now')),
	updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS asked (
	session_id INTEGER NOT NULL REFERENCES sessions(id),
	field      TEXT NOT NULL,
	attempts   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (session_id, field)
);

CREATE TABLE IF NOT EXISTS messages (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id       INTEGER NOT NULL REFERENCES sessions(id),
	seq              INTEGER NOT NULL,
	role             TEXT NOT NULL,
	content          TEXT NOT NULL,
	original_content TEXT NOT NULL DEFAULT '',
	lang             TEXT NOT NULL DEFAULT '',
	display_lang     TEXT NOT NULL DEFAULT '',
	category         TEXT NOT NULL DEFAULT '',
	metadata         TEXT NOT NULL DEFAULT '{}',
	created_at       TEXT NOT NULL DEFAULT (datetime('now')),
	UNIQUE (session_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, seq);

CREATE TABLE IF NOT EXISTS summaries (
	session_id INTEGER NOT NULL REFERENCES sessions(id),
	turn_no    INTEGER NOT NULL,
	content    TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (session_id, turn_no)
);

CREATE TABLE IF NOT EXISTS kb_items (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	category   TEXT NOT NULL,
	lang       TEXT NOT NULL,
	question   TEXT NOT NULL DEFAULT '',
	answer     TEXT NOT NULL,
	active     INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_kb_category_lang ON kb_items(category, lang, active);

CREATE TABLE IF NOT EXISTS translation_cache (
	source_lang TEXT NOT NULL,
	target_lang TEXT NOT NULL,
	text_hash   TEXT NOT NULL,
	source_text TEXT NOT NULL,
	translated  TEXT NOT NULL,
	created_at  TEXT NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (source_lang, target_lang, text_hash)
);

CREATE TABLE IF NOT EXISTS reply_audit (
	id         TEXT PRIMARY KEY,
	session_id INTEGER NOT NULL REFERENCES sessions(id),
	strategy   TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	kb_item_id INTEGER,
	message_id INTEGER,
	notes      TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_audit_session ON reply_audit(session_id);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
