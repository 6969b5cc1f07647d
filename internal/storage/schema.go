package storage

import (
	"database/sql"
	"time"
)

// SessionRecord is a row in the sessions table
type SessionRecord struct {
	SessionID string       `db:"session_id"`
	Nickname  string       `db:"nickname"`
	CreatedAt time.Time    `db:"created_at"`
	Result    string       `db:"result"` // terminal reason, empty while in play
	EndedAt   sql.NullTime `db:"ended_at"`
}

// MoveRecord is a row in the moves table
type MoveRecord struct {
	MoveID    int64     `db:"move_id"`
	SessionID string    `db:"session_id"`
	Ply       int       `db:"ply"`
	Label     string    `db:"label"`
	From      string    `db:"from_sq"`
	To        string    `db:"to_sq"`
	Color     string    `db:"color"` // "w" or "b"
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	nickname TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	result TEXT NOT NULL DEFAULT '',
	ended_at DATETIME
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	ply INTEGER NOT NULL,
	label TEXT NOT NULL,
	from_sq TEXT NOT NULL,
	to_sq TEXT NOT NULL,
	color TEXT NOT NULL CHECK(color IN ('w', 'b')),
	status TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE,
	UNIQUE(session_id, ply)
);

CREATE INDEX IF NOT EXISTS idx_moves_session_id ON moves(session_id);
CREATE INDEX IF NOT EXISTS idx_sessions_nickname ON sessions(nickname);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	nickname TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	result TEXT NOT NULL DEFAULT '',
	ended_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS moves (
	move_id BIGSERIAL PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES sessions(session_id) ON DELETE CASCADE,
	ply INTEGER NOT NULL,
	label TEXT NOT NULL,
	from_sq TEXT NOT NULL,
	to_sq TEXT NOT NULL,
	color TEXT NOT NULL CHECK(color IN ('w', 'b')),
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE(session_id, ply)
);

CREATE INDEX IF NOT EXISTS idx_moves_session_id ON moves(session_id);
CREATE INDEX IF NOT EXISTS idx_sessions_nickname ON sessions(nickname);
`

const postgresDrop = `
DROP TABLE IF EXISTS moves;
DROP TABLE IF EXISTS sessions;
`
