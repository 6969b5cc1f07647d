package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// RecordSession queues the insert of a new session
func (s *Store) RecordSession(record SessionRecord) {
	s.enqueue("session", func(tx *sql.Tx) error {
		_, err := tx.Exec(s.rebind(
			`INSERT INTO sessions (session_id, nickname, created_at) VALUES (?, ?, ?)`),
			record.SessionID, record.Nickname, record.CreatedAt.UTC(),
		)
		return err
	})
}

// RecordMove queues the insert of a committed move
func (s *Store) RecordMove(record MoveRecord) {
	s.enqueue("move", func(tx *sql.Tx) error {
		_, err := tx.Exec(s.rebind(
			`INSERT INTO moves (session_id, ply, label, from_sq, to_sq, color, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			record.SessionID, record.Ply, record.Label, record.From, record.To,
			record.Color, record.Status, record.CreatedAt.UTC(),
		)
		return err
	})
}

// RecordResult queues the terminal reason of a finished session
func (s *Store) RecordResult(sessionID, result string, endedAt time.Time) {
	s.enqueue("result", func(tx *sql.Tx) error {
		_, err := tx.Exec(s.rebind(
			`UPDATE sessions SET result = ?, ended_at = ? WHERE session_id = ?`),
			result, endedAt.UTC(), sessionID,
		)
		return err
	})
}

// RecordReset queues clearing a session's moves and result after a reset
func (s *Store) RecordReset(sessionID string) {
	s.enqueue("reset", func(tx *sql.Tx) error {
		if _, err := tx.Exec(s.rebind(`DELETE FROM moves WHERE session_id = ?`), sessionID); err != nil {
			return err
		}
		_, err := tx.Exec(s.rebind(
			`UPDATE sessions SET result = '', ended_at = NULL WHERE session_id = ?`), sessionID)
		return err
	})
}

// QuerySessions lists archived sessions, newest first. Empty or "*" matches all.
func (s *Store) QuerySessions(sessionID, nickname string) ([]SessionRecord, error) {
	query := `SELECT session_id, nickname, created_at, result, ended_at FROM sessions WHERE 1=1`
	var args []any

	if sessionID != "" && sessionID != "*" {
		query += " AND session_id = ?"
		args = append(args, sessionID)
	}
	if nickname != "" && nickname != "*" {
		query += " AND nickname = ?"
		args = append(args, nickname)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var sessions []SessionRecord
	for rows.Next() {
		var r SessionRecord
		if err := rows.Scan(&r.SessionID, &r.Nickname, &r.CreatedAt, &r.Result, &r.EndedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		sessions = append(sessions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return sessions, nil
}

// QueryMoves lists the archived moves of one session in ply order
func (s *Store) QueryMoves(sessionID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(s.rebind(
		`SELECT move_id, session_id, ply, label, from_sq, to_sq, color, status, created_at
		FROM moves WHERE session_id = ? ORDER BY ply`), sessionID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(&m.MoveID, &m.SessionID, &m.Ply, &m.Label,
			&m.From, &m.To, &m.Color, &m.Status, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return moves, nil
}
