package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SessionRepo records the start and end of practice sessions.
type SessionRepo struct {
	db *sql.DB
}

// StartSession inserts a running session.
func (r *SessionRepo) StartSession(ctx context.Context, id, difficulty, provider string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO practice_sessions (id, started_at, difficulty, provider)
		VALUES (?, ?, ?, ?)`,
		id, time.Now().UnixMilli(), difficulty, provider,
	)
	if err != nil {
		return fmt.Errorf("save session start: %w", err)
	}
	return nil
}

// EndSession stamps the end time and final counters of a session.
func (r *SessionRepo) EndSession(ctx context.Context, id, difficulty string, turns, messages int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE practice_sessions
		SET ended_at = ?, difficulty = ?, turns = ?, messages = ?
		WHERE id = ?`,
		time.Now().UnixMilli(), difficulty, turns, messages, id,
	)
	if err != nil {
		return fmt.Errorf("save session end: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

// ListSessions returns sessions newest first.
func (r *SessionRepo) ListSessions(ctx context.Context, limit int) ([]PracticeSession, error) {
	query := `
		SELECT id, started_at, ended_at, difficulty, provider, turns, messages
		FROM practice_sessions
		ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []PracticeSession
	for rows.Next() {
		var s PracticeSession
		var started int64
		var ended sql.NullInt64
		if err := rows.Scan(&s.ID, &started, &ended, &s.Difficulty, &s.Provider, &s.Turns, &s.Messages); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		s.StartedAt = time.UnixMilli(started)
		if ended.Valid {
			s.EndedAt = time.UnixMilli(ended.Int64)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
