// internal/history/history.go
//
// Persistent record of played games (the games table).
// Each game row is owned either by a user or by an anonymous cookie id; the
// row mirrors the live session counters after every accepted shot so players
// can list their recent games.

package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robalobadob/battleship/internal/game"
)

// Owner identifies who a game row belongs to. Exactly one field is set.
type Owner struct {
	UserID      string
	AnonymousID string
}

func (o Owner) clause() (string, any) {
	if o.UserID != "" {
		return "user_id=?", o.UserID
	}
	return "anonymous_id=?", o.AnonymousID
}

// Row is one entry of a player's game list.
type Row struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Shots      int    `json:"shots"`
	Hits       int    `json:"hits"`
	Sunk       int    `json:"sunk"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// Start inserts (or, after a reset, rewinds) the row for game id.
func (s *Store) Start(ctx context.Context, id string, owner Owner) error {
	var userID, anonID any
	if owner.UserID != "" {
		userID = owner.UserID
	} else {
		anonID = owner.AnonymousID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games (id, user_id, anonymous_id, status, shots, hits, sunk, started_at)
		VALUES (?, ?, ?, ?, 0, 0, 0, ?)
		ON CONFLICT(id) DO UPDATE SET
			status=excluded.status, shots=0, hits=0, sunk=0,
			started_at=excluded.started_at, finished_at=NULL`,
		id, userID, anonID, string(game.StateInProgress), now(),
	)
	if err != nil {
		return fmt.Errorf("insert game row: %w", err)
	}
	return nil
}

// Update copies the session counters onto the row. It reports whether this
// call moved the row into the game-over state, so callers can credit a win once.
func (s *Store) Update(ctx context.Context, id string, owner Owner, sess game.Session) (finished bool, err error) {
	clause, arg := owner.clause()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var prev string
	err = tx.QueryRowContext(ctx, `SELECT status FROM games WHERE id=? AND `+clause, id, arg).Scan(&prev)
	if err != nil {
		return false, fmt.Errorf("load game row: %w", err)
	}

	state := sess.State()
	var finishedAt any
	if state == game.StateGameOver {
		finishedAt = now()
	}
	if _, err = tx.ExecContext(ctx, `
		UPDATE games SET status=?, shots=?, hits=?, sunk=?, finished_at=COALESCE(finished_at, ?)
		WHERE id=? AND `+clause,
		string(state), sess.Shots, sess.Hits, sess.SunkCount, finishedAt, id, arg,
	); err != nil {
		return false, fmt.Errorf("update game row: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return prev != string(game.StateGameOver) && state == game.StateGameOver, nil
}

// Recent lists a user's latest games, newest first.
func (s *Store) Recent(ctx context.Context, userID string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, shots, hits, sunk, started_at, COALESCE(finished_at, '')
		FROM games WHERE user_id=? ORDER BY started_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Status, &r.Shots, &r.Hits, &r.Sunk, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan game row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimAnonymous transfers anonymous games to a user account after login.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID string) (int64, error) {
	if anonID == "" || userID == "" {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	if err != nil {
		return 0, fmt.Errorf("claim games: %w", err)
	}
	return res.RowsAffected()
}
