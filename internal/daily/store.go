package daily

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Result is a single player's finished daily challenge.
type Result struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	Shots     int    `json:"shots"`
	ElapsedMs int    `json:"elapsedMs"`
}

// LBRow is one leaderboard line.
type LBRow struct {
	UserID    string `json:"userId"`
	Username  string `json:"username,omitempty"` // empty for guests
	Shots     int    `json:"shots"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Session records which game a player is using for a date and when they
// started it. It is the durable half of "one attempt per day": the game itself
// lives in the session store.
type Session struct {
	UserID string
	Date   string
	GameID string
	Start  time.Time
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether the player finished the challenge for date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?`,
		userID, date,
	).Scan(&cnt)
	if err != nil {
		return false, fmt.Errorf("check daily result: %w", err)
	}
	return cnt > 0, nil
}

// InsertResult stores a result; a second result for the same player and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, shots, elapsed_ms) VALUES(?,?,?,?)`,
		r.UserID, r.Date, r.Shots, r.ElapsedMs,
	)
	if err != nil {
		return fmt.Errorf("insert daily result: %w", err)
	}
	return nil
}

// Leaderboard returns the best results for date: fewest shots, then fastest,
// then earliest. A non-positive limit means 20.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.user_id, COALESCE(u.username, ''), d.shots, d.elapsed_ms
		FROM daily_results d
		LEFT JOIN users u ON u.id = d.user_id
		WHERE d.date=?
		ORDER BY d.shots ASC, d.elapsed_ms ASC, d.created_at ASC
		LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.Shots, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimSession records gameID as the player's attempt for date unless one is
// already recorded. It returns the session that holds the slot and whether
// this call created it.
func (s *Store) ClaimSession(ctx context.Context, userID, date, gameID string, start time.Time) (*Session, bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_sessions(user_id, date, game_id, started_ms) VALUES(?,?,?,?)`,
		userID, date, gameID, start.UnixMilli(),
	)
	if err != nil {
		return nil, false, fmt.Errorf("claim daily session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	sess, err := s.FindSession(ctx, userID, date)
	if err != nil {
		return nil, false, err
	}
	if sess == nil {
		return nil, false, fmt.Errorf("claim daily session: row for %s on %s vanished", userID, date)
	}
	return sess, n == 1, nil
}

// FindSession returns the player's session for date, or nil when there is none.
func (s *Store) FindSession(ctx context.Context, userID, date string) (*Session, error) {
	var (
		sess    = Session{UserID: userID, Date: date}
		started int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT game_id, started_ms FROM daily_sessions WHERE user_id=? AND date=?`,
		userID, date,
	).Scan(&sess.GameID, &started)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load daily session: %w", err)
	}
	sess.Start = time.UnixMilli(started).UTC()
	return &sess, nil
}

// PruneSessions deletes sessions dated before date and reports how many went.
func (s *Store) PruneSessions(ctx context.Context, before string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM daily_sessions WHERE date < ?`, before)
	if err != nil {
		return 0, fmt.Errorf("prune daily sessions: %w", err)
	}
	return res.RowsAffected()
}
