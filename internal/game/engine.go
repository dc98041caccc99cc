// internal/game/engine.go
//
// Core game engine for a single battleship session.
// Responsibilities:
//   - Create new games with a freshly generated board.
//   - Apply shots and keep the session scoreboard in step.
//   - Reset a game in place with a new board.
//
// Notes:
//   - A Game is a caller-owned value and is not safe for concurrent use.
//   - The random source is always passed in, never stored, so a Game can be
//     serialized and restored without losing anything.
//   - randomID() is a compact hex identifier for correlating server state.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Game holds the state of one battleship game.
type Game struct {
	ID        string    `json:"id"`
	Board     *Board    `json:"board"`
	Placement Placement `json:"placement"`
	Session   Session   `json:"session"`
}

// New constructs a game with the fleet placed using r.
func New(r Rand) (*Game, error) {
	b, p, err := BuildBoard(r)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	return &Game{ID: randomID(), Board: b, Placement: p}, nil
}

// NewWithBoard wraps an already-built board, e.g. a fixed layout.
// The win threshold is the number of cells in p; an empty placement gives a
// game that never ends.
func NewWithBoard(b *Board, p Placement) *Game {
	return &Game{ID: randomID(), Board: b, Placement: p}
}

// Shoot fires at (row, col) and records the outcome.
// Once the game is over every shot is Rejected.
func (g *Game) Shoot(row, col int) ShotOutcome {
	if g.Session.GameOver {
		return ShotOutcome{Kind: Rejected}
	}
	out := g.Board.ApplyShot(row, col)
	g.Session.Record(out, g.fleetCells())
	return out
}

// fleetCells counts ship cells from the placement so the win threshold always
// matches the board actually in play.
func (g *Game) fleetCells() int {
	n := 0
	for _, cells := range g.Placement {
		n += len(cells)
	}
	return n
}

// Reset discards the board, placement and scoreboard and deals a new board.
// The game keeps its ID. On error the game is left unchanged.
func (g *Game) Reset(r Rand) error {
	b, p, err := BuildBoard(r)
	if err != nil {
		return fmt.Errorf("reset game: %w", err)
	}
	g.Board, g.Placement, g.Session = b, p, Session{}
	return nil
}

// Status is the scoreboard line for the current session.
func (g *Game) Status() string { return g.Session.Status() }

// Clone returns a deep copy; later shots on g do not affect it.
func (g *Game) Clone() *Game {
	b := *g.Board
	return &Game{
		ID:        g.ID,
		Board:     &b,
		Placement: g.Placement.Clone(),
		Session:   g.Session,
	}
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
