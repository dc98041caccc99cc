// internal/game/session.go
//
// Scoreboard for one game: shot/hit/sunk counters and the win flag.
//
// State machine: InProgress → GameOver, fired when Hits reaches the fleet's
// cell count. GameOver is terminal until the owning Game is reset.

package game

import "fmt"

// State is the coarse session state.
type State string

const (
	StateInProgress State = "in_progress"
	StateGameOver   State = "game_over"
)

// Session tracks progress of a single game.
type Session struct {
	Shots     int  `json:"shots"`
	Hits      int  `json:"hits"`
	SunkCount int  `json:"sunkCount"`
	GameOver  bool `json:"gameOver"`
}

// Record applies an outcome to the counters. Rejected shots change nothing.
// The win check runs after every accepted shot against fleetCells; a board
// without ships (fleetCells == 0) can never be won.
func (s *Session) Record(o ShotOutcome, fleetCells int) {
	if !o.Accepted() {
		return
	}
	s.Shots++
	if o.Kind == Hit {
		s.Hits++
		if o.JustSunk {
			s.SunkCount++
		}
	}
	if fleetCells > 0 && s.Hits == fleetCells {
		s.GameOver = true
	}
}

// State reports InProgress or GameOver.
func (s Session) State() State {
	if s.GameOver {
		return StateGameOver
	}
	return StateInProgress
}

// Status is the human-readable scoreboard line.
func (s Session) Status() string {
	if s.GameOver {
		return fmt.Sprintf("You won in %d shots", s.Shots)
	}
	return fmt.Sprintf("Shots: %d · Hits: %d · Sunk: %d/%d", s.Shots, s.Hits, s.SunkCount, FleetSize())
}
