// internal/game/shot.go
//
// Shot resolution against a Board.

package game

import (
	"encoding/json"
	"fmt"
)

// OutcomeKind classifies the result of a shot.
type OutcomeKind int

const (
	Rejected OutcomeKind = iota // already-hit cell or finished game; nothing changed
	Miss
	Hit
)

func (k OutcomeKind) String() string {
	switch k {
	case Miss:
		return "miss"
	case Hit:
		return "hit"
	default:
		return "rejected"
	}
}

func (k OutcomeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *OutcomeKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "rejected":
		*k = Rejected
	case "miss":
		*k = Miss
	case "hit":
		*k = Hit
	default:
		return fmt.Errorf("unknown outcome %q", b)
	}
	return nil
}

// ShotOutcome is what a single shot did. ShipID and JustSunk are only
// meaningful for Hit.
type ShotOutcome struct {
	Kind     OutcomeKind `json:"kind"`
	ShipID   ShipID      `json:"shipId,omitempty"`
	JustSunk bool        `json:"justSunk,omitempty"`
}

// Accepted reports whether the shot changed the board.
func (o ShotOutcome) Accepted() bool { return o.Kind != Rejected }

// MarshalJSON adds the ship name next to its id for hits.
func (o ShotOutcome) MarshalJSON() ([]byte, error) {
	type plain ShotOutcome
	out := struct {
		plain
		Ship string `json:"ship,omitempty"`
	}{plain: plain(o)}
	if o.Kind == Hit {
		out.Ship = o.ShipID.String()
	}
	return json.Marshal(out)
}

// ApplyShot fires at (row, col).
//
// An already-hit cell yields Rejected and leaves the board as it was. Otherwise
// the cell is marked hit; when it belongs to a ship whose every cell is now hit,
// all of that ship's cells are marked sunk and JustSunk is reported.
//
// Out-of-range coordinates are a caller bug and panic.
func (b *Board) ApplyShot(row, col int) ShotOutcome {
	if !InBounds(row, col) {
		panic(fmt.Sprintf("game: shot (%d,%d) outside %dx%d board", row, col, GridSize, GridSize))
	}

	cell := &b.Cells[row][col]
	if cell.Hit {
		return ShotOutcome{Kind: Rejected}
	}
	cell.Hit = true

	if !cell.HasShip {
		return ShotOutcome{Kind: Miss}
	}

	id := cell.ShipID
	if !b.shipDown(id) {
		return ShotOutcome{Kind: Hit, ShipID: id}
	}
	b.markSunk(id)
	return ShotOutcome{Kind: Hit, ShipID: id, JustSunk: true}
}

// shipDown reports whether every cell of ship id has been hit.
func (b *Board) shipDown(id ShipID) bool {
	for r := range GridSize {
		for c := range GridSize {
			if cell := b.Cells[r][c]; cell.ShipID == id && !cell.Hit {
				return false
			}
		}
	}
	return true
}

func (b *Board) markSunk(id ShipID) {
	for r := range GridSize {
		for c := range GridSize {
			if b.Cells[r][c].ShipID == id {
				b.Cells[r][c].Sunk = true
			}
		}
	}
}
