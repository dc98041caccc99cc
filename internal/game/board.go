// internal/game/board.go
//
// Board construction and random fleet placement.
//
// Placement is rejection sampling with a retry ceiling: for each ship, in
// catalogue order, pick an orientation and an origin uniformly at random and
// accept it when none of the covered cells already holds a ship. Accepted ships
// are never moved to make room for later ones. If a ship exhausts
// MaxPlacementAttempts, the whole board is discarded and generation restarts
// from an empty grid, up to MaxBoardAttempts times.

package game

import (
	"errors"
	"fmt"
)

const (
	// MaxPlacementAttempts bounds the origin samples tried for a single ship.
	MaxPlacementAttempts = 500
	// MaxBoardAttempts bounds how many fresh boards BuildBoard tries.
	MaxBoardAttempts = 8
)

var (
	ErrPlacementFailure = errors.New("ship placement failed")
	ErrOutOfBounds      = errors.New("ship does not fit on the board")
	ErrOverlap          = errors.New("ship overlaps another ship")
	ErrUnknownShip      = errors.New("unknown ship")
)

// Rand is the random source used for placement.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewBoard returns an empty board.
func NewBoard() *Board { return &Board{} }

// At returns the cell at c.
func (b *Board) At(c Coord) Cell { return b.Cells[c.Row][c.Col] }

// ShipCells counts cells holding a ship.
func (b *Board) ShipCells() int {
	n := 0
	for r := range GridSize {
		for c := range GridSize {
			if b.Cells[r][c].HasShip {
				n++
			}
		}
	}
	return n
}

// cellsFor lists the cells a ship of size covers from origin along o.
// It reports ErrOutOfBounds if any of them falls off the grid.
func cellsFor(size int, origin Coord, o Orientation) ([]Coord, error) {
	dr, dc := o.step()
	cells := make([]Coord, size)
	for i := range size {
		c := Coord{Row: origin.Row + i*dr, Col: origin.Col + i*dc}
		if !InBounds(c.Row, c.Col) {
			return nil, fmt.Errorf("%w: size %d at (%d,%d) %s", ErrOutOfBounds, size, origin.Row, origin.Col, o)
		}
		cells[i] = c
	}
	return cells, nil
}

// Place writes ship id onto the board at origin along o and returns the covered
// cells. The board is left untouched when the ship is off-grid or overlaps.
func (b *Board) Place(id ShipID, origin Coord, o Orientation) ([]Coord, error) {
	spec, ok := id.Spec()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShip, id)
	}
	cells, err := cellsFor(spec.Size, origin, o)
	if err != nil {
		return nil, err
	}
	if !b.free(cells) {
		return nil, fmt.Errorf("%w: %s at (%d,%d)", ErrOverlap, spec.Name, origin.Row, origin.Col)
	}
	for _, c := range cells {
		cell := &b.Cells[c.Row][c.Col]
		cell.HasShip = true
		cell.ShipID = id
	}
	return cells, nil
}

func (b *Board) free(cells []Coord) bool {
	for _, c := range cells {
		if b.Cells[c.Row][c.Col].HasShip {
			return false
		}
	}
	return true
}

// placeRandom places one ship using at most MaxPlacementAttempts origin samples.
func (b *Board) placeRandom(spec ShipSpec, r Rand) ([]Coord, error) {
	o := Orientation(r.IntN(2))
	maxRow, maxCol := GridSize, GridSize
	if o == Horizontal {
		maxCol = GridSize - spec.Size + 1
	} else {
		maxRow = GridSize - spec.Size + 1
	}

	for range MaxPlacementAttempts {
		origin := Coord{Row: r.IntN(maxRow), Col: r.IntN(maxCol)}
		cells, err := b.Place(spec.ID, origin, o)
		if errors.Is(err, ErrOverlap) {
			continue
		}
		return cells, err
	}
	return nil, fmt.Errorf("%w: %s after %d attempts", ErrPlacementFailure, spec.Name, MaxPlacementAttempts)
}

// placeFleet fills an empty board with the whole catalogue.
func placeFleet(r Rand) (*Board, Placement, error) {
	b := NewBoard()
	p := make(Placement, len(fleet))
	for _, spec := range fleet {
		cells, err := b.placeRandom(spec, r)
		if err != nil {
			return nil, nil, err
		}
		p[spec.ID] = cells
	}
	return b, p, nil
}

// BuildBoard generates a board with the fleet placed at random.
// A PlacementFailure restarts generation from scratch; the error is returned
// only once MaxBoardAttempts boards have failed.
func BuildBoard(r Rand) (*Board, Placement, error) {
	var err error
	for range MaxBoardAttempts {
		var (
			b *Board
			p Placement
		)
		b, p, err = placeFleet(r)
		if err == nil {
			return b, p, nil
		}
		if !errors.Is(err, ErrPlacementFailure) {
			return nil, nil, err
		}
	}
	return nil, nil, fmt.Errorf("build board: %w", err)
}
