package game

import "strings"

// CellView is how a cell should be drawn.
type CellView string

const (
	ViewUntouched CellView = "untouched"
	ViewMiss      CellView = "miss"
	ViewHit       CellView = "hit"
	ViewSunk      CellView = "sunk"
	ViewShip      CellView = "ship" // revealed, not yet hit
)

// ViewOf classifies one cell. Unhit ships are only shown when reveal is set.
func ViewOf(c Cell, reveal bool) CellView {
	switch {
	case c.Sunk:
		return ViewSunk
	case c.Hit && c.HasShip:
		return ViewHit
	case c.Hit:
		return ViewMiss
	case reveal && c.HasShip:
		return ViewShip
	default:
		return ViewUntouched
	}
}

// View renders the board row by row.
func (b *Board) View(reveal bool) [][]CellView {
	out := make([][]CellView, GridSize)
	for r := range GridSize {
		out[r] = make([]CellView, GridSize)
		for c := range GridSize {
			out[r][c] = ViewOf(b.Cells[r][c], reveal)
		}
	}
	return out
}

var viewRunes = map[CellView]byte{
	ViewUntouched: '.',
	ViewMiss:      'o',
	ViewHit:       'x',
	ViewSunk:      '#',
	ViewShip:      'S',
}

// String draws the board as text, ships revealed. Handy in logs and tests.
func (b *Board) String() string {
	var sb strings.Builder
	for _, row := range b.View(true) {
		for i, v := range row {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(viewRunes[v])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
