// internal/game/types.go
//
// Core type definitions for the battleship engine.
// Defines:
//   - Coord / Orientation: grid addressing and ship direction.
//   - ShipID / ShipSpec: the fixed fleet catalogue.
//   - Cell / Board / Placement: grid state and per-ship coordinates.

package game

// GridSize is the width and height of the square board.
const GridSize = 10

// Coord addresses a single cell by (row, col), both in [0, GridSize).
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether (row, col) lies on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < GridSize && col >= 0 && col < GridSize
}

// Orientation is the axis a ship extends along from its origin.
type Orientation int

const (
	Horizontal Orientation = iota // origin → increasing col
	Vertical                      // origin → increasing row
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// step returns the (row, col) delta between consecutive ship cells.
func (o Orientation) step() (dr, dc int) {
	if o == Vertical {
		return 1, 0
	}
	return 0, 1
}

// ShipID identifies a ship of the fleet. The zero value means "no ship".
type ShipID int

const (
	NoShip ShipID = iota
	Carrier
	Battleship
	Cruiser
	Submarine
	Destroyer
)

// ShipSpec is one entry of the fleet catalogue.
type ShipSpec struct {
	ID   ShipID `json:"id"`
	Size int    `json:"size"`
	Name string `json:"name"`
}

// fleet is the catalogue, in placement order. It is never mutated.
var fleet = [...]ShipSpec{
	{ID: Carrier, Size: 5, Name: "Carrier"},
	{ID: Battleship, Size: 4, Name: "Battleship"},
	{ID: Cruiser, Size: 3, Name: "Cruiser"},
	{ID: Submarine, Size: 3, Name: "Submarine"},
	{ID: Destroyer, Size: 2, Name: "Destroyer"},
}

// Fleet returns a copy of the ship catalogue in placement order.
func Fleet() []ShipSpec {
	out := make([]ShipSpec, len(fleet))
	copy(out, fleet[:])
	return out
}

// FleetCells is the total number of cells occupied by the whole fleet.
func FleetCells() int {
	n := 0
	for _, s := range fleet {
		n += s.Size
	}
	return n
}

// FleetSize is the number of ships in the catalogue.
func FleetSize() int { return len(fleet) }

// Spec looks up a ship by id.
func (id ShipID) Spec() (ShipSpec, bool) {
	for _, s := range fleet {
		if s.ID == id {
			return s, true
		}
	}
	return ShipSpec{}, false
}

func (id ShipID) String() string {
	if s, ok := id.Spec(); ok {
		return s.Name
	}
	return "None"
}

// Cell is one square of the board.
//
// HasShip and ShipID are written only by placement. Hit is set once by a shot and
// Sunk once every cell of the owning ship is hit; neither is ever cleared short of
// building a new board.
type Cell struct {
	HasShip bool   `json:"hasShip"`
	Hit     bool   `json:"hit"`
	ShipID  ShipID `json:"shipId,omitempty"`
	Sunk    bool   `json:"sunk"`
}

// Board is the fixed GridSize x GridSize grid, indexed [row][col].
type Board struct {
	Cells [GridSize][GridSize]Cell `json:"cells"`
}

// Placement maps each ship to the ordered cells it occupies.
type Placement map[ShipID][]Coord

// Clone returns a deep copy of p.
func (p Placement) Clone() Placement {
	out := make(Placement, len(p))
	for id, cells := range p {
		out[id] = append([]Coord(nil), cells...)
	}
	return out
}
