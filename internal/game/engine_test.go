package game

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, seed uint64) *Game {
	t.Helper()
	g, err := New(rand.New(rand.NewPCG(seed, 99)))
	require.NoError(t, err)
	return g
}

// shipCells lists every ship cell of g in fleet order.
func shipCells(g *Game) []Coord {
	var out []Coord
	for _, spec := range Fleet() {
		out = append(out, g.Placement[spec.ID]...)
	}
	return out
}

// emptyCell finds a cell without a ship.
func emptyCell(t *testing.T, g *Game) Coord {
	t.Helper()
	for r := range GridSize {
		for c := range GridSize {
			if !g.Board.Cells[r][c].HasShip {
				return Coord{Row: r, Col: c}
			}
		}
	}
	t.Fatal("board has no empty cell")
	return Coord{}
}

func TestNew(t *testing.T) {
	g := newTestGame(t, 1)

	assert.Len(t, g.ID, 16)
	assert.Equal(t, Session{}, g.Session)
	assert.Equal(t, StateInProgress, g.Session.State())
	assert.Equal(t, FleetCells(), g.Board.ShipCells())
}

func TestGame_Shoot(t *testing.T) {
	t.Run("Game is over exactly when every ship cell is hit", func(t *testing.T) {
		// Given: a fresh game
		g := newTestGame(t, 2)
		cells := shipCells(g)
		require.Len(t, cells, 17)

		// When: hitting all but the last ship cell
		for i, c := range cells[:len(cells)-1] {
			out := g.Shoot(c.Row, c.Col)
			require.Equal(t, Hit, out.Kind)
			require.False(t, g.Session.GameOver, "over after %d hits", i+1)
		}
		last := cells[len(cells)-1]
		out := g.Shoot(last.Row, last.Col)

		// Then: the final hit ends the game
		assert.Equal(t, Hit, out.Kind)
		assert.True(t, out.JustSunk)
		assert.Equal(t, Session{Shots: 17, Hits: 17, SunkCount: 5, GameOver: true}, g.Session)
		assert.Equal(t, StateGameOver, g.Session.State())
		assert.Equal(t, "You won in 17 shots", g.Status())
	})

	t.Run("Shots after game over are rejected", func(t *testing.T) {
		g := newTestGame(t, 3)
		for _, c := range shipCells(g) {
			g.Shoot(c.Row, c.Col)
		}
		require.True(t, g.Session.GameOver)
		before := g.Clone()

		e := emptyCell(t, g)
		out := g.Shoot(e.Row, e.Col)

		assert.Equal(t, Rejected, out.Kind)
		assert.Equal(t, before.Session, g.Session)
		assert.False(t, g.Board.Cells[e.Row][e.Col].Hit)
	})

	t.Run("Repeated shot does not move the counters", func(t *testing.T) {
		g := newTestGame(t, 4)
		e := emptyCell(t, g)

		assert.Equal(t, Miss, g.Shoot(e.Row, e.Col).Kind)
		assert.Equal(t, Rejected, g.Shoot(e.Row, e.Col).Kind)

		assert.Equal(t, Session{Shots: 1}, g.Session)
	})

	t.Run("Counters are monotonic and misses count as shots", func(t *testing.T) {
		g := newTestGame(t, 5)
		prev := g.Session
		r := rand.New(rand.NewPCG(5, 5))

		for !g.Session.GameOver {
			g.Shoot(r.IntN(GridSize), r.IntN(GridSize))
			s := g.Session
			assert.GreaterOrEqual(t, s.Shots, prev.Shots)
			assert.GreaterOrEqual(t, s.Hits, prev.Hits)
			assert.GreaterOrEqual(t, s.SunkCount, prev.SunkCount)
			assert.LessOrEqual(t, s.Hits, FleetCells())
			prev = s
		}

		assert.Equal(t, FleetCells(), g.Session.Hits)
		assert.Equal(t, FleetSize(), g.Session.SunkCount)
		assert.GreaterOrEqual(t, g.Session.Shots, FleetCells())
	})
}

func TestGame_Reset(t *testing.T) {
	// Given: a game in progress with a sunk ship
	r := rand.New(rand.NewPCG(6, 6))
	g, err := New(r)
	require.NoError(t, err)
	id := g.ID
	for _, c := range g.Placement[Destroyer] {
		g.Shoot(c.Row, c.Col)
	}
	require.Equal(t, 1, g.Session.SunkCount)

	// When: resetting
	require.NoError(t, g.Reset(r))

	// Then: no hit or sunk state survives and a valid fleet is placed
	assert.Equal(t, id, g.ID)
	assert.Equal(t, Session{}, g.Session)
	for row := range GridSize {
		for col := range GridSize {
			assert.False(t, g.Board.Cells[row][col].Hit)
			assert.False(t, g.Board.Cells[row][col].Sunk)
		}
	}
	assert.Equal(t, FleetCells(), g.Board.ShipCells())
	for _, spec := range Fleet() {
		assert.Len(t, g.Placement[spec.ID], spec.Size)
	}
}

func TestGame_ResetFailureKeepsGame(t *testing.T) {
	g := newTestGame(t, 7)
	before := g.Clone()

	err := g.Reset(constRand(0))

	require.ErrorIs(t, err, ErrPlacementFailure)
	assert.Equal(t, before, g)
}

func TestGame_Clone(t *testing.T) {
	g := newTestGame(t, 8)
	snap := g.Clone()

	c := g.Placement[Carrier][0]
	g.Shoot(c.Row, c.Col)
	g.Placement[Carrier][0] = Coord{Row: 9, Col: 9}

	assert.False(t, snap.Board.Cells[c.Row][c.Col].Hit)
	assert.Equal(t, 0, snap.Session.Shots)
	assert.Equal(t, c, snap.Placement[Carrier][0])
}

func TestNewWithBoard_WinThresholdFollowsFleet(t *testing.T) {
	// Given: a board holding only a cruiser
	b := NewBoard()
	cells, err := b.Place(Cruiser, Coord{Row: 4, Col: 2}, Horizontal)
	require.NoError(t, err)
	g := NewWithBoard(b, Placement{Cruiser: cells})

	// When: sinking it
	for _, c := range cells {
		g.Shoot(c.Row, c.Col)
	}

	// Then: the game is won after three hits
	assert.True(t, g.Session.GameOver)
	assert.Equal(t, 3, g.Session.Hits)
}

func TestNewWithBoard_EmptyPlacementNeverWins(t *testing.T) {
	g := NewWithBoard(NewBoard(), Placement{})

	out := g.Shoot(0, 0)

	assert.Equal(t, Miss, out.Kind)
	assert.Equal(t, Session{Shots: 1}, g.Session)
	assert.Equal(t, StateInProgress, g.Session.State())
}

func TestGame_JSONRoundTrip(t *testing.T) {
	// Given: a game part-way through, with a ship sunk
	g := newTestGame(t, 21)
	for _, c := range g.Placement[Destroyer] {
		g.Shoot(c.Row, c.Col)
	}
	miss := emptyCell(t, g)
	g.Shoot(miss.Row, miss.Col)

	// When: encoding and decoding it
	data, err := json.Marshal(g)
	require.NoError(t, err)
	var got Game
	require.NoError(t, json.Unmarshal(data, &got))

	// Then: everything survives and play continues identically
	assert.Equal(t, g.ID, got.ID)
	assert.Equal(t, *g.Board, *got.Board)
	assert.Equal(t, g.Placement, got.Placement)
	assert.Equal(t, g.Session, got.Session)

	c := g.Placement[Carrier][0]
	assert.Equal(t, g.Shoot(c.Row, c.Col), got.Shoot(c.Row, c.Col))
	assert.Equal(t, g.Session, got.Session)
}

func TestSession_Status(t *testing.T) {
	tests := []struct {
		name string
		s    Session
		want string
	}{
		{"fresh", Session{}, "Shots: 0 · Hits: 0 · Sunk: 0/5"},
		{"midgame", Session{Shots: 12, Hits: 7, SunkCount: 2}, "Shots: 12 · Hits: 7 · Sunk: 2/5"},
		{"won", Session{Shots: 40, Hits: 17, SunkCount: 5, GameOver: true}, "You won in 40 shots"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.Status())
		})
	}
}

func TestSession_Record(t *testing.T) {
	var s Session

	s.Record(ShotOutcome{Kind: Rejected}, 3)
	assert.Equal(t, Session{}, s)

	s.Record(ShotOutcome{Kind: Miss}, 3)
	s.Record(ShotOutcome{Kind: Hit, ShipID: Cruiser}, 3)
	s.Record(ShotOutcome{Kind: Hit, ShipID: Cruiser}, 3)
	assert.False(t, s.GameOver)

	s.Record(ShotOutcome{Kind: Hit, ShipID: Cruiser, JustSunk: true}, 3)
	assert.Equal(t, Session{Shots: 4, Hits: 3, SunkCount: 1, GameOver: true}, s)

	var empty Session
	empty.Record(ShotOutcome{Kind: Miss}, 0)
	assert.False(t, empty.GameOver)
}

func TestBoard_View(t *testing.T) {
	b := cruiserBoard(t)
	b.ApplyShot(0, 0)
	b.ApplyShot(4, 2)

	hidden := b.View(false)
	assert.Equal(t, ViewMiss, hidden[0][0])
	assert.Equal(t, ViewHit, hidden[4][2])
	assert.Equal(t, ViewUntouched, hidden[4][3])

	shown := b.View(true)
	assert.Equal(t, ViewShip, shown[4][3])
	assert.Equal(t, ViewUntouched, shown[9][9])

	b.ApplyShot(4, 3)
	b.ApplyShot(4, 4)
	assert.Equal(t, ViewSunk, b.View(false)[4][2])
	assert.Equal(t, "# # #", b.String()[4*20+4:4*20+9])
}
