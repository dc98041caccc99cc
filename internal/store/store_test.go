package store

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/testing/suite"
)

func newGame(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.New(rand.New(rand.NewPCG(11, 12)))
	require.NoError(t, err)
	return g
}

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(ctx context.Context, t *testing.T, st Store) {
	t.Run("Get returns what was saved", func(t *testing.T) {
		// Given: a game with one shot fired
		g := newGame(t)
		c := g.Placement[game.Carrier][0]
		g.Shoot(c.Row, c.Col)

		// When: saving and loading it
		require.NoError(t, st.Save(ctx, g))
		got, err := st.Get(ctx, g.ID)

		// Then: board, placement and session survive
		require.NoError(t, err)
		assert.Equal(t, g.ID, got.ID)
		assert.Equal(t, *g.Board, *got.Board)
		assert.Equal(t, g.Placement, got.Placement)
		assert.Equal(t, g.Session, got.Session)
	})

	t.Run("Loaded game is independent from the stored one", func(t *testing.T) {
		g := newGame(t)
		require.NoError(t, st.Save(ctx, g))

		loaded, err := st.Get(ctx, g.ID)
		require.NoError(t, err)
		c := loaded.Placement[game.Destroyer][0]
		loaded.Shoot(c.Row, c.Col)

		again, err := st.Get(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, again.Session.Shots)
	})

	t.Run("Unknown id", func(t *testing.T) {
		_, err := st.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(context.Background(), t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	ctx, st := suite.NewRedis(t)
	exerciseStore(ctx, t, NewRedisStore(st.Client, time.Minute))
}

func TestRedisStore_TTL(t *testing.T) {
	ctx, st := suite.NewRedis(t)
	s := NewRedisStore(st.Client, time.Minute)
	g := newGame(t)

	require.NoError(t, s.Save(ctx, g))

	ttl, err := st.Client.TTL(ctx, gameKeyPrefix+g.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
