package daily

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/battleship/assets"
	"github.com/robalobadob/battleship/internal/database"
)

func TestNewGame_SameBoardForSameDay(t *testing.T) {
	morning := time.Date(2026, 3, 14, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)

	a, err := NewGame(morning, "salt")
	require.NoError(t, err)
	b, err := NewGame(evening, "salt")
	require.NoError(t, err)

	assert.Equal(t, *a.Board, *b.Board)
	assert.Equal(t, a.Placement, b.Placement)
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, IsDailyID(a.ID))
}

func TestSeed(t *testing.T) {
	day := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	a1, a2 := Seed(day, "salt")
	b1, b2 := Seed(day.Add(24*time.Hour), "salt")
	c1, c2 := Seed(day, "other")

	assert.NotEqual(t, [2]uint64{a1, a2}, [2]uint64{b1, b2})
	assert.NotEqual(t, [2]uint64{a1, a2}, [2]uint64{c1, c2})
	assert.Equal(t, "2026-03-14", DateKey(day))
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenAndMigrate(":memory:", assets.Migrations())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	st := NewStore(db)

	played, err := st.AlreadyPlayed(ctx, "u1", "2026-03-14")
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, st.InsertResult(ctx, Result{UserID: "u1", Date: "2026-03-14", Shots: 45, ElapsedMs: 9000}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "u2", Date: "2026-03-14", Shots: 40, ElapsedMs: 20000}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "u3", Date: "2026-03-14", Shots: 40, ElapsedMs: 10000}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "u4", Date: "2026-03-15", Shots: 20, ElapsedMs: 1}))
	// second attempt for the same day is ignored
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "u1", Date: "2026-03-14", Shots: 17, ElapsedMs: 1}))

	played, err = st.AlreadyPlayed(ctx, "u1", "2026-03-14")
	require.NoError(t, err)
	assert.True(t, played)

	top, err := st.Leaderboard(ctx, "2026-03-14", 0)
	require.NoError(t, err)
	assert.Equal(t, []LBRow{
		{UserID: "u3", Shots: 40, ElapsedMs: 10000},
		{UserID: "u2", Shots: 40, ElapsedMs: 20000},
		{UserID: "u1", Shots: 45, ElapsedMs: 9000},
	}, top)
}

func TestStore_Sessions(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenAndMigrate(":memory:", assets.Migrations())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	st := NewStore(db)
	start := time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)

	sess, err := st.FindSession(ctx, "u1", "2026-03-14")
	require.NoError(t, err)
	assert.Nil(t, sess)

	// Given: a first claim for the day
	sess, created, err := st.ClaimSession(ctx, "u1", "2026-03-14", "daily-a", start)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, &Session{UserID: "u1", Date: "2026-03-14", GameID: "daily-a", Start: start}, sess)

	// When: the same player claims again with another board
	again, created, err := st.ClaimSession(ctx, "u1", "2026-03-14", "daily-b", start.Add(time.Hour))
	require.NoError(t, err)

	// Then: the first session is kept
	assert.False(t, created)
	assert.Equal(t, sess, again)

	found, err := st.FindSession(ctx, "u1", "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, sess, found)

	// And: pruning drops only older days
	_, _, err = st.ClaimSession(ctx, "u1", "2026-03-13", "daily-old", start.Add(-24*time.Hour))
	require.NoError(t, err)
	n, err := st.PruneSessions(ctx, "2026-03-14")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	old, err := st.FindSession(ctx, "u1", "2026-03-13")
	require.NoError(t, err)
	assert.Nil(t, old)
	found, err = st.FindSession(ctx, "u1", "2026-03-14")
	require.NoError(t, err)
	assert.NotNil(t, found)
}
