package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/battleship/assets"
)

func TestMigrate(t *testing.T) {
	t.Run("Applies embedded migrations once", func(t *testing.T) {
		db, err := Open(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		require.NoError(t, Migrate(db, assets.Migrations()))
		require.NoError(t, Migrate(db, assets.Migrations()))

		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
		assert.Equal(t, 3, n)
		for _, table := range []string{"users", "games", "daily_results", "daily_sessions"} {
			var name string
			err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
			assert.NoError(t, err, table)
		}
	})

	t.Run("Applies in lexical order", func(t *testing.T) {
		db, err := Open(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		fsys := fstest.MapFS{
			"002_b.sql": {Data: []byte(`INSERT INTO t(v) VALUES ('b');`)},
			"001_a.sql": {Data: []byte(`CREATE TABLE t (v TEXT); INSERT INTO t(v) VALUES ('a');`)},
			"notes.txt": {Data: []byte(`ignored`)},
		}

		require.NoError(t, Migrate(db, fsys))

		var got string
		require.NoError(t, db.QueryRow(`SELECT group_concat(v, '') FROM t`).Scan(&got))
		assert.Equal(t, "ab", got)
	})

	t.Run("Failed script is not recorded", func(t *testing.T) {
		db, err := Open(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		err = Migrate(db, fstest.MapFS{"001_bad.sql": {Data: []byte(`CREATE TABLE;`)}})

		require.Error(t, err)
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
		assert.Zero(t, n)
	})
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.db")

	db, err := OpenAndMigrate(path, assets.Migrations())

	require.NoError(t, err)
	assert.FileExists(t, path)
	require.NoError(t, db.Close())
}
