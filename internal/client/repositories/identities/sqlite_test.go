package identities

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE identities (
  email  TEXT PRIMARY KEY,
  pubkey TEXT NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestPutListDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	got, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, r.Put(ctx, "a@x.com", "k1"))
	require.NoError(t, r.Put(ctx, "b@x.com", "k2"))
	require.NoError(t, r.Put(ctx, "a@x.com", "k1b"))

	got, err = r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a@x.com": "k1b", "b@x.com": "k2"}, got)

	require.NoError(t, r.Delete(ctx, "b@x.com"))
	got, err = r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a@x.com": "k1b"}, got)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	_, err := db.Exec(`DROP TABLE identities`)
	require.NoError(t, err)

	assert.ErrorContains(t, r.Put(ctx, "a@x.com", "k"), "failed to put identity a@x.com")
	assert.ErrorContains(t, r.Delete(ctx, "a@x.com"), "failed to delete identity a@x.com")
	_, err = r.List(ctx)
	assert.ErrorContains(t, err, "failed to list identities")
}
