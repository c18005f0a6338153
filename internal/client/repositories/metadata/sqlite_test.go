package metadata

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

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	return db
}

func TestSQLiteRepository_RoundTrip(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v, "absent key")

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))
	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)

	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.Delete(ctx, "k"), "deleting twice is fine")
	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLiteRepository_ErrorsNameTheKey(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	_, err := db.Exec(`DROP TABLE metadata`)
	require.NoError(t, err)

	_, err = r.Get(ctx, "k")
	assert.ErrorContains(t, err, `read "k"`)
	assert.ErrorContains(t, r.Set(ctx, "k", []byte("v")), `write "k"`)
	assert.ErrorContains(t, r.Delete(ctx, "k"), `delete "k"`)
}

func TestSession(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	s, err := LoadSession(ctx, r)
	require.NoError(t, err)
	assert.Nil(t, s)

	require.NoError(t, SaveSession(ctx, r, Session{Email: "a@x.com", AccessToken: "tok"}))
	s, err = LoadSession(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, &Session{Email: "a@x.com", AccessToken: "tok"}, s)

	require.NoError(t, ClearSession(ctx, r))
	s, err = LoadSession(ctx, r)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestLoadSession_Corrupt(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeySession, []byte("{")))
	_, err := LoadSession(ctx, r)
	assert.ErrorContains(t, err, "decode session")

	require.NoError(t, r.Set(ctx, KeySession, []byte(`{"email":"a@x.com"}`)))
	s, err := LoadSession(ctx, r)
	require.NoError(t, err)
	assert.Nil(t, s, "a session without a token is no session")
}
