package dbx

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openKV(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func keys(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query(`SELECT k FROM kv ORDER BY k`)
	require.NoError(t, err)
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		require.NoError(t, rows.Scan(&k))
		out = append(out, k)
	}
	require.NoError(t, rows.Err())
	return out
}

// putPair writes token and user id the way the credential store does.
func putPair(ctx context.Context, tx DBTX) error {
	for _, k := range []string{"session.token", "session.user_id"} {
		if _, err := tx.ExecContext(ctx, `INSERT INTO kv (k, v) VALUES (?, 'x')`, k); err != nil {
			return err
		}
	}
	return nil
}

func TestWithTx_CommitsAllWrites(t *testing.T) {
	db := openKV(t)

	require.NoError(t, WithTx(context.Background(), db, nil, putPair))
	assert.Equal(t, []string{"session.token", "session.user_id"}, keys(t, db))
}

func TestWithTx_ErrorDiscardsPartialWrites(t *testing.T) {
	db := openKV(t)
	_, err := db.Exec(`INSERT INTO kv (k, v) VALUES ('session.user_id', 'taken')`)
	require.NoError(t, err)

	err = WithTx(context.Background(), db, nil, putPair)
	require.Error(t, err, "second insert hits the primary key")
	assert.Equal(t, []string{"session.user_id"}, keys(t, db), "first insert rolled back")
}

func TestWithTx_ReturnsCallbackError(t *testing.T) {
	db := openKV(t)
	sentinel := errors.New("stop")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, putPair(ctx, tx))
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Empty(t, keys(t, db))
}

func TestWithTx_PanicRollsBackAndPropagates(t *testing.T) {
	db := openKV(t)

	assert.PanicsWithValue(t, "crash", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, putPair(ctx, tx))
			panic("crash")
		})
	})
	assert.Empty(t, keys(t, db))
}

func TestWithTx_BeginFailsOnClosedDB(t *testing.T) {
	db := openKV(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		called = true
		return nil
	})
	assert.ErrorContains(t, err, "begin tx")
	assert.False(t, called)
}
