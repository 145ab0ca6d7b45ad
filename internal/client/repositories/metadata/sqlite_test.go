package metadata

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/client/localdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := localdb.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "meta.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestSetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = fixedClock(at)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "session.token", []byte{0x01, 0x02}))

	rec, ok, err := r.Get(ctx, "session.token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Record{Key: "session.token", Value: []byte{0x01, 0x02}, UpdatedAt: at}, rec)
}

func TestGet_Absent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, ok, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSet_UpsertsValueAndTimestamp(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	r.now = fixedClock(t0)
	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	r.now = fixedClock(t0.Add(time.Hour))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	rec, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("new"), rec.Value)
	assert.Equal(t, t0.Add(time.Hour), rec.UpdatedAt)
}

func TestSet_NilValueStoredAsEmpty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", nil))
	_, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestScanAndDeletePrefix(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	for _, k := range []string{"session.user_id", "session.token", "sessionx", "ui.theme"} {
		require.NoError(t, r.Set(ctx, k, []byte(k)))
	}

	recs, err := r.Scan(ctx, "session.")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "session.token", recs[0].Key, "ordered by key")
	assert.Equal(t, "session.user_id", recs[1].Key)

	all, err := r.Scan(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	n, err := r.DeletePrefix(ctx, "session.")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, r.Delete(ctx, "ui.theme"))
	require.NoError(t, r.Delete(ctx, "ui.theme"), "delete is idempotent")

	all, err = r.Scan(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "sessionx", all[0].Key)
}

func TestRepository_ClosedDBErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, _, err := r.Get(ctx, "k")
	assert.ErrorContains(t, err, `get metadata "k"`)

	assert.ErrorContains(t, r.Set(ctx, "k", []byte("v")), `set metadata "k"`)
	assert.ErrorContains(t, r.Delete(ctx, "k"), `delete metadata "k"`)

	_, err = r.Scan(ctx, "session.")
	assert.ErrorContains(t, err, `scan metadata "session."`)

	_, err = r.DeletePrefix(ctx, "session.")
	assert.ErrorContains(t, err, `delete metadata "session."*`)
}
