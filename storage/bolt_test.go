package storage

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "chancebot.db")
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

func TestAlerts_PutAndDelete(t *testing.T) {
	db, _ := openTemp(t)

	require.NoError(t, db.PutAlerts("42", []byte(`[{"id":1}]`)))
	require.NoError(t, db.PutAlerts("7", []byte(`[]`)))

	all, err := db.AllAlerts()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.JSONEq(t, `[{"id":1}]`, string(all["42"]))

	require.NoError(t, db.PutAlerts("42", nil))
	all, err = db.AllAlerts()
	require.NoError(t, err)
	require.NotContains(t, all, "42")
}

func TestPosted_OrderAndTrim(t *testing.T) {
	db, _ := openTemp(t)

	for i := 0; i < 6; i++ {
		require.NoError(t, db.AppendPosted("lottery-"+strconv.Itoa(i)))
	}

	ids, err := db.Posted()
	require.NoError(t, err)
	require.Equal(t, []string{"lottery-0", "lottery-1", "lottery-2", "lottery-3", "lottery-4", "lottery-5"}, ids)

	require.NoError(t, db.TrimPosted(2))
	ids, err = db.Posted()
	require.NoError(t, err)
	require.Equal(t, []string{"lottery-4", "lottery-5"}, ids)

	require.NoError(t, db.TrimPosted(10))
	ids, err = db.Posted()
	require.NoError(t, err)
	require.Len(t, ids, 2)
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	db, path := openTemp(t)
	require.NoError(t, db.AppendPosted("0xabc"))
	require.NoError(t, db.Close())

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()

	ids, err := again.Posted()
	require.NoError(t, err)
	require.Equal(t, []string{"0xabc"}, ids)
}
