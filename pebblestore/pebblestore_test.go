package pebblestore_test

import (
	"path/filepath"
	"testing"

	"github.com/SaracenOne/bitwire/pebblestore"
	"github.com/stretchr/testify/require"
)

func TestTablePutGetScan(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	s, err := pebblestore.Open(dir, pebblestore.Options{})
	require.NoError(t, err)
	defer s.Close()

	tbl := s.Table("types")
	require.NoError(t, tbl.PutID(1, []byte("int64")))
	require.NoError(t, tbl.PutID(2, []byte("string")))

	v, ok, err := tbl.GetID(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "int64", string(v))

	_, ok, err = tbl.GetID(99)
	require.NoError(t, err)
	require.False(t, ok)

	seen := map[uint64]string{}
	require.NoError(t, tbl.Scan(func(id uint64, value []byte) error {
		seen[id] = string(value)
		return nil
	}))
	require.Equal(t, map[uint64]string{1: "int64", 2: "string"}, seen)

	require.NoError(t, tbl.DeleteID(1))
	_, ok, err = tbl.GetID(1)
	require.NoError(t, err)
	require.False(t, ok)
}
