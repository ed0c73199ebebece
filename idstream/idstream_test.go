package idstream_test

import (
	"bytes"
	"testing"

	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/idstream"
	"github.com/stretchr/testify/require"
)

// TestGrowthSequence reproduces the S2 scenario: four fresh issuances use
// sentinel widths [1,2,2,3] and sentinel values [1,3,3,7].
func TestGrowthSequence(t *testing.T) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	ids := idstream.NewWriter()

	var gotBits []int
	var gotIDs []uint64
	for i := 0; i < 4; i++ {
		id, err := ids.WriteNew(w)
		require.NoError(t, err)
		gotBits = append(gotBits, ids.Bits())
		gotIDs = append(gotIDs, id)
	}
	require.NoError(t, w.Flush())
	require.Equal(t, []int{1, 2, 2, 3}, gotBits)
	require.Equal(t, []uint64{0, 1, 2, 3}, gotIDs)
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	ids := idstream.NewWriter()

	id0, err := ids.WriteNew(w)
	require.NoError(t, err)
	require.NoError(t, w.Write(id0, 8)) // pretend payload for id 0
	id1, err := ids.WriteNew(w)
	require.NoError(t, err)
	require.NoError(t, w.Write(id1, 8))
	require.NoError(t, ids.WriteKnown(w, id0))
	require.NoError(t, w.Flush())

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	rids := idstream.NewReader()

	id, isNew, err := rids.Read(r)
	require.NoError(t, err)
	require.True(t, isNew)
	require.EqualValues(t, 0, id)
	payload, err := r.Read(8)
	require.NoError(t, err)
	require.EqualValues(t, 0, payload)

	id, isNew, err = rids.Read(r)
	require.NoError(t, err)
	require.True(t, isNew)
	require.EqualValues(t, 1, id)
	payload, err = r.Read(8)
	require.NoError(t, err)
	require.EqualValues(t, 1, payload)

	id, isNew, err = rids.Read(r)
	require.NoError(t, err)
	require.False(t, isNew)
	require.EqualValues(t, 0, id)
}
