package bitio_test

import (
	"bytes"
	"testing"

	"github.com/SaracenOne/bitwire/bitio"
	"github.com/stretchr/testify/require"
)

func TestBoolPacking(t *testing.T) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	for _, b := range []bool{true, false, true, true} {
		require.NoError(t, w.WriteBool(b))
	}
	require.NoError(t, w.Flush())
	require.Equal(t, []byte{0x0D}, buf.Bytes())

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	got := make([]bool, 4)
	for i := range got {
		v, err := r.ReadBool()
		require.NoError(t, err)
		got[i] = v
	}
	require.Equal(t, []bool{true, false, true, true}, got)
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, w.Write(5, 3))
	require.NoError(t, w.Write(200, 8))
	require.NoError(t, w.Write(1, 1))
	require.NoError(t, w.Flush())

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	v, err := r.Read(3)
	require.NoError(t, err)
	require.EqualValues(t, 5, v)

	v, err = r.Read(8)
	require.NoError(t, err)
	require.EqualValues(t, 200, v)

	v, err = r.Read(1)
	require.NoError(t, err)
	require.EqualValues(t, 1, v)
}

func TestFlushAlignsToByteBoundary(t *testing.T) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, w.Write(1, 3))
	require.False(t, w.Aligned())
	require.NoError(t, w.Flush())
	require.True(t, w.Aligned())
	require.Len(t, buf.Bytes(), 1)
}

func TestByteSpanningWrite(t *testing.T) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	// 13 bits spanning two bytes.
	require.NoError(t, w.Write(0x1A3A, 13))
	require.NoError(t, w.Flush())

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	v, err := r.Read(13)
	require.NoError(t, err)
	require.EqualValues(t, 0x1A3A&((1<<13)-1), v)
}
