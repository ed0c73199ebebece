package sharedobject_test

import (
	"bytes"
	"testing"

	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/classreg"
	"github.com/SaracenOne/bitwire/sharedobject"
	"github.com/SaracenOne/bitwire/wire"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Health int64
}

func widgetClass() *classreg.Class {
	return &classreg.Class{
		Name: "Widget",
		Properties: []classreg.Property{
			{
				Name:     "health",
				Streamer: wire.Int64(),
				Get:      func(v any) any { return v.(*widget).Health },
				Set:      func(v any, fv any) { v.(*widget).Health = fv.(int64) },
			},
		},
		New: func() any { return &widget{} },
	}
}

// TestSharedObjectSuccessor reproduces S6: X (originID=42) is emitted, then
// a successor Y sharing the same originID. The receiver must decode Y as a
// delta against X and report RemoteOriginID==the lineage tag assigned to
// originID 42.
func TestSharedObjectSuccessor(t *testing.T) {
	c := widgetClass()
	x := &widget{Health: 100}
	y := &widget{Health: 42} // mutated successor

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	wr := sharedobject.NewWriter("test-session")

	require.NoError(t, wr.Write(w, c, x, 42))
	require.NoError(t, wr.Write(w, c, y, 42))
	require.NoError(t, w.Flush())

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	rd := sharedobject.NewReader("test-session")

	hx, err := rd.Read(r, c)
	require.NoError(t, err)
	require.EqualValues(t, 100, hx.Value.(*widget).Health)

	hy, err := rd.Read(r, c)
	require.NoError(t, err)
	require.EqualValues(t, 42, hy.Value.(*widget).Health)
	require.Equal(t, hx.RemoteOriginID, hy.RemoteOriginID)
	require.NotEqual(t, hx.RemoteID, hy.RemoteID)
}

func TestSharedObjectNullAndClear(t *testing.T) {
	c := widgetClass()
	x := &widget{Health: 7}

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	wr := sharedobject.NewWriter("test-session")

	require.NoError(t, wr.Write(w, c, nil, 1))
	require.NoError(t, wr.Write(w, c, x, 2))
	require.NoError(t, wr.Clear(w, x))
	require.NoError(t, w.Flush())

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	rd := sharedobject.NewReader("test-session")

	h, err := rd.Read(r, c)
	require.NoError(t, err)
	require.Nil(t, h)

	h, err = rd.Read(r, c)
	require.NoError(t, err)
	require.False(t, h.Cleared)

	h2, err := rd.Read(r, c)
	require.NoError(t, err)
	require.True(t, h2.Cleared)
}
