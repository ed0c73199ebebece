package bitwire_test

import (
	"bytes"
	"testing"

	"github.com/SaracenOne/bitwire"
	"github.com/SaracenOne/bitwire/classreg"
	"github.com/SaracenOne/bitwire/schema"
	"github.com/SaracenOne/bitwire/scriptvalue"
	"github.com/SaracenOne/bitwire/wire"
	"github.com/stretchr/testify/require"
)

// loopbackBuffer is shared between a Bitstream's write side and read side:
// writes append, reads drain from the front, so a single Bitstream can
// exercise a full write-then-read round trip against itself.
func newLoopback() *bytes.Buffer { return &bytes.Buffer{} }

func TestWriteReadValueRoundTrip(t *testing.T) {
	buf := newLoopback()
	b := bitwire.NewBitstream(buf, wire.Default, classreg.NewRegistry(), bitwire.DefaultConfig())

	require.NoError(t, b.WriteValue(wire.Int64(), int64(42)))
	require.NoError(t, b.Flush())

	v, err := b.ReadValue()
	require.NoError(t, err)
	require.Equal(t, int64(42), v)

	stats := b.Stats()
	require.Greater(t, stats.BytesWritten, uint64(0))
	// One entry on the write side and one on the read side of the loopback.
	require.EqualValues(t, 2, stats.TypeDescriptorsInterned)
	require.Greater(t, stats.AvgMessageBits, float64(0))
}

func TestWriteReadValueDeltaRoundTrip(t *testing.T) {
	buf := newLoopback()
	b := bitwire.NewBitstream(buf, wire.Default, classreg.NewRegistry(), bitwire.DefaultConfig())

	require.NoError(t, b.WriteValueDelta(wire.Int64(), int64(7), int64(3)))
	require.NoError(t, b.Flush())

	v, err := b.ReadValueDelta(int64(3))
	require.NoError(t, err)
	require.Equal(t, int64(7), v)
}

func TestGenericsAllForcesMetadataFull(t *testing.T) {
	buf := newLoopback()
	cfg := bitwire.DefaultConfig()
	cfg.Generics = bitwire.GenericsAll
	b := bitwire.NewBitstream(buf, wire.Default, classreg.NewRegistry(), cfg)
	require.Equal(t, schema.MetadataFull, b.Config().Metadata)
}

type widget struct{ Health int64 }

func widgetClass(name string) *classreg.Class {
	return &classreg.Class{
		Name: name,
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

func TestObjectRoundTrip(t *testing.T) {
	buf := newLoopback()
	reg := classreg.NewRegistry()
	c := widgetClass("Widget")
	reg.Register(c)

	b := bitwire.NewBitstream(buf, wire.Default, reg, bitwire.DefaultConfig())
	require.NoError(t, b.WriteObject(c, &widget{Health: 88}))
	require.NoError(t, b.Flush())

	v, err := b.ReadObject()
	require.NoError(t, err)
	require.Equal(t, int64(88), v.(*widget).Health)
}

func TestClassSubstitution(t *testing.T) {
	buf := newLoopback()
	reg := classreg.NewRegistry()
	local := widgetClass("Widget")
	reg.Register(local)

	b := bitwire.NewBitstream(buf, wire.Default, reg, bitwire.DefaultConfig())
	require.NoError(t, b.AddClassSubstitution("RemoteWidget", local))

	// A peer whose class happens to be named RemoteWidget but has the
	// identical property shape: writing under that name still resolves,
	// via the substitution above, to the local Widget class on read.
	peer := widgetClass("RemoteWidget")
	require.NoError(t, b.WriteObject(peer, &widget{Health: 5}))
	require.NoError(t, b.Flush())

	v, err := b.ReadObject()
	require.NoError(t, err)
	require.Equal(t, int64(5), v.(*widget).Health)
}

func TestSharedObjectPassthrough(t *testing.T) {
	buf := newLoopback()
	reg := classreg.NewRegistry()
	c := widgetClass("Widget")
	reg.Register(c)

	b := bitwire.NewBitstream(buf, wire.Default, reg, bitwire.DefaultConfig())

	x := &widget{Health: 100}
	require.NoError(t, b.WriteSharedObject(c, x, 42))
	y := &widget{Health: 42}
	require.NoError(t, b.WriteSharedObject(c, y, 42))
	require.NoError(t, b.Flush())

	hx, err := b.ReadSharedObject(c)
	require.NoError(t, err)
	hy, err := b.ReadSharedObject(c)
	require.NoError(t, err)

	require.Equal(t, int64(100), hx.Value.(*widget).Health)
	require.Equal(t, int64(42), hy.Value.(*widget).Health)
	require.Equal(t, hx.RemoteOriginID, hy.RemoteOriginID)
	require.NotEqual(t, hx.RemoteID, hy.RemoteID)

	stats := b.Stats()
	require.GreaterOrEqual(t, stats.SharedObjectsInterned, uint64(1))
}

func TestAttributeAndScriptStringRoundTrip(t *testing.T) {
	buf := newLoopback()
	b := bitwire.NewBitstream(buf, wire.Default, classreg.NewRegistry(), bitwire.DefaultConfig())

	require.NoError(t, b.WriteAttribute(scriptvalue.NewString("hello")))
	require.NoError(t, b.WriteScriptString("propName"))
	require.NoError(t, b.Flush())

	attr, err := b.ReadAttribute()
	require.NoError(t, err)
	require.True(t, attr.IsString())
	require.Equal(t, "hello", attr.ToString())

	s, err := b.ReadScriptString()
	require.NoError(t, err)
	require.Equal(t, "propName", s)
}
