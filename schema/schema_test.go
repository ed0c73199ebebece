package schema_test

import (
	"bytes"
	"testing"

	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/schema"
	"github.com/SaracenOne/bitwire/wire"
	"github.com/stretchr/testify/require"
)

func colorEnum(order []wire.EnumEntry) *wire.TypeStreamer {
	return &wire.TypeStreamer{
		Name: "Color",
		Kind: wire.KindEnum,
		Enum: &wire.EnumOps{Bits: 2, NameVal: order},
	}
}

// TestEnumRemapFullS3 reproduces S3: peer RED=0,GREEN=1,BLUE=2; local
// RED=0,BLUE=1,GREEN=2. In Full metadata, decoding peer GREEN(1) yields
// local GREEN(2).
func TestEnumRemapFullS3(t *testing.T) {
	peer := colorEnum([]wire.EnumEntry{{Name: "RED", Value: 0}, {Name: "GREEN", Value: 1}, {Name: "BLUE", Value: 2}})
	local := colorEnum([]wire.EnumEntry{{Name: "RED", Value: 0}, {Name: "BLUE", Value: 1}, {Name: "GREEN", Value: 2}})

	reg := wire.Default
	reg.Register(local)

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, schema.WriteTypeDescriptor(w, peer, schema.MetadataFull))
	require.NoError(t, w.Write(1, 2)) // peer's GREEN=1, in peer's 2-bit enum
	require.NoError(t, w.Flush())

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	tr, err := schema.ReadTypeDescriptor(r, reg, schema.MetadataFull)
	require.NoError(t, err)
	require.False(t, tr.ExactMatch)

	v, err := tr.Read(r)
	require.NoError(t, err)
	require.EqualValues(t, 2, v) // local GREEN
}

// TestEnumRemapHashS3 reproduces S3's Hash-mode branch: hash differs, so
// the decoded value is 0 (no mapping).
func TestEnumRemapHashS3(t *testing.T) {
	peer := colorEnum([]wire.EnumEntry{{Name: "RED", Value: 0}, {Name: "GREEN", Value: 1}, {Name: "BLUE", Value: 2}})
	local := colorEnum([]wire.EnumEntry{{Name: "RED", Value: 0}, {Name: "BLUE", Value: 1}, {Name: "GREEN", Value: 2}})

	reg := wire.Default
	reg.Register(local)

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, schema.WriteTypeDescriptor(w, peer, schema.MetadataHash))
	require.NoError(t, w.Write(1, 2))
	require.NoError(t, w.Flush())

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	tr, err := schema.ReadTypeDescriptor(r, reg, schema.MetadataHash)
	require.NoError(t, err)
	require.False(t, tr.ExactMatch)

	v, err := tr.Read(r)
	require.NoError(t, err)
	require.EqualValues(t, 0, v)
}

type point struct {
	X, Y int64
}

func streamableOf(names []string) *wire.TypeStreamer {
	i64 := wire.Int64()
	fields := make([]wire.Field, len(names))
	for i, n := range names {
		idx := i
		fields[i] = wire.Field{
			Name:     n,
			Streamer: i64,
			Get: func(v any) any {
				p := v.(*point)
				if idx == 0 {
					return p.X
				}
				return p.Y
			},
			Set: func(v any, fv any) {
				p := v.(*point)
				if idx == 0 {
					p.X = fv.(int64)
				} else {
					p.Y = fv.(int64)
				}
			},
		}
	}
	return &wire.TypeStreamer{
		Name: "Point",
		Kind: wire.KindStreamable,
		Streamable: &wire.StreamableOps{
			Fields: fields,
			New:    func() any { return &point{} },
		},
	}
}

// TestStreamableHashRenameFallback covers invariant #5: renaming a field
// breaks ExactMatch under Hash metadata but unchanged fields still decode.
func TestStreamableHashRenameFallback(t *testing.T) {
	peer := streamableOf([]string{"x", "y"})
	local := streamableOf([]string{"x", "yRenamed"})

	reg := wire.Default
	reg.Register(local)

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, schema.WriteTypeDescriptor(w, peer, schema.MetadataHash))
	require.NoError(t, w.Write(7, 64))
	require.NoError(t, w.Write(9, 64))
	require.NoError(t, w.Flush())

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	tr, err := schema.ReadTypeDescriptor(r, reg, schema.MetadataHash)
	require.NoError(t, err)
	require.False(t, tr.ExactMatch)

	v, err := tr.Read(r)
	require.NoError(t, err)
	p := v.(*point)
	require.EqualValues(t, 7, p.X)
	require.EqualValues(t, 9, p.Y)
}

// TestStreamableFullReorder covers invariant #6: reordered fields still
// decode correctly under Full metadata.
func TestStreamableFullReorder(t *testing.T) {
	peer := streamableOf([]string{"y", "x"}) // reordered vs. local
	local := streamableOf([]string{"x", "y"})

	reg := wire.Default
	reg.Register(local)

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, schema.WriteTypeDescriptor(w, peer, schema.MetadataFull))
	require.NoError(t, w.Write(9, 64)) // y value first
	require.NoError(t, w.Write(7, 64)) // x value second
	require.NoError(t, w.Flush())

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	tr, err := schema.ReadTypeDescriptor(r, reg, schema.MetadataFull)
	require.NoError(t, err)
	require.False(t, tr.ExactMatch)

	v, err := tr.Read(r)
	require.NoError(t, err)
	p := v.(*point)
	require.EqualValues(t, 7, p.X)
	require.EqualValues(t, 9, p.Y)
}
