package wire_test

import (
	"bytes"
	"testing"

	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/wire"
	"github.com/stretchr/testify/require"
)

func listOpsOf(elem *wire.TypeStreamer) *wire.SeqOps {
	return &wire.SeqOps{
		Elem: elem,
		Len: func(v any) int {
			if v == nil {
				return 0
			}
			return len(v.([]any))
		},
		At: func(v any, i int) any { return v.([]any)[i] },
		Append: func(v any, elem any) any {
			if v == nil {
				return []any{elem}
			}
			return append(v.([]any), elem)
		},
		Prune: func(v any, newLen int) any {
			if v == nil {
				return []any{}
			}
			return v.([]any)[:newLen]
		},
		Contains: func(v any, elem any) bool {
			for _, e := range v.([]any) {
				if e == elem {
					return true
				}
			}
			return false
		},
		Toggle: func(v any, elem any) any {
			s := v.([]any)
			for i, e := range s {
				if e == elem {
					out := make([]any, 0, len(s)-1)
					out = append(out, s[:i]...)
					out = append(out, s[i+1:]...)
					return out
				}
			}
			out := make([]any, len(s), len(s)+1)
			copy(out, s)
			return append(out, elem)
		},
	}
}

func TestListDeltaS4(t *testing.T) {
	elem := wire.Int64()
	ops := listOpsOf(elem)
	listType := &wire.TypeStreamer{Name: "list", Kind: wire.KindList, List: ops}

	ref := []any{int64(1), int64(2), int64(3)}
	v := []any{int64(1), int64(9), int64(3), int64(4)}

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, listType.WriteDelta(w, v, ref))
	require.NoError(t, w.Flush())

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := listType.ReadDelta(r, ref)
	require.NoError(t, err)
	require.Equal(t, v, got.([]any))
}

func TestSetDeltaS5(t *testing.T) {
	elem := wire.String()
	ops := listOpsOf(elem)
	setType := &wire.TypeStreamer{Name: "set", Kind: wire.KindSet, Set: ops}

	ref := []any{"a", "b", "c"}
	v := []any{"a", "c", "d"}

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, setType.WriteDelta(w, v, ref))
	require.NoError(t, w.Flush())

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := setType.ReadDelta(r, ref)
	require.NoError(t, err)

	gotSet := got.([]any)
	require.ElementsMatch(t, v, gotSet)
}

func TestEnumRemapFull(t *testing.T) {
	// Peer: RED=0, GREEN=1, BLUE=2. Local: RED=0, BLUE=1, GREEN=2.
	peer := &wire.EnumOps{Bits: 2, NameVal: []wire.EnumEntry{
		{Name: "RED", Value: 0}, {Name: "GREEN", Value: 1}, {Name: "BLUE", Value: 2},
	}}
	local := &wire.EnumOps{Bits: 2, NameVal: []wire.EnumEntry{
		{Name: "RED", Value: 0}, {Name: "BLUE", Value: 1}, {Name: "GREEN", Value: 2},
	}}

	peerVal := int64(1) // peer's GREEN
	name, ok := peer.NameOf(peerVal)
	require.True(t, ok)
	require.Equal(t, "GREEN", name)

	localVal, ok := local.ValueOf(name)
	require.True(t, ok)
	require.EqualValues(t, 2, localVal) // local GREEN
}

func TestDeltaZeroWhenEqual(t *testing.T) {
	i64 := wire.Int64()
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, i64.WriteDelta(w, int64(5), int64(5)))
	require.NoError(t, w.Flush())
	require.Len(t, buf.Bytes(), 1) // exactly one bit rounds to one byte on flush
}

func mapOpsOf(key, val *wire.TypeStreamer) *wire.MapOps {
	return &wire.MapOps{
		Key:   key,
		Value: val,
		Keys: func(v any) []any {
			m := v.(map[any]any)
			out := make([]any, 0, len(m))
			for k := range m {
				out = append(out, k)
			}
			return out
		},
		Get: func(v any, k any) (any, bool) {
			val, ok := v.(map[any]any)[k]
			return val, ok
		},
		Set: func(v any, k any, val any) any {
			m := v.(map[any]any)
			m[k] = val
			return m
		},
		Del: func(v any, k any) any {
			m := v.(map[any]any)
			delete(m, k)
			return m
		},
		New: func() any { return map[any]any{} },
	}
}

func TestMapDelta(t *testing.T) {
	key, val := wire.String(), wire.Int64()
	ops := mapOpsOf(key, val)
	mapType := &wire.TypeStreamer{Name: "map", Kind: wire.KindMap, Map: ops}

	ref := map[any]any{"a": int64(1), "b": int64(2)}
	v := map[any]any{"a": int64(1), "b": int64(99), "c": int64(3)}

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, mapType.WriteDelta(w, v, ref))
	require.NoError(t, w.Flush())

	refCopy := map[any]any{"a": int64(1), "b": int64(2)}
	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := mapType.ReadDelta(r, refCopy)
	require.NoError(t, err)
	require.Equal(t, v, got.(map[any]any))
}
