package schema

import (
	"reflect"

	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/wire"
)

// Read decodes one full-form value described by tr. When ExactMatch, this
// is just tr.Local.Read; otherwise it applies the per-kind remapping rules
// of SPEC_FULL.md §4.4 (unknown enum values -> zero, absent fields
// consumed-and-dropped, etc).
func (tr *TypeReader) Read(in *bitio.Reader) (any, error) {
	if tr.ExactMatch {
		return tr.Local.Read(in)
	}
	switch tr.Kind {
	case wire.KindSimple:
		if tr.Local != nil {
			return tr.Local.Read(in)
		}
		return nil, nil
	case wire.KindEnum:
		return tr.readEnumValue(in)
	case wire.KindStreamable:
		return tr.readStreamableValue(in)
	case wire.KindList, wire.KindSet:
		return tr.readSeqValue(in)
	case wire.KindMap:
		return tr.readMapValue(in)
	}
	return nil, ErrUnknownKind
}

// ReadDelta mirrors wire.TypeStreamer.ReadDelta: a leading changed bit,
// then, if set, the kind-specific raw delta body through ReadRawDelta.
// ExactMatch delegates straight to the local streamer, which already
// implements this exactly; the remapping path below reconstructs the same
// wire layout one level up, through the peer-shaped TypeReader tree.
func (tr *TypeReader) ReadDelta(in *bitio.Reader, ref any) (any, error) {
	if tr.ExactMatch {
		return tr.Local.ReadDelta(in, ref)
	}
	changed, err := in.ReadBool()
	if err != nil {
		return nil, err
	}
	if !changed {
		return ref, nil
	}
	return tr.ReadRawDelta(in, ref)
}

// ReadRawDelta mirrors wire.TypeStreamer.ReadRawDelta: the delta body
// without the leading changed bit, used by ReadDelta's changed branch and
// directly by a Map's "modified" section.
func (tr *TypeReader) ReadRawDelta(in *bitio.Reader, ref any) (any, error) {
	if tr.ExactMatch {
		return tr.Local.ReadRawDelta(in, ref)
	}
	switch tr.Kind {
	case wire.KindSimple:
		if tr.Local != nil {
			return tr.Local.Read(in)
		}
		return nil, nil
	case wire.KindEnum:
		return tr.readEnumValue(in)
	case wire.KindStreamable:
		return tr.readStreamableValueDelta(in, ref)
	case wire.KindList:
		return tr.readListValueDelta(in, ref)
	case wire.KindSet:
		return tr.readSetValueDelta(in, ref)
	case wire.KindMap:
		return tr.readMapValueDelta(in, ref)
	}
	return nil, ErrUnknownKind
}

func (tr *TypeReader) readEnumValue(in *bitio.Reader) (any, error) {
	raw, err := in.Read(tr.EnumBits)
	if err != nil {
		return nil, err
	}
	peerVal := int64(raw)
	if tr.EnumToLocal == nil {
		return peerVal, nil
	}
	if tr.EnumIsFlags {
		var composed int64
		for bit := 0; bit < tr.EnumBits; bit++ {
			if peerVal&(1<<bit) == 0 {
				continue
			}
			if lv, ok := tr.EnumToLocal[int64(1)<<bit]; ok {
				composed |= lv
			}
		}
		return composed, nil
	}
	if lv, ok := tr.EnumToLocal[peerVal]; ok {
		return lv, nil
	}
	return int64(0), nil
}

func (tr *TypeReader) readStreamableValue(in *bitio.Reader) (any, error) {
	var obj any
	if tr.Local != nil {
		obj = tr.Local.Streamable.New()
	}
	for _, f := range tr.Fields {
		v, err := f.Child.Read(in)
		if err != nil {
			return nil, err
		}
		if f.LocalIndex < 0 || obj == nil {
			continue // peer field has no local counterpart: read, then drop.
		}
		tr.Local.Streamable.Fields[f.LocalIndex].Set(obj, v)
	}
	return obj, nil
}

// readStreamableValueDelta mirrors wire.readStreamableDelta: each peer
// field is itself delta-decoded (its own changed bit) against the ref
// object's corresponding local field, in the peer's declared order.
func (tr *TypeReader) readStreamableValueDelta(in *bitio.Reader, ref any) (any, error) {
	var obj any
	if tr.Local != nil {
		obj = tr.Local.Streamable.New()
	}
	for _, f := range tr.Fields {
		var fieldRef any
		if f.LocalIndex >= 0 && tr.Local != nil {
			fieldRef = tr.Local.Streamable.Fields[f.LocalIndex].Get(ref)
		}
		v, err := f.Child.ReadDelta(in, fieldRef)
		if err != nil {
			return nil, err
		}
		if f.LocalIndex < 0 || obj == nil {
			continue
		}
		tr.Local.Streamable.Fields[f.LocalIndex].Set(obj, v)
	}
	return obj, nil
}

func (tr *TypeReader) readSeqValue(in *bitio.Reader) (any, error) {
	n, err := in.Read(32)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := tr.Child.Read(in)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// readListValueDelta mirrors wire.readListDelta: size, referenceSize, a
// per-index delta over the overlapping prefix, then raw reads for the new
// tail. ref is expected to be the []any a prior Read/ReadDelta produced.
func (tr *TypeReader) readListValueDelta(in *bitio.Reader, ref any) (any, error) {
	size, err := in.Read(32)
	if err != nil {
		return nil, err
	}
	refSize, err := in.Read(32)
	if err != nil {
		return nil, err
	}
	refSlice, _ := ref.([]any)
	minLen := size
	if refSize < minLen {
		minLen = refSize
	}
	out := make([]any, 0, size)
	for i := uint64(0); i < minLen; i++ {
		var elemRef any
		if int(i) < len(refSlice) {
			elemRef = refSlice[i]
		}
		v, err := tr.Child.ReadDelta(in, elemRef)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	for i := minLen; i < size; i++ {
		v, err := tr.Child.Read(in)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// readSetValueDelta mirrors wire.readSetDelta: a diff count, then that many
// raw elements, each toggled into a copy of ref to reconstruct the set.
func (tr *TypeReader) readSetValueDelta(in *bitio.Reader, ref any) (any, error) {
	n, err := in.Read(32)
	if err != nil {
		return nil, err
	}
	refSlice, _ := ref.([]any)
	out := append([]any{}, refSlice...)
	for i := uint64(0); i < n; i++ {
		e, err := tr.Child.Read(in)
		if err != nil {
			return nil, err
		}
		out = toggleElem(out, e)
	}
	return out, nil
}

// toggleElem removes e from set if present, otherwise appends it, by
// reflect.DeepEqual — the remapping path has no local type to ask for a
// richer equality and falls back to structural comparison.
func toggleElem(set []any, e any) []any {
	for i, existing := range set {
		if reflect.DeepEqual(existing, e) {
			return append(set[:i], set[i+1:]...)
		}
	}
	return append(set, e)
}

func (tr *TypeReader) readMapValue(in *bitio.Reader) (any, error) {
	n, err := in.Read(32)
	if err != nil {
		return nil, err
	}
	out := map[any]any{}
	for i := uint64(0); i < n; i++ {
		k, err := tr.KeyReader.Read(in)
		if err != nil {
			return nil, err
		}
		v, err := tr.ValueReader.Read(in)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// readMapValueDelta mirrors wire.readMapDelta's three sections: added
// (key, value) pairs raw, modified (key, raw-value-delta) pairs, removed
// keys. ref is expected to be the map[any]any a prior Read/ReadDelta
// produced.
func (tr *TypeReader) readMapValueDelta(in *bitio.Reader, ref any) (any, error) {
	refMap, _ := ref.(map[any]any)
	out := map[any]any{}
	for k, v := range refMap {
		out[k] = v
	}

	nAdded, err := in.Read(32)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nAdded; i++ {
		k, err := tr.KeyReader.Read(in)
		if err != nil {
			return nil, err
		}
		v, err := tr.ValueReader.Read(in)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}

	nModified, err := in.Read(32)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nModified; i++ {
		k, err := tr.KeyReader.Read(in)
		if err != nil {
			return nil, err
		}
		v, err := tr.ValueReader.ReadRawDelta(in, out[k])
		if err != nil {
			return nil, err
		}
		out[k] = v
	}

	nRemoved, err := in.Read(32)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nRemoved; i++ {
		k, err := tr.KeyReader.Read(in)
		if err != nil {
			return nil, err
		}
		delete(out, k)
	}

	return out, nil
}
