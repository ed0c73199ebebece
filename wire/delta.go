package wire

import "github.com/SaracenOne/bitwire/bitio"

// WriteDelta implements §4.5: emit a "changed" bit, then the kind-specific
// raw delta only if the value differs from the reference. For compound
// kinds that have their own internal changed/unchanged signaling (List,
// Set, Map), the outer changed bit is still emitted first as a fast path
// for the fully-identical case, matching invariant #4 ("if v == ref, the
// delta encoding is exactly one bit").
func (t *TypeStreamer) WriteDelta(out *bitio.Writer, v, ref any) error {
	equal := t.Equal(v, ref)
	if err := out.WriteBool(!equal); err != nil {
		return err
	}
	if equal {
		return nil
	}
	return t.WriteRawDelta(out, v, ref)
}

// ReadDelta mirrors WriteDelta.
func (t *TypeStreamer) ReadDelta(in *bitio.Reader, ref any) (any, error) {
	changed, err := in.ReadBool()
	if err != nil {
		return nil, err
	}
	if !changed {
		return ref, nil
	}
	return t.ReadRawDelta(in, ref)
}

// WriteRawDelta writes the kind-specific delta body without the leading
// changed-bit, used directly by Map's per-entry "modified" section and by
// WriteDelta's non-equal branch.
func (t *TypeStreamer) WriteRawDelta(out *bitio.Writer, v, ref any) error {
	switch t.Kind {
	case KindSimple:
		return t.Simple.Write(out, v)
	case KindEnum:
		return writeEnum(out, t.Enum, v)
	case KindStreamable:
		return writeStreamableDelta(out, t.Streamable, v, ref)
	case KindList:
		return writeListDelta(out, t.List, v, ref)
	case KindSet:
		return writeSetDelta(out, t.Set, v, ref)
	case KindMap:
		return writeMapDelta(out, t.Map, v, ref)
	}
	return ErrUnknownKind
}

// ReadRawDelta mirrors WriteRawDelta.
func (t *TypeStreamer) ReadRawDelta(in *bitio.Reader, ref any) (any, error) {
	switch t.Kind {
	case KindSimple:
		return t.Simple.Read(in)
	case KindEnum:
		return readEnum(in, t.Enum)
	case KindStreamable:
		return readStreamableDelta(in, t.Streamable, ref)
	case KindList:
		return readListDelta(in, t.List, ref)
	case KindSet:
		return readSetDelta(in, t.Set, ref)
	case KindMap:
		return readMapDelta(in, t.Map, ref)
	}
	return nil, ErrUnknownKind
}
