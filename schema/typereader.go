package schema

import (
	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/utils"
	"github.com/SaracenOne/bitwire/wire"
	"github.com/pkg/errors"
)

// ErrUnknownKind signals a type descriptor whose kind tag is not one this
// build understands — unlike ErrUnknownTypeName (name known, shape
// unknown) this is an unrecoverable wire-format violation.
var ErrUnknownKind = errors.New("schema: unknown kind tag on wire")

// FieldReader is one peer-declared field of a Streamable, with LocalIndex
// set to -1 when the peer field has no local counterpart (it is still read
// to consume the correct bit count, then discarded).
type FieldReader struct {
	Name       string
	Child      *TypeReader
	LocalIndex int
}

// TypeReader is the runtime schema shim constructed while decoding a type
// descriptor. When ExactMatch is true, Local is used verbatim and none of
// the remapping fields are consulted.
type TypeReader struct {
	Name       string
	Kind       wire.Kind
	ExactMatch bool
	Local      *wire.TypeStreamer

	// Enum remapping: peer bits/values -> local value.
	EnumBits   int
	EnumToLocal map[int64]int64
	EnumIsFlags bool

	// Streamable remapping.
	Fields []FieldReader

	// List/Set.
	Child *TypeReader

	// Map.
	KeyReader   *TypeReader
	ValueReader *TypeReader
}

// WriteTypeDescriptor writes the `<` operator form of t: name, kind tag,
// and the Hash/Full metadata body per SPEC_FULL.md §4.4's table (nothing
// extra under MetadataNone beyond name+kind).
func WriteTypeDescriptor(out *bitio.Writer, t *wire.TypeStreamer, meta MetadataType) error {
	if err := writeName(out, t.Name); err != nil {
		return err
	}
	if err := out.Write(uint64(t.Kind), kindBits); err != nil {
		return err
	}
	if meta == MetadataNone {
		return nil
	}

	switch t.Kind {
	case wire.KindSimple:
		return nil
	case wire.KindEnum:
		return writeEnumDescriptor(out, t.Enum, meta)
	case wire.KindList, wire.KindSet:
		ops := t.List
		if t.Kind == wire.KindSet {
			ops = t.Set
		}
		return WriteTypeDescriptor(out, ops.Elem, meta)
	case wire.KindMap:
		if err := WriteTypeDescriptor(out, t.Map.Key, meta); err != nil {
			return err
		}
		return WriteTypeDescriptor(out, t.Map.Value, meta)
	case wire.KindStreamable:
		return writeStreamableDescriptor(out, t.Streamable, meta)
	}
	return ErrUnknownKind
}

func writeEnumDescriptor(out *bitio.Writer, e *wire.EnumOps, meta MetadataType) error {
	if meta == MetadataHash {
		if err := out.Write(uint64(e.Bits), 8); err != nil {
			return err
		}
		return writeMD5(out, hashEnumKeysValues(e.NameVal))
	}
	// Full: keyCount, then (name, value) pairs.
	if err := out.Write(uint64(len(e.NameVal)), 16); err != nil {
		return err
	}
	for _, ent := range e.NameVal {
		if err := writeName(out, ent.Name); err != nil {
			return err
		}
		if err := out.Write(uint64(ent.Value), 64); err != nil {
			return err
		}
	}
	return nil
}

func writeStreamableDescriptor(out *bitio.Writer, s *wire.StreamableOps, meta MetadataType) error {
	if err := out.Write(uint64(len(s.Fields)), 16); err != nil {
		return err
	}
	for _, f := range s.Fields {
		if err := WriteTypeDescriptor(out, f.Streamer, meta); err != nil {
			return err
		}
		if meta == MetadataFull {
			if err := writeName(out, f.Name); err != nil {
				return err
			}
		}
	}
	if meta == MetadataHash {
		names := make([]string, len(s.Fields))
		for i, f := range s.Fields {
			names[i] = f.Name
		}
		return writeMD5(out, hashFieldNames(names))
	}
	return nil
}

// ReadTypeDescriptor reads the `>` operator form, resolving against reg to
// decide ExactMatch vs. a remapping TypeReader.
func ReadTypeDescriptor(in *bitio.Reader, reg *wire.Registry, meta MetadataType) (*TypeReader, error) {
	name, err := readName(in)
	if err != nil {
		return nil, err
	}
	kindRaw, err := in.Read(kindBits)
	if err != nil {
		return nil, err
	}
	kind := wire.Kind(kindRaw)

	local, haveLocal := reg.Lookup(name)

	tr := &TypeReader{Name: name, Kind: kind}

	if meta == MetadataNone {
		if haveLocal {
			tr.ExactMatch = true
			tr.Local = local
		}
		return tr, nil
	}

	switch kind {
	case wire.KindSimple:
		tr.ExactMatch = haveLocal
		tr.Local = local
		return tr, nil
	case wire.KindEnum:
		return readEnumDescriptor(in, tr, local, haveLocal, meta)
	case wire.KindList, wire.KindSet:
		child, err := ReadTypeDescriptor(in, reg, meta)
		if err != nil {
			return nil, err
		}
		tr.Child = child
		if haveLocal {
			var elem *wire.TypeStreamer
			if kind == wire.KindList {
				elem = local.List.Elem
			} else {
				elem = local.Set.Elem
			}
			tr.ExactMatch = child.ExactMatch && child.Name == elem.Name
			tr.Local = local
		}
		return tr, nil
	case wire.KindMap:
		keyR, err := ReadTypeDescriptor(in, reg, meta)
		if err != nil {
			return nil, err
		}
		valR, err := ReadTypeDescriptor(in, reg, meta)
		if err != nil {
			return nil, err
		}
		tr.KeyReader, tr.ValueReader = keyR, valR
		if haveLocal {
			tr.ExactMatch = keyR.ExactMatch && valR.ExactMatch
			tr.Local = local
		}
		return tr, nil
	case wire.KindStreamable:
		return readStreamableDescriptor(in, reg, tr, local, haveLocal, meta)
	}
	return nil, ErrUnknownKind
}

func readEnumDescriptor(in *bitio.Reader, tr *TypeReader, local *wire.TypeStreamer, haveLocal bool, meta MetadataType) (*TypeReader, error) {
	if meta == MetadataHash {
		bits, err := in.Read(8)
		if err != nil {
			return nil, err
		}
		peerHash, err := readMD5(in)
		if err != nil {
			return nil, err
		}
		tr.EnumBits = int(bits)
		if haveLocal && local.Kind == wire.KindEnum {
			localHash := hashEnumKeysValues(local.Enum.NameVal)
			if localHash == peerHash {
				tr.ExactMatch = true
				tr.Local = local
				return tr, nil
			}
		}
		// Hash mismatch (or no local enum): values cannot be mapped;
		// readEnumValue below treats every value as unmapped -> zero.
		tr.EnumToLocal = map[int64]int64{}
		return tr, nil
	}

	// Full mode: keyCount, then (name, value) pairs.
	n, err := in.Read(16)
	if err != nil {
		return nil, err
	}
	peerEntries := make([]wire.EnumEntry, n)
	for i := range peerEntries {
		name, err := readName(in)
		if err != nil {
			return nil, err
		}
		v, err := in.Read(64)
		if err != nil {
			return nil, err
		}
		peerEntries[i] = wire.EnumEntry{Name: name, Value: int64(v)}
	}

	maxVal := int64(0)
	for _, e := range peerEntries {
		if e.Value > maxVal {
			maxVal = e.Value
		}
	}
	tr.EnumBits = bitsForMax(maxVal)

	if !haveLocal || local.Kind != wire.KindEnum {
		tr.EnumToLocal = map[int64]int64{}
		return tr, nil
	}

	tr.EnumIsFlags = local.Enum.IsFlags
	mapping := map[int64]int64{}
	exact := true
	for _, e := range peerEntries {
		localVal, ok := local.Enum.ValueOf(e.Name)
		if !ok {
			exact = false
			continue
		}
		mapping[e.Value] = localVal
		if localVal != e.Value {
			exact = false
		}
	}
	if exact && len(peerEntries) == len(local.Enum.NameVal) {
		tr.ExactMatch = true
		tr.Local = local
		return tr, nil
	}
	tr.EnumToLocal = mapping
	tr.Local = local
	return tr, nil
}

func bitsForMax(max int64) int {
	b := utils.BitLen(max)
	if b == 0 {
		b = 1
	}
	return b
}

func readStreamableDescriptor(in *bitio.Reader, reg *wire.Registry, tr *TypeReader, local *wire.TypeStreamer, haveLocal bool, meta MetadataType) (*TypeReader, error) {
	n, err := in.Read(16)
	if err != nil {
		return nil, err
	}

	type peerField struct {
		child *TypeReader
		name  string
	}
	peerFields := make([]peerField, n)
	for i := range peerFields {
		child, err := ReadTypeDescriptor(in, reg, meta)
		if err != nil {
			return nil, err
		}
		peerFields[i].child = child
		if meta == MetadataFull {
			name, err := readName(in)
			if err != nil {
				return nil, err
			}
			peerFields[i].name = name
		}
	}

	var peerHash [16]byte
	if meta == MetadataHash {
		peerHash, err = readMD5(in)
		if err != nil {
			return nil, err
		}
	}

	if !haveLocal || local.Kind != wire.KindStreamable {
		fields := make([]FieldReader, n)
		for i, pf := range peerFields {
			fields[i] = FieldReader{Name: pf.name, Child: pf.child, LocalIndex: -1}
		}
		tr.Fields = fields
		return tr, nil
	}

	if meta == MetadataHash {
		names := make([]string, len(local.Streamable.Fields))
		for i, f := range local.Streamable.Fields {
			names[i] = f.Name
		}
		if hashFieldNames(names) == peerHash && len(names) == int(n) {
			tr.ExactMatch = true
			tr.Local = local
			return tr, nil
		}
		// Hash mismatch: fall back to positional remap (no names were
		// sent in Hash mode, so field identity is by declared position).
		fields := make([]FieldReader, n)
		for i, pf := range peerFields {
			localIdx := -1
			if i < len(local.Streamable.Fields) {
				localIdx = i
			}
			fields[i] = FieldReader{Child: pf.child, LocalIndex: localIdx}
		}
		tr.Fields = fields
		tr.Local = local
		return tr, nil
	}

	// Full mode: remap by name; exact only if field order and set match.
	fields := make([]FieldReader, n)
	exact := len(local.Streamable.Fields) == int(n)
	for i, pf := range peerFields {
		localIdx := local.Streamable.FindFieldIndex(pf.name)
		fields[i] = FieldReader{Name: pf.name, Child: pf.child, LocalIndex: localIdx}
		if localIdx != i {
			exact = false
		}
	}
	tr.Fields = fields
	tr.Local = local
	tr.ExactMatch = exact
	return tr, nil
}
