package bitwire

import (
	"github.com/SaracenOne/bitwire/schema"
	"github.com/SaracenOne/bitwire/scriptvalue"
	"github.com/SaracenOne/bitwire/wire"
)

// localTypeRef wraps a locally-registered TypeStreamer as an
// already-resolved TypeReader, so it can flow through the same
// intern.Repeated[*schema.TypeReader] table Read uses on the way back —
// our own local types are trivially an ExactMatch against themselves.
func localTypeRef(t *wire.TypeStreamer) *schema.TypeReader {
	return &schema.TypeReader{Name: t.Name, Kind: t.Kind, ExactMatch: true, Local: t}
}

// WriteValue interns a reference to t's type descriptor, then writes v in
// t's full form. This is the facade's general-purpose entry point for any
// registered value type — a field, an RPC argument, anything not itself
// a polymorphic object or shared reference.
func (b *Bitstream) WriteValue(t *wire.TypeStreamer, v any) error {
	before := b.out.BitsWritten()
	defer b.recordMsgBits(before)
	if err := b.typeDescs.Write(b.out, localTypeRef(t)); err != nil {
		return err
	}
	return t.Write(b.out, v)
}

// ReadValue mirrors WriteValue, resolving the type descriptor against
// b.wireReg (honoring any AddTypeSubstitution calls) and applying §4.4's
// remapping rules when the peer's declared type diverges from ours.
func (b *Bitstream) ReadValue() (any, error) {
	tr, err := b.typeDescs.Read(b.in)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, nil
	}
	if !tr.ExactMatch {
		b.schemaMismatches.Add(1)
	}
	return tr.Read(b.in)
}

// WriteValueDelta writes v as a delta against ref, both of type t.
func (b *Bitstream) WriteValueDelta(t *wire.TypeStreamer, v, ref any) error {
	before := b.out.BitsWritten()
	defer b.recordMsgBits(before)
	if err := b.typeDescs.Write(b.out, localTypeRef(t)); err != nil {
		return err
	}
	return t.WriteDelta(b.out, v, ref)
}

// ReadValueDelta mirrors WriteValueDelta.
func (b *Bitstream) ReadValueDelta(ref any) (any, error) {
	tr, err := b.typeDescs.Read(b.in)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, nil
	}
	if !tr.ExactMatch {
		b.schemaMismatches.Add(1)
	}
	return tr.ReadDelta(b.in, ref)
}

// WriteAttribute interns and writes a dynamically-typed script attribute.
func (b *Bitstream) WriteAttribute(v *scriptvalue.Value) error {
	before := b.out.BitsWritten()
	defer b.recordMsgBits(before)
	return b.attrs.Write(b.out, v)
}

// ReadAttribute mirrors WriteAttribute.
func (b *Bitstream) ReadAttribute() (*scriptvalue.Value, error) {
	return b.attrs.Read(b.in)
}

// WriteScriptString interns and writes s through the dedicated script
// string table, for the identifier/literal strings a scripting surface
// repeats constantly (property names, class names typed by hand).
func (b *Bitstream) WriteScriptString(s string) error {
	return b.strings.Write(b.out, &s)
}

// ReadScriptString mirrors WriteScriptString.
func (b *Bitstream) ReadScriptString() (string, error) {
	sp, err := b.strings.Read(b.in)
	if err != nil {
		return "", err
	}
	if sp == nil {
		return "", nil
	}
	return *sp, nil
}
