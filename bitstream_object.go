package bitwire

import (
	"github.com/SaracenOne/bitwire/classreg"
	"github.com/SaracenOne/bitwire/schema"
	"github.com/SaracenOne/bitwire/sharedobject"
)

// localClassRef wraps a locally-registered Class as an already-resolved
// ObjectReader, mirroring localTypeRef.
func localClassRef(c *classreg.Class) *schema.ObjectReader {
	return &schema.ObjectReader{ClassName: c.Name, Local: c, ExactMatch: true}
}

// WriteObject interns a reference to c's class descriptor, then writes obj
// in full form. Used for a polymorphic value transmitted by value, with no
// shared-object identity tracking — see WriteSharedObject for the
// by-reference case.
func (b *Bitstream) WriteObject(c *classreg.Class, obj any) error {
	if obj == nil {
		return ErrNilObject
	}
	before := b.out.BitsWritten()
	defer b.recordMsgBits(before)
	if err := b.classDescs.Write(b.out, localClassRef(c)); err != nil {
		return err
	}
	return schema.WriteObject(b.out, c, obj)
}

// ReadObject mirrors WriteObject.
func (b *Bitstream) ReadObject() (any, error) {
	or, err := b.classDescs.Read(b.in)
	if err != nil {
		return nil, err
	}
	if or == nil {
		return nil, nil
	}
	if !or.ExactMatch {
		b.schemaMismatches.Add(1)
	}
	return or.Read(b.in)
}

// WriteObjectDelta writes obj as a per-property delta against ref, both
// of class c.
func (b *Bitstream) WriteObjectDelta(c *classreg.Class, obj, ref any) error {
	if obj == nil {
		return ErrNilObject
	}
	before := b.out.BitsWritten()
	defer b.recordMsgBits(before)
	if err := b.classDescs.Write(b.out, localClassRef(c)); err != nil {
		return err
	}
	return schema.WriteObjectDelta(b.out, c, obj, ref)
}

// ReadObjectDelta mirrors WriteObjectDelta.
func (b *Bitstream) ReadObjectDelta(ref any) (any, error) {
	or, err := b.classDescs.Read(b.in)
	if err != nil {
		return nil, err
	}
	if or == nil {
		return nil, nil
	}
	if !or.ExactMatch {
		b.schemaMismatches.Add(1)
	}
	return or.ReadDelta(b.in, ref)
}

// WriteSharedObject writes value as a shared object reference under
// lineage originID, delegating identity/successor bookkeeping to
// sharedobject.Writer. A nil value writes the null marker.
func (b *Bitstream) WriteSharedObject(c *classreg.Class, value any, originID uint64) error {
	before := b.out.BitsWritten()
	defer b.recordMsgBits(before)
	return b.sharedW.Write(b.out, c, value, originID)
}

// ReadSharedObject mirrors WriteSharedObject.
func (b *Bitstream) ReadSharedObject(c *classreg.Class) (*sharedobject.Handle, error) {
	return b.sharedR.Read(b.in, c)
}

// ClearSharedObject notifies the peer that value is no longer shared and
// stops tracking it on the write side.
func (b *Bitstream) ClearSharedObject(value any) error {
	return b.sharedW.Clear(b.out, value)
}
