package scriptvalue

import (
	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/classreg"
	"github.com/SaracenOne/bitwire/schema"
	"github.com/SaracenOne/bitwire/wire"
)

// WriteDelta encodes v against ref: a leading type-changed bit, then (if
// the kind did not change) a kind-specific delta rather than a full value.
// Undefined/Null/Invalid carry no payload at all, so "same kind" already
// says everything there is to say.
func (v *Value) WriteDelta(out *bitio.Writer, ref *Value, reg *wire.Registry, classReg *classreg.Registry, meta schema.MetadataType) error {
	typeChanged := v.Kind != ref.Kind
	if err := out.WriteBool(typeChanged); err != nil {
		return err
	}
	if typeChanged {
		return v.Write(out, reg, classReg, meta)
	}
	switch v.Kind {
	case Invalid, Undefined, Null:
		return nil
	case Bool:
		return out.WriteBool(v.boolVal)
	case Number:
		return wire.Float64().Write(out, v.numberVal)
	case String:
		return wire.String().Write(out, v.stringVal)
	case Date:
		return wire.Int64().Write(out, v.dateVal)
	case RegExp:
		if err := wire.String().Write(out, v.regexpPattern); err != nil {
			return err
		}
		return out.Write(uint64(v.regexpFlags), regexpFlagBits)
	case MetaObject:
		return wire.String().Write(out, v.metaClassName)
	case Variant:
		return v.writeVariantDelta(out, ref, meta)
	case ClassObject:
		return v.writeClassDelta(out, ref, classReg, meta)
	case Array:
		return v.writeArrayDelta(out, ref, reg, classReg, meta)
	case Object, ObjectRecord:
		return v.writeBagDelta(out, ref, reg, classReg, meta)
	}
	return ErrUnknownKind
}

func (v *Value) writeVariantDelta(out *bitio.Writer, ref *Value, meta schema.MetadataType) error {
	sameType := v.variantType != nil && ref.variantType != nil && v.variantType.Name == ref.variantType.Name
	if err := out.WriteBool(sameType); err != nil {
		return err
	}
	if !sameType {
		if err := schema.WriteTypeDescriptor(out, v.variantType, meta); err != nil {
			return err
		}
		return v.variantType.Write(out, v.variantVal)
	}
	return v.variantType.WriteDelta(out, v.variantVal, ref.variantVal)
}

func (v *Value) writeClassDelta(out *bitio.Writer, ref *Value, classReg *classreg.Registry, meta schema.MetadataType) error {
	sameClass := v.className == ref.className
	if err := out.WriteBool(sameClass); err != nil {
		return err
	}
	class, _ := classReg.Lookup(v.className)
	if !sameClass {
		if err := schema.WriteClassDescriptor(out, classReg, class, meta); err != nil {
			return err
		}
		return schema.WriteObject(out, class, v.classVal)
	}
	return schema.WriteObjectDelta(out, class, v.classVal, ref.classVal)
}

func (v *Value) writeArrayDelta(out *bitio.Writer, ref *Value, reg *wire.Registry, classReg *classreg.Registry, meta schema.MetadataType) error {
	size, refSize := len(v.arrayVal), len(ref.arrayVal)
	if err := out.Write(uint64(size), lengthBits); err != nil {
		return err
	}
	if err := out.Write(uint64(refSize), lengthBits); err != nil {
		return err
	}
	minLen := size
	if refSize < minLen {
		minLen = refSize
	}
	for i := 0; i < minLen; i++ {
		if err := v.arrayVal[i].WriteDelta(out, ref.arrayVal[i], reg, classReg, meta); err != nil {
			return err
		}
	}
	for i := minLen; i < size; i++ {
		if err := v.arrayVal[i].Write(out, reg, classReg, meta); err != nil {
			return err
		}
	}
	return nil
}

// writeBagDelta implements the dynamic-property-bag delta: properties
// present in v and changed (or absent from ref) are emitted name+delta;
// then properties present only in ref are emitted name+delta-from-
// undefined, so the reader can clear them. Each section is a run of
// (more-bool, name, delta) triples terminated by a false more-bool,
// standing in for a literal sentinel value since Go strings have no
// natural "invalid" representation to overload.
func (v *Value) writeBagDelta(out *bitio.Writer, ref *Value, reg *wire.Registry, classReg *classreg.Registry, meta schema.MetadataType) error {
	for name, pv := range v.props {
		rv, inRef := ref.props[name]
		if inRef && valuesEqual(pv, rv) {
			continue
		}
		if !inRef {
			rv = NewUndefined()
		}
		if err := out.WriteBool(true); err != nil {
			return err
		}
		if err := wire.String().Write(out, name); err != nil {
			return err
		}
		if err := pv.WriteDelta(out, rv, reg, classReg, meta); err != nil {
			return err
		}
	}
	if err := out.WriteBool(false); err != nil {
		return err
	}
	for name := range ref.props {
		if _, stillPresent := v.props[name]; stillPresent {
			continue
		}
		if err := out.WriteBool(true); err != nil {
			return err
		}
		if err := wire.String().Write(out, name); err != nil {
			return err
		}
		if err := NewUndefined().WriteDelta(out, ref.props[name], reg, classReg, meta); err != nil {
			return err
		}
	}
	return out.WriteBool(false)
}

func valuesEqual(a, b *Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Bool:
		return a.boolVal == b.boolVal
	case Number:
		return a.numberVal == b.numberVal
	case String:
		return a.stringVal == b.stringVal
	default:
		return false // compound kinds are always treated as potentially changed
	}
}
