package scriptvalue

import (
	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/classreg"
	"github.com/SaracenOne/bitwire/schema"
	"github.com/SaracenOne/bitwire/wire"
)

// ReadDelta mirrors WriteDelta.
func ReadDelta(in *bitio.Reader, ref *Value, reg *wire.Registry, classReg *classreg.Registry, meta schema.MetadataType) (*Value, error) {
	typeChanged, err := in.ReadBool()
	if err != nil {
		return nil, err
	}
	if typeChanged {
		return Read(in, reg, classReg, meta)
	}
	switch ref.Kind {
	case Invalid, Undefined, Null:
		return &Value{Kind: ref.Kind}, nil
	case Bool:
		b, err := in.ReadBool()
		return &Value{Kind: Bool, boolVal: b}, err
	case Number:
		n, err := wire.Float64().Read(in)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: Number, numberVal: n.(float64)}, nil
	case String:
		s, err := wire.String().Read(in)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: String, stringVal: s.(string)}, nil
	case Date:
		ms, err := wire.Int64().Read(in)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: Date, dateVal: ms.(int64)}, nil
	case RegExp:
		pattern, err := wire.String().Read(in)
		if err != nil {
			return nil, err
		}
		flags, err := in.Read(regexpFlagBits)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: RegExp, regexpPattern: pattern.(string), regexpFlags: uint8(flags)}, nil
	case MetaObject:
		name, err := wire.String().Read(in)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: MetaObject, metaClassName: name.(string)}, nil
	case Variant:
		return readVariantDelta(in, ref, reg, meta)
	case ClassObject:
		return readClassDelta(in, ref, classReg, meta)
	case Array:
		return readArrayDelta(in, ref, reg, classReg, meta)
	case Object, ObjectRecord:
		return readBagDelta(in, ref, reg, classReg, meta)
	}
	return nil, ErrUnknownKind
}

func readVariantDelta(in *bitio.Reader, ref *Value, reg *wire.Registry, meta schema.MetadataType) (*Value, error) {
	sameType, err := in.ReadBool()
	if err != nil {
		return nil, err
	}
	if !sameType {
		tr, err := schema.ReadTypeDescriptor(in, reg, meta)
		if err != nil {
			return nil, err
		}
		val, err := tr.Read(in)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: Variant, variantType: tr.Local, variantVal: val}, nil
	}
	val, err := ref.variantType.ReadDelta(in, ref.variantVal)
	if err != nil {
		return nil, err
	}
	return &Value{Kind: Variant, variantType: ref.variantType, variantVal: val}, nil
}

func readClassDelta(in *bitio.Reader, ref *Value, classReg *classreg.Registry, meta schema.MetadataType) (*Value, error) {
	sameClass, err := in.ReadBool()
	if err != nil {
		return nil, err
	}
	if !sameClass {
		or, err := schema.ReadClassDescriptor(in, classReg, meta)
		if err != nil {
			return nil, err
		}
		val, err := or.Read(in)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: ClassObject, className: or.ClassName, classVal: val}, nil
	}
	class, _ := classReg.Lookup(ref.className)
	val, err := schema.ReadObjectDelta(in, class, ref.classVal)
	if err != nil {
		return nil, err
	}
	return &Value{Kind: ClassObject, className: ref.className, classVal: val}, nil
}

func readArrayDelta(in *bitio.Reader, ref *Value, reg *wire.Registry, classReg *classreg.Registry, meta schema.MetadataType) (*Value, error) {
	size, err := in.Read(lengthBits)
	if err != nil {
		return nil, err
	}
	refSize, err := in.Read(lengthBits)
	if err != nil {
		return nil, err
	}
	minLen := int(size)
	if int(refSize) < minLen {
		minLen = int(refSize)
	}
	items := make([]*Value, size)
	for i := 0; i < minLen; i++ {
		items[i], err = ReadDelta(in, ref.arrayVal[i], reg, classReg, meta)
		if err != nil {
			return nil, err
		}
	}
	for i := minLen; i < int(size); i++ {
		items[i], err = Read(in, reg, classReg, meta)
		if err != nil {
			return nil, err
		}
	}
	return &Value{Kind: Array, arrayVal: items}, nil
}

func readBagDelta(in *bitio.Reader, ref *Value, reg *wire.Registry, classReg *classreg.Registry, meta schema.MetadataType) (*Value, error) {
	props := map[string]*Value{}
	for name, pv := range ref.props {
		props[name] = pv
	}
	for {
		more, err := in.ReadBool()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		name, err := wire.String().Read(in)
		if err != nil {
			return nil, err
		}
		base, ok := props[name.(string)]
		if !ok {
			base = NewUndefined()
		}
		pv, err := ReadDelta(in, base, reg, classReg, meta)
		if err != nil {
			return nil, err
		}
		props[name.(string)] = pv
	}
	for {
		more, err := in.ReadBool()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		name, err := wire.String().Read(in)
		if err != nil {
			return nil, err
		}
		base, ok := props[name.(string)]
		if !ok {
			base = ref.props[name.(string)]
		}
		if base == nil {
			base = NewUndefined()
		}
		if _, err := ReadDelta(in, base, reg, classReg, meta); err != nil {
			return nil, err
		}
		delete(props, name.(string))
	}
	return &Value{Kind: ref.Kind, props: props}, nil
}
