package scriptvalue

import (
	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/classreg"
	"github.com/SaracenOne/bitwire/schema"
	"github.com/SaracenOne/bitwire/wire"
)

const lengthBits = 32
const regexpFlagBits = 8

// Write encodes v in full form: its kind tag, then a kind-specific body.
// reg resolves Variant payload types; classReg resolves ClassObject
// classes. Either may be nil for values that never use that kind.
func (v *Value) Write(out *bitio.Writer, reg *wire.Registry, classReg *classreg.Registry, meta schema.MetadataType) error {
	if err := out.Write(uint64(v.Kind), kindBits); err != nil {
		return err
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
		if err := schema.WriteTypeDescriptor(out, v.variantType, meta); err != nil {
			return err
		}
		return v.variantType.Write(out, v.variantVal)
	case ClassObject:
		class, _ := classReg.Lookup(v.className)
		if err := schema.WriteClassDescriptor(out, classReg, class, meta); err != nil {
			return err
		}
		return schema.WriteObject(out, class, v.classVal)
	case Object, ObjectRecord:
		return writePropBag(out, v.props, reg, classReg, meta)
	case Array:
		if err := out.Write(uint64(len(v.arrayVal)), lengthBits); err != nil {
			return err
		}
		for _, item := range v.arrayVal {
			if err := item.Write(out, reg, classReg, meta); err != nil {
				return err
			}
		}
		return nil
	}
	return ErrUnknownKind
}

// Read decodes one full-form Value.
func Read(in *bitio.Reader, reg *wire.Registry, classReg *classreg.Registry, meta schema.MetadataType) (*Value, error) {
	raw, err := in.Read(kindBits)
	if err != nil {
		return nil, err
	}
	k := Kind(raw)
	switch k {
	case Invalid, Undefined, Null:
		return &Value{Kind: k}, nil
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
		tr, err := schema.ReadTypeDescriptor(in, reg, meta)
		if err != nil {
			return nil, err
		}
		val, err := tr.Read(in)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: Variant, variantType: tr.Local, variantVal: val}, nil
	case ClassObject:
		or, err := schema.ReadClassDescriptor(in, classReg, meta)
		if err != nil {
			return nil, err
		}
		val, err := or.Read(in)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: ClassObject, className: or.ClassName, classVal: val}, nil
	case Object, ObjectRecord:
		props, err := readPropBag(in, reg, classReg, meta)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: k, props: props}, nil
	case Array:
		n, err := in.Read(lengthBits)
		if err != nil {
			return nil, err
		}
		items := make([]*Value, n)
		for i := range items {
			items[i], err = Read(in, reg, classReg, meta)
			if err != nil {
				return nil, err
			}
		}
		return &Value{Kind: Array, arrayVal: items}, nil
	}
	return nil, ErrUnknownKind
}

func writePropBag(out *bitio.Writer, props map[string]*Value, reg *wire.Registry, classReg *classreg.Registry, meta schema.MetadataType) error {
	if err := out.Write(uint64(len(props)), lengthBits); err != nil {
		return err
	}
	for name, pv := range props {
		if err := wire.String().Write(out, name); err != nil {
			return err
		}
		if err := pv.Write(out, reg, classReg, meta); err != nil {
			return err
		}
	}
	return nil
}

func readPropBag(in *bitio.Reader, reg *wire.Registry, classReg *classreg.Registry, meta schema.MetadataType) (map[string]*Value, error) {
	n, err := in.Read(lengthBits)
	if err != nil {
		return nil, err
	}
	props := make(map[string]*Value, n)
	for i := uint64(0); i < n; i++ {
		name, err := wire.String().Read(in)
		if err != nil {
			return nil, err
		}
		pv, err := Read(in, reg, classReg, meta)
		if err != nil {
			return nil, err
		}
		props[name.(string)] = pv
	}
	return props, nil
}
