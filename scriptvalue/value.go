package scriptvalue

import (
	"time"

	"github.com/SaracenOne/bitwire/wire"
)

// Value is a weakly-typed script value. Exactly the fields relevant to its
// Kind are meaningful; the rest are zero.
type Value struct {
	Kind Kind

	boolVal   bool
	numberVal float64
	stringVal string

	variantType *wire.TypeStreamer
	variantVal  any

	arrayVal []*Value

	props map[string]*Value // Object / ObjectRecord: dynamic property bag

	className string // ClassObject
	classVal  any    // ClassObject: host value, read/written via a classreg.Class supplied out of band

	dateVal int64 // Date: unix milliseconds, UTC

	regexpPattern string // RegExp
	regexpFlags   uint8  // RegExp: bit 0 case-insensitive, bit 1 multiline

	metaClassName string // MetaObject: the reflected class's name, no host value
}

func NewInvalid() *Value     { return &Value{Kind: Invalid} }
func NewUndefined() *Value   { return &Value{Kind: Undefined} }
func NewNull() *Value        { return &Value{Kind: Null} }
func NewBool(b bool) *Value  { return &Value{Kind: Bool, boolVal: b} }
func NewNumber(n float64) *Value { return &Value{Kind: Number, numberVal: n} }
func NewString(s string) *Value  { return &Value{Kind: String, stringVal: s} }

func NewVariant(t *wire.TypeStreamer, v any) *Value {
	return &Value{Kind: Variant, variantType: t, variantVal: v}
}

func NewArray(items []*Value) *Value {
	return &Value{Kind: Array, arrayVal: items}
}

func NewObjectRecord(props map[string]*Value) *Value {
	if props == nil {
		props = map[string]*Value{}
	}
	return &Value{Kind: ObjectRecord, props: props}
}

func NewObject(props map[string]*Value) *Value {
	if props == nil {
		props = map[string]*Value{}
	}
	return &Value{Kind: Object, props: props}
}

func NewClassObject(className string, v any) *Value {
	return &Value{Kind: ClassObject, className: className, classVal: v}
}

// RegExp flags, mirroring QRegExp's case-sensitivity/multiline toggles.
const (
	RegExpCaseInsensitive uint8 = 1 << 0
	RegExpMultiline       uint8 = 1 << 1
)

func NewDate(t time.Time) *Value {
	return &Value{Kind: Date, dateVal: t.UnixMilli()}
}

func NewRegExp(pattern string, flags uint8) *Value {
	return &Value{Kind: RegExp, regexpPattern: pattern, regexpFlags: flags}
}

// NewMetaObject wraps a bare class-name reference with no host value, for
// introspection-only payloads (Qt's QMetaObject has the same shape: class
// identity without an instance).
func NewMetaObject(className string) *Value {
	return &Value{Kind: MetaObject, metaClassName: className}
}

func (v *Value) IsUndefined() bool { return v.Kind == Undefined }
func (v *Value) IsNull() bool      { return v.Kind == Null }
func (v *Value) IsBool() bool      { return v.Kind == Bool }
func (v *Value) IsNumber() bool    { return v.Kind == Number }
func (v *Value) IsString() bool    { return v.Kind == String }
func (v *Value) IsVariant() bool   { return v.Kind == Variant }
func (v *Value) IsArray() bool     { return v.Kind == Array }
func (v *Value) IsDate() bool      { return v.Kind == Date }
func (v *Value) IsRegExp() bool    { return v.Kind == RegExp }
func (v *Value) IsMetaObject() bool { return v.Kind == MetaObject }
func (v *Value) IsObject() bool {
	return v.Kind == Object || v.Kind == ObjectRecord || v.Kind == ClassObject
}

func (v *Value) ToBool() bool       { return v.boolVal }
func (v *Value) ToNumber() float64  { return v.numberVal }
func (v *Value) ToString() string   { return v.stringVal }
func (v *Value) ToArray() []*Value  { return v.arrayVal }

// ToDate reconstructs the UTC time.Time a Date value wraps.
func (v *Value) ToDate() time.Time { return time.UnixMilli(v.dateVal).UTC() }

// ToRegExp returns a RegExp value's pattern and flag bits.
func (v *Value) ToRegExp() (string, uint8) { return v.regexpPattern, v.regexpFlags }

// MetaObjectClassName returns a MetaObject value's reflected class name.
func (v *Value) MetaObjectClassName() string { return v.metaClassName }

// ToVariant returns the wrapped type and value of a Variant-kind Value.
func (v *Value) ToVariant() (*wire.TypeStreamer, any) { return v.variantType, v.variantVal }

// ClassName and ClassValue expose a ClassObject's identity and host value;
// callers resolve the class itself from a classreg.Registry by name.
func (v *Value) ClassName() string { return v.className }
func (v *Value) ClassValue() any   { return v.classVal }

// EnumerateProperties lists property names of an Object/ObjectRecord
// value, in no particular order — property bags are unordered maps.
func (v *Value) EnumerateProperties() []string {
	names := make([]string, 0, len(v.props))
	for name := range v.props {
		names = append(names, name)
	}
	return names
}

func (v *Value) GetProperty(name string) *Value {
	if p, ok := v.props[name]; ok {
		return p
	}
	return NewUndefined()
}

func (v *Value) SetProperty(name string, pv *Value) {
	if v.props == nil {
		v.props = map[string]*Value{}
	}
	v.props[name] = pv
}
