// Package scriptvalue implements the weakly-typed Script-value collaborator
// of SPEC_FULL.md §6: a tagged union over undefined/null/bool/number/string,
// a variant wrapper around any registered wire type, class-backed and
// dynamic objects, and arrays.
//
// Grounded on the corpus's RDX value family (rdx/mel.go, rdx/rdx.go): one
// wire form, many logical kinds dispatched on a leading tag byte, which is
// the closest corpus analogue to a weakly-typed tagged value — generalized
// here from RDX's fixed CRDT kind set to the script kind set of §6.
package scriptvalue

// Kind is the 4-bit leading tag of every script value on the wire.
type Kind byte

const (
	Invalid Kind = iota
	Undefined
	Null
	Bool
	Number
	String
	Variant
	Object
	ClassObject
	Array
	ObjectRecord
	Date
	RegExp
	MetaObject
)

const kindBits = 4

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case Undefined:
		return "Undefined"
	case Null:
		return "Null"
	case Bool:
		return "Bool"
	case Number:
		return "Number"
	case String:
		return "String"
	case Variant:
		return "Variant"
	case Object:
		return "Object"
	case ClassObject:
		return "ClassObject"
	case Array:
		return "Array"
	case ObjectRecord:
		return "ObjectRecord"
	case Date:
		return "Date"
	case RegExp:
		return "RegExp"
	case MetaObject:
		return "MetaObject"
	default:
		return "Unknown"
	}
}
