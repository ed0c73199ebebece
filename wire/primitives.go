package wire

import (
	"math"

	"github.com/SaracenOne/bitwire/bitio"
)

// Built-in Simple TypeStreamers for the primitive kinds every registry
// needs regardless of the host application's own types, grounded on the
// corpus's own little-endian, zig-zag-free primitive wire forms (this
// module bit-packs fixed widths rather than chotki's variable-length byte
// packing, per SPEC_FULL.md §4.1, but keeps host-order/little-endian
// convention pinned per §9's Open Question resolution).

func Bool() *TypeStreamer {
	return &TypeStreamer{
		Name: "bool",
		Kind: KindSimple,
		Simple: &SimpleOps{
			Write: func(out *bitio.Writer, v any) error { return out.WriteBool(v.(bool)) },
			Read: func(in *bitio.Reader) (any, error) {
				b, err := in.ReadBool()
				return b, err
			},
			Equal: func(a, b any) bool { return a.(bool) == b.(bool) },
		},
	}
}

func Int32() *TypeStreamer {
	return &TypeStreamer{
		Name: "int32",
		Kind: KindSimple,
		Simple: &SimpleOps{
			Write: func(out *bitio.Writer, v any) error {
				return out.Write(uint64(uint32(v.(int32))), 32)
			},
			Read: func(in *bitio.Reader) (any, error) {
				raw, err := in.Read(32)
				if err != nil {
					return nil, err
				}
				return int32(uint32(raw)), nil
			},
			Equal: func(a, b any) bool { return a.(int32) == b.(int32) },
		},
	}
}

func Int64() *TypeStreamer {
	return &TypeStreamer{
		Name: "int64",
		Kind: KindSimple,
		Simple: &SimpleOps{
			Write: func(out *bitio.Writer, v any) error {
				return out.Write(uint64(v.(int64)), 64)
			},
			Read: func(in *bitio.Reader) (any, error) {
				raw, err := in.Read(64)
				if err != nil {
					return nil, err
				}
				return int64(raw), nil
			},
			Equal: func(a, b any) bool { return a.(int64) == b.(int64) },
		},
	}
}

func Float64() *TypeStreamer {
	return &TypeStreamer{
		Name: "float64",
		Kind: KindSimple,
		Simple: &SimpleOps{
			Write: func(out *bitio.Writer, v any) error {
				return out.Write(math.Float64bits(v.(float64)), 64)
			},
			Read: func(in *bitio.Reader) (any, error) {
				raw, err := in.Read(64)
				if err != nil {
					return nil, err
				}
				return math.Float64frombits(raw), nil
			},
			Equal: func(a, b any) bool { return a.(float64) == b.(float64) },
		},
	}
}

// String codecs a UTF-8 string with a 32-bit length prefix followed by its
// raw bytes, per §6's wire layout summary.
func String() *TypeStreamer {
	return &TypeStreamer{
		Name: "string",
		Kind: KindSimple,
		Simple: &SimpleOps{
			Write: func(out *bitio.Writer, v any) error {
				s := v.(string)
				if err := out.Write(uint64(len(s)), lengthBits); err != nil {
					return err
				}
				for i := 0; i < len(s); i++ {
					if err := out.Write(uint64(s[i]), 8); err != nil {
						return err
					}
				}
				return nil
			},
			Read: func(in *bitio.Reader) (any, error) {
				n, err := in.Read(lengthBits)
				if err != nil {
					return nil, err
				}
				buf := make([]byte, n)
				for i := range buf {
					b, err := in.Read(8)
					if err != nil {
						return nil, err
					}
					buf[i] = byte(b)
				}
				return string(buf), nil
			},
			Equal: func(a, b any) bool { return a.(string) == b.(string) },
		},
	}
}

// Bytes codecs a raw byte slice with the same 32-bit length-prefix
// convention as String.
func Bytes() *TypeStreamer {
	return &TypeStreamer{
		Name: "bytes",
		Kind: KindSimple,
		Simple: &SimpleOps{
			Write: func(out *bitio.Writer, v any) error {
				b := v.([]byte)
				if err := out.Write(uint64(len(b)), lengthBits); err != nil {
					return err
				}
				for _, by := range b {
					if err := out.Write(uint64(by), 8); err != nil {
						return err
					}
				}
				return nil
			},
			Read: func(in *bitio.Reader) (any, error) {
				n, err := in.Read(lengthBits)
				if err != nil {
					return nil, err
				}
				buf := make([]byte, n)
				for i := range buf {
					v, err := in.Read(8)
					if err != nil {
						return nil, err
					}
					buf[i] = byte(v)
				}
				return buf, nil
			},
			Equal: func(a, b any) bool {
				ab, bb := a.([]byte), b.([]byte)
				if len(ab) != len(bb) {
					return false
				}
				for i := range ab {
					if ab[i] != bb[i] {
						return false
					}
				}
				return true
			},
		},
	}
}
