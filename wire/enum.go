package wire

import "github.com/SaracenOne/bitwire/bitio"

func writeEnum(out *bitio.Writer, e *EnumOps, v any) error {
	return out.Write(uint64(v.(int64)), e.Bits)
}

func readEnum(in *bitio.Reader, e *EnumOps) (any, error) {
	raw, err := in.Read(e.Bits)
	if err != nil {
		return nil, err
	}
	return int64(raw), nil
}
