package wire

import "github.com/SaracenOne/bitwire/bitio"

func writeSet(out *bitio.Writer, ops *SeqOps, v any) error {
	return writeList(out, ops, v)
}

func readSet(in *bitio.Reader, ops *SeqOps) (any, error) {
	return readList(in, ops)
}

// writeSetDelta implements §4.5/S5: the symmetric difference between ref
// and v, emitted as a count followed by each differing element raw. The
// reader toggles membership starting from ref to reconstruct v.
func writeSetDelta(out *bitio.Writer, ops *SeqOps, v, ref any) error {
	var diff []any
	vn := ops.Len(v)
	for i := 0; i < vn; i++ {
		e := ops.At(v, i)
		if !ops.Contains(ref, e) {
			diff = append(diff, e)
		}
	}
	rn := ops.Len(ref)
	for i := 0; i < rn; i++ {
		e := ops.At(ref, i)
		if !ops.Contains(v, e) {
			diff = append(diff, e)
		}
	}
	if err := out.Write(uint64(len(diff)), lengthBits); err != nil {
		return err
	}
	for _, e := range diff {
		if err := ops.Elem.Write(out, e); err != nil {
			return err
		}
	}
	return nil
}

func readSetDelta(in *bitio.Reader, ops *SeqOps, ref any) (any, error) {
	n, err := in.Read(lengthBits)
	if err != nil {
		return nil, err
	}
	v := ref
	for i := uint64(0); i < n; i++ {
		e, err := ops.Elem.Read(in)
		if err != nil {
			return nil, err
		}
		v = ops.Toggle(v, e)
	}
	return v, nil
}
