package wire

import "github.com/SaracenOne/bitwire/bitio"

const lengthBits = 32

func writeList(out *bitio.Writer, ops *SeqOps, v any) error {
	n := ops.Len(v)
	if err := out.Write(uint64(n), lengthBits); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := ops.Elem.Write(out, ops.At(v, i)); err != nil {
			return err
		}
	}
	return nil
}

func readList(in *bitio.Reader, ops *SeqOps) (any, error) {
	n, err := in.Read(lengthBits)
	if err != nil {
		return nil, err
	}
	v := ops.Prune(nil, 0)
	for i := uint64(0); i < n; i++ {
		elem, err := ops.Elem.Read(in)
		if err != nil {
			return nil, err
		}
		v = ops.Append(v, elem)
	}
	return v, nil
}

func equalSeq(ops *SeqOps, a, b any) bool {
	an, bn := ops.Len(a), ops.Len(b)
	if an != bn {
		return false
	}
	for i := 0; i < an; i++ {
		if !ops.Elem.Equal(ops.At(a, i), ops.At(b, i)) {
			return false
		}
	}
	return true
}

// writeListDelta implements §4.5/S4: size, referenceSize, per-index delta
// for the overlapping prefix, raw tail for new elements, implicit prune if
// the new list is shorter.
func writeListDelta(out *bitio.Writer, ops *SeqOps, v, ref any) error {
	size, refSize := ops.Len(v), ops.Len(ref)
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
		if err := ops.Elem.WriteDelta(out, ops.At(v, i), ops.At(ref, i)); err != nil {
			return err
		}
	}
	for i := refSize; i < size; i++ {
		if err := ops.Elem.Write(out, ops.At(v, i)); err != nil {
			return err
		}
	}
	return nil
}

func readListDelta(in *bitio.Reader, ops *SeqOps, ref any) (any, error) {
	size, err := in.Read(lengthBits)
	if err != nil {
		return nil, err
	}
	refSize, err := in.Read(lengthBits)
	if err != nil {
		return nil, err
	}
	minLen := size
	if refSize < minLen {
		minLen = refSize
	}
	v := ops.Prune(nil, 0)
	for i := uint64(0); i < minLen; i++ {
		elem, err := ops.Elem.ReadDelta(in, ops.At(ref, int(i)))
		if err != nil {
			return nil, err
		}
		v = ops.Append(v, elem)
	}
	for i := minLen; i < size; i++ {
		elem, err := ops.Elem.Read(in)
		if err != nil {
			return nil, err
		}
		v = ops.Append(v, elem)
	}
	// size < refSize: reader has already stopped copying reference
	// elements past minLen, which is the prune.
	return v, nil
}
