package wire

import "github.com/SaracenOne/bitwire/bitio"

func writeMap(out *bitio.Writer, ops *MapOps, v any) error {
	keys := ops.Keys(v)
	if err := out.Write(uint64(len(keys)), lengthBits); err != nil {
		return err
	}
	for _, k := range keys {
		if err := ops.Key.Write(out, k); err != nil {
			return err
		}
		val, _ := ops.Get(v, k)
		if err := ops.Value.Write(out, val); err != nil {
			return err
		}
	}
	return nil
}

func readMap(in *bitio.Reader, ops *MapOps) (any, error) {
	n, err := in.Read(lengthBits)
	if err != nil {
		return nil, err
	}
	v := ops.New()
	for i := uint64(0); i < n; i++ {
		k, err := ops.Key.Read(in)
		if err != nil {
			return nil, err
		}
		val, err := ops.Value.Read(in)
		if err != nil {
			return nil, err
		}
		v = ops.Set(v, k, val)
	}
	return v, nil
}

func equalMap(ops *MapOps, a, b any) bool {
	ak, bk := ops.Keys(a), ops.Keys(b)
	if len(ak) != len(bk) {
		return false
	}
	for _, k := range ak {
		av, aok := ops.Get(a, k)
		bv, bok := ops.Get(b, k)
		if aok != bok || !ops.Value.Equal(av, bv) {
			return false
		}
	}
	return true
}

// writeMapDelta implements §4.5: three sections — added (key,value) pairs,
// modified (key, delta-vs-reference) pairs, removed keys.
func writeMapDelta(out *bitio.Writer, ops *MapOps, v, ref any) error {
	var added, modified, removed []any

	for _, k := range ops.Keys(v) {
		refVal, inRef := ops.Get(ref, k)
		if !inRef {
			added = append(added, k)
			continue
		}
		val, _ := ops.Get(v, k)
		if !ops.Value.Equal(val, refVal) {
			modified = append(modified, k)
		}
	}
	for _, k := range ops.Keys(ref) {
		if _, inV := ops.Get(v, k); !inV {
			removed = append(removed, k)
		}
	}

	if err := out.Write(uint64(len(added)), lengthBits); err != nil {
		return err
	}
	for _, k := range added {
		if err := ops.Key.Write(out, k); err != nil {
			return err
		}
		val, _ := ops.Get(v, k)
		if err := ops.Value.Write(out, val); err != nil {
			return err
		}
	}

	if err := out.Write(uint64(len(modified)), lengthBits); err != nil {
		return err
	}
	for _, k := range modified {
		if err := ops.Key.Write(out, k); err != nil {
			return err
		}
		val, _ := ops.Get(v, k)
		refVal, _ := ops.Get(ref, k)
		if err := ops.Value.WriteRawDelta(out, val, refVal); err != nil {
			return err
		}
	}

	if err := out.Write(uint64(len(removed)), lengthBits); err != nil {
		return err
	}
	for _, k := range removed {
		if err := ops.Key.Write(out, k); err != nil {
			return err
		}
	}
	return nil
}

func readMapDelta(in *bitio.Reader, ops *MapOps, ref any) (any, error) {
	v := ref

	nAdded, err := in.Read(lengthBits)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nAdded; i++ {
		k, err := ops.Key.Read(in)
		if err != nil {
			return nil, err
		}
		val, err := ops.Value.Read(in)
		if err != nil {
			return nil, err
		}
		v = ops.Set(v, k, val)
	}

	nModified, err := in.Read(lengthBits)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nModified; i++ {
		k, err := ops.Key.Read(in)
		if err != nil {
			return nil, err
		}
		refVal, _ := ops.Get(ref, k)
		val, err := ops.Value.ReadRawDelta(in, refVal)
		if err != nil {
			return nil, err
		}
		v = ops.Set(v, k, val)
	}

	nRemoved, err := in.Read(lengthBits)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nRemoved; i++ {
		k, err := ops.Key.Read(in)
		if err != nil {
			return nil, err
		}
		v = ops.Del(v, k)
	}

	return v, nil
}
