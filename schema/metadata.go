// Package schema implements the runtime schema-negotiation shim: writing
// and reading type descriptors under a chosen MetadataType, and
// constructing TypeReader/ObjectReader remapping shims when a peer's
// declared type diverges from the local one, per SPEC_FULL.md §4.4.
package schema

import (
	"crypto/md5"
	"sort"

	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/wire"
)

// MetadataType controls how much schema accompanies a type descriptor the
// first time it is interned.
type MetadataType byte

const (
	MetadataNone MetadataType = iota
	MetadataHash
	MetadataFull
)

const kindBits = 3

// hashFieldNames mirrors the corpus's approach to a stable, non-security
// content digest: concatenate names with a null terminator and take MD5.
// crypto/md5 is standard-library by design — no dependency in the corpus
// or its ecosystem offers a plain 128-bit digest more idiomatically for a
// non-security checksum of this exact shape (see DESIGN.md).
func hashFieldNames(names []string) [16]byte {
	h := md5.New()
	for _, n := range names {
		h.Write([]byte(n))
		h.Write([]byte{0})
	}
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}

func hashEnumKeysValues(entries []wire.EnumEntry) [16]byte {
	sorted := append([]wire.EnumEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	h := md5.New()
	for _, e := range sorted {
		h.Write([]byte(e.Name))
		h.Write([]byte{0})
	}
	for _, e := range sorted {
		var b [8]byte
		v := uint64(e.Value)
		for i := 0; i < 8; i++ {
			b[i] = byte(v >> (8 * i))
		}
		h.Write(b[:])
	}
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}

func writeMD5(out *bitio.Writer, sum [16]byte) error {
	for _, b := range sum {
		if err := out.Write(uint64(b), 8); err != nil {
			return err
		}
	}
	return nil
}

func readMD5(in *bitio.Reader) ([16]byte, error) {
	var sum [16]byte
	for i := range sum {
		b, err := in.Read(8)
		if err != nil {
			return sum, err
		}
		sum[i] = byte(b)
	}
	return sum, nil
}

func writeName(out *bitio.Writer, name string) error {
	if err := out.Write(uint64(len(name)), 32); err != nil {
		return err
	}
	for i := 0; i < len(name); i++ {
		if err := out.Write(uint64(name[i]), 8); err != nil {
			return err
		}
	}
	return nil
}

func readName(in *bitio.Reader) (string, error) {
	n, err := in.Read(32)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	for i := range buf {
		b, err := in.Read(8)
		if err != nil {
			return "", err
		}
		buf[i] = byte(b)
	}
	return string(buf), nil
}
