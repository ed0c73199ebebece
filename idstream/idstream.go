// Package idstream issues and parses growing-width integer identifiers.
// The top value representable at the current bit width is always reserved
// as a "new value" sentinel, so the effective id space at width b is
// [0, (1<<b)-2] and the width grows monotonically as ids are issued.
package idstream

import (
	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/utils"
)

// Writer tracks the current bit width and the next id to be issued.
type Writer struct {
	bits int
	next uint64
}

func NewWriter() *Writer {
	return &Writer{bits: 1}
}

// Bits returns the current width.
func (w *Writer) Bits() int { return w.bits }

// sentinel is the reserved "new value" marker at the current width.
func (w *Writer) sentinel() uint64 { return (uint64(1) << w.bits) - 1 }

// growIfNeeded grows the width if the next issuance would otherwise collide
// with the current sentinel. Must be called before emitting a "new" marker.
func (w *Writer) growIfNeeded() {
	if w.next == w.sentinel() {
		w.bits++
	}
}

// WriteKnown emits an already-interned id verbatim at the current width. It
// never grows the width, since issuing no new id changes nothing.
func (w *Writer) WriteKnown(out *bitio.Writer, id uint64) error {
	return out.Write(id, w.bits)
}

// WriteNew emits the "new value" sentinel (growing the width first if this
// issuance would otherwise collide with it) and returns the id that the
// caller should assign to the value about to follow on the wire.
func (w *Writer) WriteNew(out *bitio.Writer) (id uint64, err error) {
	w.growIfNeeded()
	if err := out.Write(w.sentinel(), w.bits); err != nil {
		return 0, err
	}
	id = w.next
	w.next++
	return id, nil
}

// SetBitsFromValue primes the width so that a subsequent fresh issuance
// continues correctly after loading a persisted table whose highest
// assigned id was maxID. Pass -1 if no id has been assigned yet.
func (w *Writer) SetBitsFromValue(maxID int64) {
	w.next = uint64(maxID + 1)
	w.bits = 1
	if maxID >= 0 {
		w.bits = bitsFor(uint64(maxID))
	}
}

// Reader mirrors Writer on the decode side.
type Reader struct {
	bits int
	next uint64
}

func NewReader() *Reader {
	return &Reader{bits: 1}
}

func (r *Reader) Bits() int { return r.bits }

func (r *Reader) sentinel() uint64 { return (uint64(1) << r.bits) - 1 }

// Read reads one id-width value. If it is the sentinel, isNew is true and
// the returned id is the next issuance counter (already advanced); callers
// must then read the full value from the wire. Otherwise the value is an
// already-known id, returned as-is.
//
// Mirrors Writer.growIfNeeded exactly: the width only grows when the
// pending issuance (r.next) would collide with the sentinel at the width
// in effect before this read — never merely because a sentinel was seen.
// A sentinel read at that pre-grow width is the low bits of a wider
// sentinel when growth applies (LSB-first, so they're indistinguishable
// from the genuine old-width sentinel until the collision check runs); the
// remaining high bit of the wider sentinel is then read to stay aligned.
func (r *Reader) Read(in *bitio.Reader) (id uint64, isNew bool, err error) {
	preBits := r.bits
	preSentinel := r.sentinel()
	v, err := in.Read(preBits)
	if err != nil {
		return 0, false, err
	}
	if v != preSentinel {
		return v, false, nil
	}
	if r.next == preSentinel {
		r.bits++
		if _, err := in.Read(r.bits - preBits); err != nil {
			return 0, false, err
		}
	}
	id = r.next
	r.next++
	return id, true, nil
}

func (r *Reader) SetBitsFromValue(maxID int64) {
	r.next = uint64(maxID + 1)
	r.bits = 1
	if maxID >= 0 {
		r.bits = bitsFor(uint64(maxID))
	}
}

// bitsFor returns ceil(log2(next+2)), the width at which issuance number
// `next` (0-based) is represented, consistent with invariant #3.
func bitsFor(next uint64) int {
	return utils.BitLen(next + 1)
}
