// Package intern implements RepeatedValueStreamer<T>: a growing-width
// interning table over a value type T, with separate transient and
// persistent id<->value maps per direction, matching SPEC_FULL.md §4.3.
package intern

import (
	"bytes"

	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/idstream"
	"github.com/SaracenOne/bitwire/pebblestore"
	"github.com/cespare/xxhash/v2"
)

// Codec supplies the full-form read/write for T and a key function used to
// look T up in the value->id map. Non-comparable T (byte slices, composite
// descriptors) supply KeyOf returning a hash of T's canonical encoded form,
// grounded on the corpus's own xxhash.Sum64 use for exactly this purpose
// (index_manager.go hashes encoded values for reverse lookup).
type Codec[T any] struct {
	Write func(out *bitio.Writer, v T) error
	Read  func(in *bitio.Reader) (T, error)
	KeyOf func(v T) uint64
	// IsZero reports whether v is the "null"/empty sentinel value for T.
	IsZero func(v T) bool
}

// HashKey canonically hashes a byte-encoded form with xxhash, the standard
// KeyOf implementation for byte-slice-like T.
func HashKey(b []byte) uint64 { return xxhash.Sum64(b) }

// Repeated is one direction-pair of interning tables (write side and read
// side), both keyed by the same Codec.
//
// Null values are signaled by a dedicated leading presence bit rather than
// by reserving id 0 on the IDStreamer's own id space: the IDStreamer's
// sentinel already reserves the top value of the current width to mean
// "new value follows", and real interned ids are densely packed starting
// at 0 (invariant #3). Overloading id 0 to *also* mean "null" would put it
// in the same space as a legitimately-issued first id, so null short
// circuits before the IDStreamer is touched at all.
type Repeated[T any] struct {
	codec Codec[T]

	store *pebblestore.Table

	writeIDs       *idstream.Writer
	writePersist   map[uint64]uint64 // KeyOf(v) -> id
	writeIDValues  map[uint64]T      // id -> v, tracked alongside writePersist for write-through
	writeTransient map[uint64]uint64

	readIDs       *idstream.Reader
	readPersist   map[uint64]T // id -> v
	readTransient map[uint64]T
}

func New[T any](codec Codec[T]) *Repeated[T] {
	return &Repeated[T]{
		codec:          codec,
		writeIDs:       idstream.NewWriter(),
		writePersist:   map[uint64]uint64{},
		writeIDValues:  map[uint64]T{},
		writeTransient: map[uint64]uint64{},
		readIDs:        idstream.NewReader(),
		readPersist:    map[uint64]T{},
		readTransient:  map[uint64]T{},
	}
}

// SetStore backs this table's persistent id<->value maps with t: any entries
// already on disk are loaded immediately (priming both write and read
// persistent maps and the idstream width/counter so the next freshly
// issued id continues past the highest loaded one), and every future
// PersistTransientWrite/PersistTransientRead call writes its folded entries
// through to t as well as into memory.
//
// SetStore is meant to be called once, right after New, before any
// Write/Read traffic — it does not merge with entries already folded into
// the in-memory persistent maps by prior PersistTransientWrite/Read calls
// made without a store.
func (r *Repeated[T]) SetStore(t *pebblestore.Table) error {
	r.store = t
	maxID := int64(-1)
	err := t.Scan(func(id uint64, raw []byte) error {
		v, decErr := r.decode(raw)
		if decErr != nil {
			return decErr
		}
		r.readPersist[id] = v
		r.writePersist[r.codec.KeyOf(v)] = id
		r.writeIDValues[id] = v
		if int64(id) > maxID {
			maxID = int64(id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.writeIDs.SetBitsFromValue(maxID)
	r.readIDs.SetBitsFromValue(maxID)
	return nil
}

// encode renders v through the same codec used on the wire, for storing in
// the table under its assigned id.
func (r *Repeated[T]) encode(v T) ([]byte, error) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	if err := r.codec.Write(w, v); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Repeated[T]) decode(raw []byte) (T, error) {
	in := bitio.NewReader(bytes.NewReader(raw))
	return r.codec.Read(in)
}

// Write interns v: a leading bit signals null (no further bits); otherwise,
// if already known (persisted or transient-this-unit), emits its id;
// otherwise emits the new-value sentinel, assigns the next id, records it
// transiently, and writes v in full form.
func (r *Repeated[T]) Write(out *bitio.Writer, v T) error {
	isNull := r.codec.IsZero(v)
	if err := out.WriteBool(!isNull); err != nil {
		return err
	}
	if isNull {
		return nil
	}

	key := r.codec.KeyOf(v)
	if id, ok := r.writePersist[key]; ok {
		return r.writeIDs.WriteKnown(out, id)
	}
	if id, ok := r.writeTransient[key]; ok {
		return r.writeIDs.WriteKnown(out, id)
	}

	id, err := r.writeIDs.WriteNew(out)
	if err != nil {
		return err
	}
	r.writeTransient[key] = id
	r.writeIDValues[id] = v
	return r.codec.Write(out, v)
}

// Read mirrors Write.
func (r *Repeated[T]) Read(in *bitio.Reader) (T, error) {
	present, err := in.ReadBool()
	if err != nil {
		var zero T
		return zero, err
	}
	if !present {
		var zero T
		return zero, nil
	}

	id, isNew, err := r.readIDs.Read(in)
	if err != nil {
		var zero T
		return zero, err
	}
	if !isNew {
		if v, ok := r.readPersist[id]; ok {
			return v, nil
		}
		if v, ok := r.readTransient[id]; ok {
			return v, nil
		}
		var zero T
		return zero, nil
	}

	v, err := r.codec.Read(in)
	if err != nil {
		var zero T
		return zero, err
	}
	r.readTransient[id] = v
	return v, nil
}

// GetAndResetTransientWrite snapshots and clears the write-side transient
// map, for the caller to decide whether to persist or discard it.
func (r *Repeated[T]) GetAndResetTransientWrite() map[uint64]uint64 {
	snap := r.writeTransient
	r.writeTransient = map[uint64]uint64{}
	return snap
}

// PersistTransientWrite folds a previously snapshotted write-side transient
// map into the persistent map, committing those interning decisions. When a
// store is set, each newly persisted id<->value pair is also written
// through to disk.
func (r *Repeated[T]) PersistTransientWrite(snap map[uint64]uint64) error {
	for k, id := range snap {
		r.writePersist[k] = id
		if r.store == nil {
			continue
		}
		v, ok := r.writeIDValues[id]
		if !ok {
			continue
		}
		raw, err := r.encode(v)
		if err != nil {
			return err
		}
		if err := r.store.PutID(id, raw); err != nil {
			return err
		}
	}
	return nil
}

// GetAndResetTransientRead snapshots and clears the read-side transient map.
func (r *Repeated[T]) GetAndResetTransientRead() map[uint64]T {
	snap := r.readTransient
	r.readTransient = map[uint64]T{}
	return snap
}

// PersistTransientRead folds a previously snapshotted read-side transient
// map into the persistent map. When a store is set, each newly persisted
// id<->value pair is also written through to disk.
func (r *Repeated[T]) PersistTransientRead(snap map[uint64]T) error {
	for id, v := range snap {
		r.readPersist[id] = v
		if r.store == nil {
			continue
		}
		raw, err := r.encode(v)
		if err != nil {
			return err
		}
		if err := r.store.PutID(id, raw); err != nil {
			return err
		}
	}
	return nil
}

// WriteCount reports how many distinct values this side has interned for
// writing, persisted or not. For Stats()-style reporting only.
func (r *Repeated[T]) WriteCount() int {
	return len(r.writePersist) + len(r.writeTransient)
}

// ReadCount mirrors WriteCount for the read side.
func (r *Repeated[T]) ReadCount() int {
	return len(r.readPersist) + len(r.readTransient)
}
