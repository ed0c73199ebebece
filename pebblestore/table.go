package pebblestore

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/pebble"
)

// Table is a namespaced byte-key view of a Store, used to persist one
// RepeatedValueStreamer's id<->value mappings, keyed by id.
type Table struct {
	db     *pebble.DB
	prefix []byte
}

func (t *Table) key(suffix []byte) []byte {
	return append(append([]byte{}, t.prefix...), suffix...)
}

// PutID stores value under a uint64 id key.
func (t *Table) PutID(id uint64, value []byte) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id)
	return t.db.Set(t.key(buf[:]), value, &WriteOptions)
}

// GetID retrieves the value stored under id, reporting false if absent.
func (t *Table) GetID(id uint64) ([]byte, bool, error) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id)
	v, closer, err := t.db.Get(t.key(buf[:]))
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// DeleteID removes the mapping for id.
func (t *Table) DeleteID(id uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id)
	return t.db.Delete(t.key(buf[:]), &WriteOptions)
}

// Scan calls fn for every (id, value) pair in the table, in id order, for
// loading a persisted interning table back into memory at startup.
func (t *Table) Scan(fn func(id uint64, value []byte) error) error {
	iter, err := t.db.NewIter(&pebble.IterOptions{
		LowerBound: t.prefix,
		UpperBound: append(append([]byte{}, t.prefix...), 0xff),
	})
	if err != nil {
		return err
	}
	defer iter.Close()
	for iter.First(); iter.Valid(); iter.Next() {
		k := bytes.TrimPrefix(iter.Key(), t.prefix)
		if len(k) != 8 {
			continue
		}
		id := binary.BigEndian.Uint64(k)
		if err := fn(id, iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}
