// Package pebblestore backs the durable half of the facade's interning
// tables: when a session's Config.Store is set, the attribute-value and
// script-string RepeatedValueStreamers' persistent id<->value mappings are
// written through to disk instead of living only in process memory, so a
// restarted process can resume a session without re-sending those values.
// The type- and class-descriptor tables stay in memory only.
//
// Grounded on the corpus's own pebble.DB lifecycle (chotki.go's
// Create/Open, Options.SetDefaults, WriteOptions{Sync:false}), generalized
// from chotki's CRDT op-log/merge model to a plain namespaced key-value
// store, since this codec has no CRDT merge semantics of its own to push
// into the database.
package pebblestore

import (
	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
)

// Options mirrors the corpus's Options.SetDefaults pattern: zero-value
// fields are filled with sane defaults on Open.
type Options struct {
	MaxLogLen int64
}

func (o *Options) setDefaults() {
	if o.MaxLogLen == 0 {
		o.MaxLogLen = 1 << 23
	}
}

// WriteOptions is the write durability used by every Set/Delete, matching
// the corpus's relaxed-sync default for interning-table writes (they are
// recoverable from a full renegotiation on restart, unlike the corpus's
// own op log).
var WriteOptions = pebble.WriteOptions{Sync: false}

// Store owns one pebble.DB for the whole process. Callers carve out
// namespaced Tables from it rather than opening one DB per table.
type Store struct {
	db   *pebble.DB
	opts Options
}

// Open opens (or creates) the pebble database rooted at path.
func Open(path string, opts Options) (*Store, error) {
	opts.setDefaults()
	pdb, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "pebblestore: open %q", path)
	}
	return &Store{db: pdb, opts: opts}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Table returns a namespaced view of the store keyed by a caller-supplied
// connection identifier (typically a uuid), so multiple sessions or
// interning tables can share one on-disk database without key collisions.
func (s *Store) Table(namespace string) *Table {
	return &Table{db: s.db, prefix: append([]byte(namespace), ':')}
}

func (s *Store) Metrics() *pebble.Metrics {
	return s.db.Metrics()
}
