// Package sharedobject implements the identity and successor-delta
// protocol of SPEC_FULL.md §4.7: objects transmitted by reference carry a
// four-part identity (id, originID, remoteID, remoteOriginID) so that a
// mutated successor of a previously-sent object can be encoded as a delta
// against its predecessor instead of retransmitted whole.
//
// Grounded on the corpus's ID/VV pair (id.go, vv.go): a compact integer
// identity plus a map tracking "most recently seen state per lineage",
// generalized from their op-log replica/seq model to a plain
// predecessor-lookup table, since this codec has no causal log of its own.
package sharedobject

import "github.com/SaracenOne/bitwire/classreg"

// Identity is the four-ID tuple SPEC_FULL.md §4.7 assigns to every shared
// object reference. ID and OriginID are populated on the write side (this
// process's own view); RemoteID and RemoteOriginID are populated on the
// read side (the peer's compact wire ids for the same object).
//
// SessionID is not part of the wire protocol — it is the local Writer's
// or Reader's own session-scoped connection identifier, stamped onto every
// Handle so a process juggling several concurrent links can tell which
// one produced a given handle.
type Identity struct {
	ID             uint64
	OriginID       uint64
	RemoteID       uint64
	RemoteOriginID uint64
	SessionID      string
}

// Handle is a tracked shared object: its identity, registered class, and
// current value. Handle is the write-side and read-side unit held in
// weakSharedObjectHash / sharedObjectReferences.
type Handle struct {
	Identity
	Class   *classreg.Class
	Value   any
	Cleared bool
}

type tag byte

const (
	tagNull  tag = 0
	tagValue tag = 1
	tagClear tag = 2
)

const tagBits = 2
