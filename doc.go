// Package bitwire ties together a bit-packed wire format and the runtime
// machinery needed to evolve it safely: growing-width integer interning
// (idstream), repeated-value interning tables (intern), a polymorphic
// value codec with full and delta forms (wire), a reflective class
// registry for host-language objects (classreg), a schema-negotiation
// shim that tolerates a peer's divergent type/class shape (schema), a
// dynamically-typed scripting value (scriptvalue), and a by-reference
// shared-object identity protocol with successor deltas (sharedobject).
//
// A Bitstream is the unit of work: one per connection (or one per
// restartable session, when Config.Store is set). Construct one with
// NewBitstream, register application types/classes into the wire.Registry
// and classreg.Registry it was built with before any traffic flows, then
// call WriteValue/ReadValue (or the Object/SharedObject/Attribute/
// ScriptString variants) per message.
package bitwire
