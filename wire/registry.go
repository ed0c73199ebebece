package wire

import (
	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"
)

// ErrUnknownTypeName signals a lookup for a type name the registry has
// never seen registered.
var ErrUnknownTypeName = errors.New("wire: unknown type name")

// Registry is the process-wide type name -> TypeStreamer map. It is
// expected to be populated during a single-threaded startup phase (package
// init() calls) and is safe for concurrent lookups thereafter, backed by an
// xsync.MapOf the same way the corpus backs its connection table in
// toytlv.Transport.
type Registry struct {
	byName *xsync.MapOf[string, *TypeStreamer]
}

// NewRegistry constructs an empty, ready-to-register Registry. Most
// programs use the package-level Default instead.
func NewRegistry() *Registry {
	return &Registry{byName: xsync.NewMapOf[string, *TypeStreamer]()}
}

// Register adds a TypeStreamer under its Name. Re-registering the same name
// with a different *TypeStreamer overwrites the mapping — the registry
// itself does not forbid this, since schema evolution (a newer build
// re-registering a changed Streamable) is a legitimate startup-time
// operation; it is concurrent *lookup* mid-registration that is unsafe.
func (r *Registry) Register(t *TypeStreamer) {
	r.byName.Store(t.Name, t)
}

// Lookup returns the TypeStreamer registered under name, if any.
func (r *Registry) Lookup(name string) (*TypeStreamer, bool) {
	return r.byName.Load(name)
}

// RegisterAlias additionally makes t resolvable under alias, without
// changing t.Name. Used to honor a caller's type substitution table: a
// peer's descriptor names a type we want to decode into a differently
// named local TypeStreamer.
func (r *Registry) RegisterAlias(alias string, t *TypeStreamer) {
	r.byName.Store(alias, t)
}

// MustLookup panics if name is not registered; intended for startup-time
// wiring code where an unregistered dependency is a programming error.
func (r *Registry) MustLookup(name string) *TypeStreamer {
	t, ok := r.Lookup(name)
	if !ok {
		panic(errors.Wrapf(ErrUnknownTypeName, "name=%s", name))
	}
	return t
}

// Default is the process-wide registry pre-populated with the built-in
// primitive streamers. Application types are registered into it from
// package init() functions before any Bitstream is constructed, per
// SPEC_FULL.md §5's phase-separated concurrency model.
var Default = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, t := range []*TypeStreamer{Bool(), Int32(), Int64(), Float64(), String(), Bytes()} {
		r.Register(t)
	}
	return r
}
