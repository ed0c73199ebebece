// Package classreg implements the Reflection collaborator of
// SPEC_FULL.md §6 with a concrete Go backing: a process-wide name -> Class
// registry where each Class carries an ordered list of property accessors.
// Generalized from the corpus's classes.Field/Fields (Offset+RdxType
// composite key, rename detection by position) to a property-accessor
// table with Get/Set closures, since Go has no Q_PROPERTY-style universal
// reflection for "stored" struct fields.
package classreg

import (
	"unicode/utf8"

	"github.com/SaracenOne/bitwire/utils"
	"github.com/SaracenOne/bitwire/wire"
)

// Property is one reflective field of a registered polymorphic class.
type Property struct {
	Name     string
	Streamer *wire.TypeStreamer
	Get      func(obj any) any
	Set      func(obj any, v any)
}

// Valid reports whether p has a well-formed name and a populated streamer,
// mirroring classes.Field.Valid()'s defensive character-range check.
func (p Property) Valid() bool {
	for _, r := range p.Name {
		if r < ' ' {
			return false
		}
	}
	return len(p.Name) > 0 && utf8.ValidString(p.Name) && p.Streamer != nil
}

// Class is the registered descriptor for one polymorphic object type:
// name plus ordered stored-property list, and a constructor for fresh
// instances (used when decoding an object the local process has a class
// for but has never seen an instance of before).
type Class struct {
	Name       string
	Properties []Property
	New        func() any
}

// FindByName returns the index of the property named name, or -1.
func (c *Class) FindByName(name string) int {
	for i, p := range c.Properties {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Registry is the process-wide className -> Class map, populated during a
// single-threaded startup phase and read concurrently thereafter, matching
// wire.Registry's lifecycle. Backed by utils.CMap rather than
// xsync.MapOf's range-shardeded map since a class table is small and
// registered once; the corpus's own sync.Map wrapper is the idiomatic fit
// here.
type Registry struct {
	byName utils.CMap[string, *Class]
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(c *Class) {
	r.byName.Store(c.Name, c)
}

func (r *Registry) Lookup(name string) (*Class, bool) {
	return r.byName.Load(name)
}

// RegisterAlias additionally makes c resolvable under alias, without
// changing c.Name. Used to honor a caller's class substitution table: a
// peer's descriptor names a class we want to decode into a differently
// named local Class.
func (r *Registry) RegisterAlias(alias string, c *Class) {
	r.byName.Store(alias, c)
}

// Default is the process-wide class registry. Host applications register
// their polymorphic object types into it from package init() functions.
var Default = NewRegistry()
