// Package bitwire is the facade package: it binds bitio, idstream,
// intern, wire, schema, classreg, scriptvalue and sharedobject into one
// Bitstream that a host application constructs once per connection (or
// once per persisted session, if Config.Store is set).
package bitwire

import "errors"

// Flat sentinel-error set, grounded on the corpus's own chotki_errors
// package (one var ErrX = errors.New(...) per failure mode rather than a
// typed error hierarchy).
var (
	// ErrClassSubstitutionUnregistered is returned by AddClassSubstitution
	// when local has never itself been registered into the class registry
	// this Bitstream was built with.
	ErrClassSubstitutionUnregistered = errors.New("bitwire: substitute class is not registered")
	// ErrTypeSubstitutionUnregistered mirrors
	// ErrClassSubstitutionUnregistered for AddTypeSubstitution.
	ErrTypeSubstitutionUnregistered = errors.New("bitwire: substitute type is not registered")
	// ErrNilObject is returned by WriteObject/WriteObjectDelta for a nil
	// obj — objects go through WriteSharedObject when nullability matters.
	ErrNilObject = errors.New("bitwire: object value is nil")
)
