package schema

import (
	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/classreg"
	"github.com/SaracenOne/bitwire/wire"
)

// PropertyReader is one peer-declared property of a polymorphic object,
// with LocalProperty == -1 when the peer's property has no local
// counterpart (read and discarded, per §4.4's Streamable rule applied to
// classes).
type PropertyReader struct {
	Name          string
	Child         *TypeReader
	LocalProperty int
}

// ObjectReader is the class-level analogue of TypeReader: a class name,
// optional local class handle, and the peer's property list remapped to
// local property indices.
type ObjectReader struct {
	ClassName  string
	Local      *classreg.Class
	ExactMatch bool
	Properties []PropertyReader
}

// WriteClassDescriptor writes the class descriptor: name, property count,
// then per property a type descriptor (+name in Full mode), matching the
// Streamable row of §4.4's metadata table applied to a polymorphic class.
func WriteClassDescriptor(out *bitio.Writer, reg *classreg.Registry, c *classreg.Class, meta MetadataType) error {
	if err := writeName(out, c.Name); err != nil {
		return err
	}
	if err := out.Write(uint64(len(c.Properties)), 16); err != nil {
		return err
	}
	for _, p := range c.Properties {
		if err := WriteTypeDescriptor(out, p.Streamer, meta); err != nil {
			return err
		}
		if meta == MetadataFull {
			if err := writeName(out, p.Name); err != nil {
				return err
			}
		}
	}
	if meta == MetadataHash {
		names := make([]string, len(c.Properties))
		for i, p := range c.Properties {
			names[i] = p.Name
		}
		return writeMD5(out, hashFieldNames(names))
	}
	return nil
}

// ReadClassDescriptor mirrors WriteClassDescriptor, resolving against the
// local class registry (a class-name substitution is an alias in that
// registry, so it resolves here like any other name). Property type descriptors
// resolve against wire.Default, matching the corpus's append-only
// process-wide registry model.
func ReadClassDescriptor(in *bitio.Reader, reg *classreg.Registry, meta MetadataType) (*ObjectReader, error) {
	name, err := readName(in)
	if err != nil {
		return nil, err
	}
	n, err := in.Read(16)
	if err != nil {
		return nil, err
	}

	local, haveLocal := reg.Lookup(name)
	or := &ObjectReader{ClassName: name, Local: local}

	type peerProp struct {
		child *TypeReader
		name  string
	}
	peerProps := make([]peerProp, n)
	for i := range peerProps {
		child, err := readTypeDescriptorNoRegistry(in, meta)
		if err != nil {
			return nil, err
		}
		peerProps[i].child = child
		if meta == MetadataFull {
			pname, err := readName(in)
			if err != nil {
				return nil, err
			}
			peerProps[i].name = pname
		}
	}

	var peerHash [16]byte
	if meta == MetadataHash {
		peerHash, err = readMD5(in)
		if err != nil {
			return nil, err
		}
	}

	if !haveLocal {
		props := make([]PropertyReader, n)
		for i, pp := range peerProps {
			props[i] = PropertyReader{Name: pp.name, Child: pp.child, LocalProperty: -1}
		}
		or.Properties = props
		return or, nil
	}

	if meta == MetadataHash {
		localNames := make([]string, len(local.Properties))
		for i, p := range local.Properties {
			localNames[i] = p.Name
		}
		if hashFieldNames(localNames) == peerHash && len(localNames) == int(n) {
			or.ExactMatch = true
			return or, nil
		}
		props := make([]PropertyReader, n)
		for i, pp := range peerProps {
			idx := -1
			if i < len(local.Properties) {
				idx = i
			}
			props[i] = PropertyReader{Child: pp.child, LocalProperty: idx}
		}
		or.Properties = props
		return or, nil
	}

	props := make([]PropertyReader, n)
	exact := len(local.Properties) == int(n)
	for i, pp := range peerProps {
		idx := local.FindByName(pp.name)
		props[i] = PropertyReader{Name: pp.name, Child: pp.child, LocalProperty: idx}
		if idx != i {
			exact = false
		}
	}
	or.Properties = props
	or.ExactMatch = exact
	return or, nil
}

// readTypeDescriptorNoRegistry reads a property's type descriptor against
// the default wire registry — a class's property types are expected to be
// ordinary registered value types, resolved the same way any other nested
// type descriptor is.
func readTypeDescriptorNoRegistry(in *bitio.Reader, meta MetadataType) (*TypeReader, error) {
	return ReadTypeDescriptor(in, wire.Default, meta)
}
