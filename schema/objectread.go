package schema

import "github.com/SaracenOne/bitwire/bitio"

// Read decodes one full-form polymorphic object described by or, applying
// the same consume-and-drop rule as TypeReader for properties with no
// local counterpart.
func (or *ObjectReader) Read(in *bitio.Reader) (any, error) {
	if or.Local == nil {
		for _, p := range or.Properties {
			if _, err := p.Child.Read(in); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	obj := or.Local.New()
	if or.ExactMatch {
		for i, prop := range or.Local.Properties {
			v, err := prop.Streamer.Read(in)
			if err != nil {
				return nil, err
			}
			or.Local.Properties[i].Set(obj, v)
		}
		return obj, nil
	}
	for _, p := range or.Properties {
		v, err := p.Child.Read(in)
		if err != nil {
			return nil, err
		}
		if p.LocalProperty < 0 {
			continue
		}
		or.Local.Properties[p.LocalProperty].Set(obj, v)
	}
	return obj, nil
}

// ReadDelta mirrors §4.5's polymorphic-object delta: same class as
// reference -> per-property delta; the class descriptor itself has
// already been consumed by the caller before invoking this, since class
// identity is decided by comparing class descriptors, not a value bit.
func (or *ObjectReader) ReadDelta(in *bitio.Reader, ref any) (any, error) {
	if or.Local == nil {
		for _, p := range or.Properties {
			if _, err := p.Child.Read(in); err != nil {
				return nil, err
			}
		}
		return ref, nil
	}
	if or.ExactMatch {
		obj := ref
		for i, prop := range or.Local.Properties {
			cur := prop.Get(obj)
			v, err := prop.Streamer.ReadDelta(in, cur)
			if err != nil {
				return nil, err
			}
			or.Local.Properties[i].Set(obj, v)
		}
		return obj, nil
	}
	obj := ref
	for _, p := range or.Properties {
		var cur any
		if p.LocalProperty >= 0 {
			cur = or.Local.Properties[p.LocalProperty].Get(obj)
		}
		v, err := p.Child.ReadDelta(in, cur)
		if err != nil {
			return nil, err
		}
		if p.LocalProperty < 0 {
			continue
		}
		or.Local.Properties[p.LocalProperty].Set(obj, v)
	}
	return obj, nil
}
