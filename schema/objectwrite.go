package schema

import (
	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/classreg"
)

// WriteObject writes obj's properties in full form, in class-declaration
// order, with no leading class descriptor — callers intern and write the
// class descriptor separately (it is itself a repeated value, per §4.6).
func WriteObject(out *bitio.Writer, c *classreg.Class, obj any) error {
	for _, p := range c.Properties {
		if err := p.Streamer.Write(out, p.Get(obj)); err != nil {
			return err
		}
	}
	return nil
}

// WriteObjectDelta writes obj as a per-property delta against ref, both of
// class c, per §4.5's polymorphic-object rule (same class -> per-property
// delta).
func WriteObjectDelta(out *bitio.Writer, c *classreg.Class, obj, ref any) error {
	for _, p := range c.Properties {
		if err := p.Streamer.WriteDelta(out, p.Get(obj), p.Get(ref)); err != nil {
			return err
		}
	}
	return nil
}

// ReadObject mirrors WriteObject for a reader that already knows c applies
// verbatim — no class descriptor or schema remapping involved, used when
// both ends of a link are known to share the same registered class (e.g.
// shared-object successors within one session).
func ReadObject(in *bitio.Reader, c *classreg.Class) (any, error) {
	obj := c.New()
	for _, p := range c.Properties {
		v, err := p.Streamer.Read(in)
		if err != nil {
			return nil, err
		}
		p.Set(obj, v)
	}
	return obj, nil
}

// ReadObjectDelta mirrors WriteObjectDelta for the same same-class case.
func ReadObjectDelta(in *bitio.Reader, c *classreg.Class, ref any) (any, error) {
	obj := ref
	for _, p := range c.Properties {
		v, err := p.Streamer.ReadDelta(in, p.Get(obj))
		if err != nil {
			return nil, err
		}
		p.Set(obj, v)
	}
	return obj, nil
}
