package sharedobject

import (
	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/classreg"
	"github.com/SaracenOne/bitwire/idstream"
	"github.com/SaracenOne/bitwire/schema"
)

// Reader mirrors Writer: weakSharedObjectHash (objects, keyed by the
// peer's compact id) and sharedObjectReferences (predecessor per lineage).
type Reader struct {
	sessionID string

	ids     *idstream.Reader
	origins *idstream.Reader

	objects     map[uint64]*Handle // remote id -> handle
	predecessor map[uint64]*Handle // remote origin tag -> last handle for it
}

// NewReader mirrors Writer's sessionID stamping on the read side.
func NewReader(sessionID string) *Reader {
	return &Reader{
		sessionID:   sessionID,
		ids:         idstream.NewReader(),
		origins:     idstream.NewReader(),
		objects:     map[uint64]*Handle{},
		predecessor: map[uint64]*Handle{},
	}
}

// Read decodes one shared object reference written by Writer.Write or
// Writer.Clear. c is the locally registered class the wire payload is
// expected to describe — callers that need to resolve the class
// dynamically from a descriptor should do so before calling Read. A nil
// Handle with no error means the peer sent a null reference; a Handle with
// Cleared set means the peer sent a SharedObjectCleared notification.
func (r *Reader) Read(in *bitio.Reader, c *classreg.Class) (*Handle, error) {
	raw, err := in.Read(tagBits)
	if err != nil {
		return nil, err
	}
	switch tag(raw) {
	case tagNull:
		return nil, nil
	case tagClear:
		id, _, err := r.ids.Read(in)
		if err != nil {
			return nil, err
		}
		h, ok := r.objects[id]
		if !ok {
			return &Handle{Identity: Identity{RemoteID: id, SessionID: r.sessionID}, Cleared: true}, nil
		}
		delete(r.objects, id)
		for origin, pred := range r.predecessor {
			if pred.RemoteID == id {
				delete(r.predecessor, origin)
			}
		}
		h.Cleared = true
		return h, nil
	case tagValue:
		return r.readValue(in, c)
	default:
		return nil, ErrUnknownTag
	}
}

func (r *Reader) readValue(in *bitio.Reader, c *classreg.Class) (*Handle, error) {
	id, _, err := r.ids.Read(in)
	if err != nil {
		return nil, err
	}
	originTag, _, err := r.origins.Read(in)
	if err != nil {
		return nil, err
	}
	isDelta, err := in.ReadBool()
	if err != nil {
		return nil, err
	}

	pred := r.predecessor[originTag]
	var value any
	if isDelta {
		if pred == nil {
			return nil, ErrNoPredecessor
		}
		base := pred.Value
		if pred.RemoteID != id {
			// A successor gets its own object, seeded from the predecessor's
			// properties, so the predecessor's Handle keeps its own value.
			base = c.New()
			for _, p := range c.Properties {
				p.Set(base, p.Get(pred.Value))
			}
		}
		value, err = schema.ReadObjectDelta(in, c, base)
	} else {
		value, err = schema.ReadObject(in, c)
	}
	if err != nil {
		return nil, err
	}

	h := &Handle{
		Identity: Identity{RemoteID: id, RemoteOriginID: originTag, SessionID: r.sessionID},
		Class:    c,
		Value:    value,
	}
	if pred != nil && pred.RemoteID != id {
		delete(r.objects, pred.RemoteID)
	}
	r.objects[id] = h
	r.predecessor[originTag] = h
	return h, nil
}

// TrackedCount reports how many distinct remote ids this reader currently
// holds a Handle for, for Stats()-style reporting.
func (r *Reader) TrackedCount() int { return len(r.objects) }
