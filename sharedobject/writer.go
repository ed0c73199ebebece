package sharedobject

import (
	"github.com/SaracenOne/bitwire/bitio"
	"github.com/SaracenOne/bitwire/classreg"
	"github.com/SaracenOne/bitwire/idstream"
	"github.com/SaracenOne/bitwire/schema"
)

// Writer tracks, for one session, the compact wire ids assigned to shared
// object references and which lineage (originID) each belongs to, so that
// a successor can be emitted as a delta against the last thing sent for
// its lineage.
type Writer struct {
	sessionID string

	ids     *idstream.Writer
	origins *idstream.Writer

	byValue  map[any]uint64 // value -> assigned compact id
	byOrigin map[uint64]uint64 // caller's originID -> compact origin tag

	predecessor map[uint64]*Handle // compact origin tag -> last handle sent for it
}

// NewWriter starts a shared-object writer for one session, stamping
// sessionID onto every Handle it produces so a process juggling several
// concurrent links can tell which one a given handle came from.
func NewWriter(sessionID string) *Writer {
	return &Writer{
		sessionID:   sessionID,
		ids:         idstream.NewWriter(),
		origins:     idstream.NewWriter(),
		byValue:     map[any]uint64{},
		byOrigin:    map[uint64]uint64{},
		predecessor: map[uint64]*Handle{},
	}
}

// Write emits one shared object reference. value == nil emits the null
// marker. originID is the caller's own lineage tag (e.g. the id of the
// object's first incarnation); successors pass the same originID as their
// predecessor so the receiver can match them up.
func (w *Writer) Write(out *bitio.Writer, c *classreg.Class, value any, originID uint64) error {
	if value == nil {
		return out.Write(uint64(tagNull), tagBits)
	}
	if err := out.Write(uint64(tagValue), tagBits); err != nil {
		return err
	}

	id, knownID := w.byValue[value]
	if knownID {
		if err := w.ids.WriteKnown(out, id); err != nil {
			return err
		}
	} else {
		newID, err := w.ids.WriteNew(out)
		if err != nil {
			return err
		}
		id = newID
		w.byValue[value] = id
	}

	originTag, knownOrigin := w.byOrigin[originID]
	if knownOrigin {
		if err := w.origins.WriteKnown(out, originTag); err != nil {
			return err
		}
	} else {
		newTag, err := w.origins.WriteNew(out)
		if err != nil {
			return err
		}
		originTag = newTag
		w.byOrigin[originID] = originTag
	}

	pred, havePred := w.predecessor[originTag]
	isDelta := havePred && pred.Value != nil
	if err := out.WriteBool(isDelta); err != nil {
		return err
	}
	var err error
	if isDelta {
		err = schema.WriteObjectDelta(out, c, value, pred.Value)
	} else {
		err = schema.WriteObject(out, c, value)
	}
	if err != nil {
		return err
	}

	w.predecessor[originTag] = &Handle{
		Identity: Identity{ID: id, OriginID: originTag, SessionID: w.sessionID},
		Class:    c,
		Value:    value,
	}
	return nil
}

// Clear emits a SharedObjectCleared notification for value and removes it
// from this writer's own tracking tables, so a subsequent Write of the
// same underlying object (should the caller reuse it) is treated as new.
func (w *Writer) Clear(out *bitio.Writer, value any) error {
	id, known := w.byValue[value]
	if !known {
		return ErrNotTracked
	}
	if err := out.Write(uint64(tagClear), tagBits); err != nil {
		return err
	}
	if err := w.ids.WriteKnown(out, id); err != nil {
		return err
	}
	delete(w.byValue, value)
	for origin, pred := range w.predecessor {
		if pred.ID == id {
			delete(w.predecessor, origin)
		}
	}
	return nil
}

// TrackedCount reports how many distinct values this writer currently has
// an assigned compact id for, for Stats()-style reporting.
func (w *Writer) TrackedCount() int { return len(w.byValue) }
