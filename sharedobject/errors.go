package sharedobject

import "errors"

var (
	// ErrNotTracked is returned by Writer.Clear for a value the writer
	// never sent (or already cleared).
	ErrNotTracked = errors.New("sharedobject: value not tracked by this writer")
	// ErrNoPredecessor is returned when a delta frame arrives for a
	// lineage with no known predecessor.
	ErrNoPredecessor = errors.New("sharedobject: delta frame has no predecessor")
	// ErrUnknownTag is returned on an unrecognized leading frame tag.
	ErrUnknownTag = errors.New("sharedobject: unknown frame tag")
)
