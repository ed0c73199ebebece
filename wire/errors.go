package wire

import "errors"

// ErrUnknownKind is returned when a TypeStreamer's Kind has no populated
// *Ops field matching it — a registration bug, not a wire-format error.
var ErrUnknownKind = errors.New("wire: type streamer has unknown kind")
