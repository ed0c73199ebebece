package scriptvalue

import "errors"

var ErrUnknownKind = errors.New("scriptvalue: value has unknown kind")
