package roster

import "errors"

// ErrUnknownPlayer indicates a name that is not on the roster.
var ErrUnknownPlayer = errors.New("unknown player")
