package session

import "errors"

// ErrInvalidSnapshot indicates a stored session document that cannot
// describe a coherent session.
var ErrInvalidSnapshot = errors.New("invalid session snapshot")

// ErrInvalidSettings indicates session settings outside their legal
// ranges.
var ErrInvalidSettings = errors.New("invalid session settings")
