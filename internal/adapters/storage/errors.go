package storage

import "errors"

// ErrNoSnapshot indicates that no session snapshot has been persisted.
var ErrNoSnapshot = errors.New("no snapshot")
