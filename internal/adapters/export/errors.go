package export

import "errors"

// ErrNoHistory indicates there are no finished games to export.
var ErrNoHistory = errors.New("no game history")
