package rotation

import "errors"

// Rotation engine errors. Validation failures leave session state
// untouched.
var (
	// ErrUnknownCourt indicates a court id outside the bank.
	ErrUnknownCourt = errors.New("unknown court")
	// ErrInvalidWinnerCount indicates a result without exactly two
	// distinct winner names.
	ErrInvalidWinnerCount = errors.New("invalid winner count")
	// ErrInvalidWinners indicates winners that are not seated on the
	// court or do not form one of its teams.
	ErrInvalidWinners = errors.New("invalid winners")
)
