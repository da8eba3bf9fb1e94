package legacy

import "errors"

// Sentinel error kinds for this package.
var (
	ErrMalformed = errors.New("malformed legacy record")
)
