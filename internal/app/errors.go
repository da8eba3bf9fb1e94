package service

import "errors"

// Sentinel errors returned by the service. Store lookups surface
// repository.ErrNotFound unchanged.
var (
	ErrInvalidRound    = errors.New("invalid round")
	ErrInvalidExpected = errors.New("invalid expected strokes")
	ErrInvalidUser     = errors.New("invalid user id")
)
