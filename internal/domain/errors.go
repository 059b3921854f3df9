package domain

import "errors"

var (
	// ErrDataFormat means the history source is missing required columns or
	// no valid rows survived cleaning.
	ErrDataFormat = errors.New("invalid history data")
	// ErrNotFound means the history source does not exist.
	ErrNotFound = errors.New("history source not found")
	// ErrInsufficientGroupSize means tier A, B or C has fewer than 2 numbers.
	ErrInsufficientGroupSize = errors.New("groups A, B and C must have at least 2 numbers each")
	// ErrGenerationExhausted means a card ran out of attempts before filling up.
	ErrGenerationExhausted = errors.New("could not generate enough unique combinations")
	// ErrInvalidRequest means caller-supplied parameters are out of range.
	ErrInvalidRequest = errors.New("invalid request")
)
