package gocube

import "errors"

// Sentinel errors for the gocube package.
var (
	// Notation errors
	ErrInvalidTwist    = errors.New("gocube: invalid twist command")
	ErrInvalidNotation = errors.New("gocube: invalid move notation")

	// Structural errors
	ErrInvalidSlice = errors.New("gocube: invalid slice")
	ErrBijection    = errors.New("gocube: address table is not a bijection")

	// State errors
	ErrNoSolver = errors.New("gocube: no solver configured")
)
