package pde

import "errors"

var (
	// ErrInvalidParameter marks economically or numerically meaningless
	// inputs (non-positive strike, negative volatility, barrier outside the
	// spatial domain). Surfaced to the caller immediately, never retried.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrSingularSystem marks a singular implicit matrix. This is an
	// internal invariant violation: the Crank-Nicolson matrix is strictly
	// diagonally dominant for valid inputs, so a singular system indicates a
	// construction bug rather than bad user input.
	ErrSingularSystem = errors.New("singular implicit system")
)
