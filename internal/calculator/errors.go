package calculator

import "errors"

var (
	// ErrInvalidInput marks a caller error: mismatched or empty inputs, bad periods.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientData marks a series too short to analyse. Retrying with more history can succeed.
	ErrInsufficientData = errors.New("insufficient data")
)
