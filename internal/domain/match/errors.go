package match

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInvalidInput reports an empty query or an empty candidate display
	// name reaching the scorer. Always a caller bug; never retried.
	ErrInvalidInput = errors.New("invalid match input")
)
