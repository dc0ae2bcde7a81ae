package spaced_repetition

import "errors"

// Sentinel errors. Use errors.Is to check them.
var (
	// ErrInvalidParameter is returned for inputs that have no safe clamped default (negative count, unknown level).
	ErrInvalidParameter = errors.New("spaced_repetition: invalid parameter")
	// ErrStoreUnavailable wraps catalog/progress read failures. The store's own error stays in the chain.
	ErrStoreUnavailable = errors.New("spaced_repetition: store unavailable")
)
