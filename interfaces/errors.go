package interfaces

import "errors"

var (
	// ErrObjectNotFound is returned when no object exists at the resolved
	// location, or when the delegate declined to produce a key for an
	// identifier. The delegate is authoritative on existence.
	ErrObjectNotFound = errors.New("object not found")

	// ErrAccessDenied is returned when an object exists but is not readable
	// with the current credentials.
	ErrAccessDenied = errors.New("object access denied")

	// ErrStorageIO is returned for any storage-layer failure that is neither
	// a missing object nor a permission problem: network errors, throttling,
	// malformed responses. It always wraps the underlying cause.
	ErrStorageIO = errors.New("storage request failed")

	// ErrInvalidDelegateResult is returned when the delegate produced a result
	// that is neither a key string nor a bucket/key mapping.
	ErrInvalidDelegateResult = errors.New("invalid delegate result")

	// ErrDelegateUnavailable is returned when the delegate call itself failed
	// or delegate lookups are not configured.
	ErrDelegateUnavailable = errors.New("delegate unavailable")

	// ErrInvalidConfiguration is returned when the lookup strategy selector is
	// unset or has an unrecognized value. It surfaces before any storage call.
	ErrInvalidConfiguration = errors.New("invalid lookup configuration")
)
