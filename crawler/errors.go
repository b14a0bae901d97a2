package crawler

import "errors"

var (
	// ErrInvalidMaxAttempts indicates a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrListingFetch indicates a catalog listing page could not be
	// retrieved. Detail-page failures are logged and skipped instead.
	ErrListingFetch = errors.New("catalog listing fetch failed")
)
