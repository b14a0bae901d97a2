package jdfetch

import "errors"

var (
	// ErrFetch indicates the job-description URL was unreachable or its
	// content could not be parsed. Surfaced to the caller of that one
	// request; retries belong to the caller, not the fetcher.
	ErrFetch = errors.New("job description fetch failed")
)
