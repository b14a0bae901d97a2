package catalog

import "errors"

var (
	// ErrSnapshotNotFound is returned when the snapshot file does not exist.
	ErrSnapshotNotFound = errors.New("catalog snapshot not found")

	// ErrMalformedSnapshot is returned when the snapshot cannot be parsed.
	ErrMalformedSnapshot = errors.New("malformed catalog snapshot")
)
