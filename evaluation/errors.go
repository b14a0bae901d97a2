package evaluation

import "errors"

var (
	// ErrLabelsNotFound indicates the labels file does not exist.
	ErrLabelsNotFound = errors.New("labels file not found")

	// ErrMalformedLabels indicates the labels file could not be parsed.
	ErrMalformedLabels = errors.New("malformed labels file")

	// ErrEngineRequired indicates a nil recommendation engine was provided.
	ErrEngineRequired = errors.New("recommendation engine is required")
)
