package server

import "errors"

var (
	// ErrConfigRequired indicates a nil config was provided.
	ErrConfigRequired = errors.New("config is required")

	// ErrEngineRequired indicates a nil recommendation engine was provided.
	ErrEngineRequired = errors.New("recommendation engine is required")

	// ErrIndexRequired indicates a nil index was provided.
	ErrIndexRequired = errors.New("index is required")
)
