package recommend

import "errors"

var (
	// ErrServiceRequired indicates a nil retrieval service was provided.
	ErrServiceRequired = errors.New("retrieval service is required")

	// ErrRerankerRequired indicates a nil reranker was provided.
	ErrRerankerRequired = errors.New("reranker is required")
)
