package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use and deterministic for
// a fixed model identity: the same text embeds to the same vector given the
// same model version.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error wrapping ErrEmbedding if generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts. An empty input yields an empty result, not an error.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
