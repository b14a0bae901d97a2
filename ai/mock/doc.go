// Package mock provides a deterministic test double for the ai.Embedder
// interface. The default behavior hashes input text to a stable unit
// vector, so tests get reproducible similarity orderings without an
// embedding service.
package mock
