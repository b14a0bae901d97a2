// Package rerank reorders and filters retrieved candidates using
// deterministic heuristics inferred from the query text: a maximum
// duration constraint and balancing across requested assessment domains.
package rerank
