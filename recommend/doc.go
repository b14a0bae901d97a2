// Package recommend wires retrieval and reranking into the end-to-end
// recommendation pipeline and shapes the final output records.
package recommend
