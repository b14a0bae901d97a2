package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/recommendit/core"
)

// Build constructs the index from a catalog snapshot and persists both
// artifacts. If the artifacts already exist and force is false, Build is
// a no-op. The vector table and the metadata array are always produced
// together from one invocation; each file is replaced atomically so a
// concurrent reader keeps seeing the old pair until the new one is
// complete.
//
// Embedding runs in batches on a worker pool; rows are reassembled in
// snapshot order, so the same snapshot and model always yield identical
// artifacts.
func (x *CatalogIndex) Build(ctx context.Context, items []core.CatalogItem, force bool) error {
	if !force && ArtifactsExist(x.dir) {
		x.logger.Info("index artifacts already exist, skipping build", "dir", x.dir)
		return nil
	}

	if err := os.MkdirAll(x.dir, 0755); err != nil {
		return err
	}

	texts := make([]string, len(items))
	for i := range items {
		texts[i] = items[i].TextBlob
	}

	x.logger.Info("embedding catalog items", "count", len(texts))

	vectors, err := x.embedBatches(ctx, texts)
	if err != nil {
		return err
	}

	dim := 0
	for i := range vectors {
		vectors[i] = Normalize(vectors[i])
		if dim == 0 {
			dim = len(vectors[i])
		} else if len(vectors[i]) != dim {
			return fmt.Errorf("%w: row %d has dimension %d, want %d",
				ErrDimensionMismatch, i, len(vectors[i]), dim)
		}
	}

	vecData := marshalVectorTable(vectorTable{Dim: dim, Vectors: vectors})

	metaData, err := json.Marshal(items)
	if err != nil {
		return err
	}

	if err := atomicWrite(filepath.Join(x.dir, VectorsArtifact), vecData); err != nil {
		return err
	}
	if err := atomicWrite(filepath.Join(x.dir, MetadataArtifact), metaData); err != nil {
		return err
	}

	x.mu.Lock()
	x.dim = dim
	x.vectors = vectors
	x.items = items
	x.loaded = true
	x.mu.Unlock()

	x.logger.Info("index built", "items", len(items), "dimension", dim, "dir", x.dir)
	return nil
}

// embedBatches embeds texts in fixed-size batches submitted to a worker
// pool, then flattens the results back into input order.
func (x *CatalogIndex) embedBatches(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	numBatches := (len(texts) + x.batchSize - 1) / x.batchSize

	pool, err := ants.NewPool(x.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	batches := make([][][]float32, numBatches)
	errs := make([]error, numBatches)

	var wg sync.WaitGroup
	for bi := 0; bi < numBatches; bi++ {
		bi := bi
		lo := bi * x.batchSize
		hi := lo + x.batchSize
		if hi > len(texts) {
			hi = len(texts)
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			vecs, embErr := x.embedder.EmbedTexts(ctx, texts[lo:hi])
			if embErr != nil {
				errs[bi] = embErr
				return
			}
			if len(vecs) != hi-lo {
				errs[bi] = fmt.Errorf("embedding count mismatch: expected %d, got %d", hi-lo, len(vecs))
				return
			}
			batches[bi] = vecs
		})
		if submitErr != nil {
			wg.Done()
			errs[bi] = submitErr
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	vectors := make([][]float32, 0, len(texts))
	for _, batch := range batches {
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}
