package index

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/goccy/go-json"
	"github.com/poiesic/recommendit/ai"
	"github.com/poiesic/recommendit/core"
)

// Match is one search result: a catalog item and its cosine similarity
// to the query vector.
type Match struct {
	Score float32
	Item  core.CatalogItem
}

// CatalogIndex owns the vector table and the parallel metadata array.
// Position i in both refers to the same catalog item; row order is fixed
// at build time and never changes without a full rebuild.
//
// After a successful Build or Load the index is immutable, so concurrent
// Search calls need no locking. The load itself is guarded so concurrent
// first requests do not duplicate the work.
type CatalogIndex struct {
	dir       string
	embedder  ai.Embedder
	batchSize int
	poolSize  int
	logger    *slog.Logger

	mu      sync.Mutex
	loaded  bool
	dim     int
	vectors [][]float32
	items   []core.CatalogItem
}

// Option configures a CatalogIndex.
type Option func(*CatalogIndex) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(x *CatalogIndex) error {
		if logger == nil {
			logger = slog.Default()
		}
		x.logger = logger
		return nil
	}
}

// WithBatchSize sets how many text blobs are embedded per batch call
// during Build. Default is 64.
func WithBatchSize(size int) Option {
	return func(x *CatalogIndex) error {
		if size < 1 {
			size = 1
		}
		x.batchSize = size
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent batch embedding
// during Build. Default is 4.
func WithPoolSize(size int) Option {
	return func(x *CatalogIndex) error {
		if size < 1 {
			size = 1
		}
		x.poolSize = size
		return nil
	}
}

// New creates a catalog index over the artifact directory dir.
// The directory is created on Build if it does not exist.
func New(dir string, embedder ai.Embedder, opts ...Option) (*CatalogIndex, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	x := &CatalogIndex{
		dir:       dir,
		embedder:  embedder,
		batchSize: 64,
		poolSize:  4,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(x); err != nil {
			return nil, err
		}
	}

	return x, nil
}

// Load reads both artifacts into memory. Load on an already-loaded index
// is a no-op. Returns ErrIndexNotFound if either artifact is absent.
func (x *CatalogIndex) Load() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.loadLocked()
}

func (x *CatalogIndex) loadLocked() error {
	if x.loaded {
		return nil
	}

	vecPath := filepath.Join(x.dir, VectorsArtifact)
	metaPath := filepath.Join(x.dir, MetadataArtifact)

	vecData, err := os.ReadFile(vecPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrIndexNotFound, vecPath)
		}
		return err
	}
	metaData, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrIndexNotFound, metaPath)
		}
		return err
	}

	table, err := unmarshalVectorTable(vecData)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptArtifact, err)
	}

	var items []core.CatalogItem
	if err := json.Unmarshal(metaData, &items); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptArtifact, err)
	}

	if len(items) != len(table.Vectors) {
		return fmt.Errorf("%w: %d vectors, %d metadata rows",
			ErrArtifactMismatch, len(table.Vectors), len(items))
	}

	x.dim = table.Dim
	x.vectors = table.Vectors
	x.items = items
	x.loaded = true

	x.logger.Info("index loaded", "items", len(items), "dimension", table.Dim)
	return nil
}

// ensureLoaded lazily loads the artifacts on first access.
func (x *CatalogIndex) ensureLoaded() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.loadLocked()
}

// Size returns the number of indexed items, loading the artifacts first
// if necessary.
func (x *CatalogIndex) Size() (int, error) {
	if err := x.ensureLoaded(); err != nil {
		return 0, err
	}
	return len(x.items), nil
}

// Search returns up to min(topK, Size()) results ordered by descending
// similarity score; ties keep original row order. The query vector is
// L2-normalized before comparison, mirroring build-time normalization,
// so the score is true cosine similarity.
func (x *CatalogIndex) Search(query []float32, topK int) ([]Match, error) {
	if err := x.ensureLoaded(); err != nil {
		return nil, err
	}

	if len(query) == 0 || topK <= 0 || len(x.vectors) == 0 {
		return nil, nil
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			ErrDimensionMismatch, len(query), x.dim)
	}

	q := Normalize(query)

	results := make([]Match, 0, len(x.vectors))
	for i, vec := range x.vectors {
		results = append(results, Match{
			Score: dotProduct(q, vec),
			Item:  x.items[i],
		})
	}

	// Stable sort keeps row order as the tie break.
	slices.SortStableFunc(results, func(a, b Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}
