// Package index holds the in-memory similarity index over the knowledge
// base. It is a brute-force cosine index: small document sets, exact
// scores, deterministic ordering.
package index

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/SohamAjmera/Agent-Pipeline/internal/domain"
	"github.com/SohamAjmera/Agent-Pipeline/internal/embedding"
)

// norm epsilon keeps an all-zero vector (empty or fully out-of-vocabulary
// query) scoring 0 everywhere instead of dividing by zero.
const epsilon = 1e-8

// Scored is one nearest-neighbor result.
type Scored struct {
	Doc   domain.Document
	Score float64
}

// Index answers nearest-neighbor queries by cosine similarity. Build replaces
// the whole index; there is no incremental update. The RWMutex serializes
// rebuilds (e.g. from the KB watcher) against concurrent read-only queries.
type Index struct {
	mu       sync.RWMutex
	embedder embedding.Embedder
	docs     []domain.Document
	vectors  [][]float64
}

func New(embedder embedding.Embedder) *Index {
	return &Index{embedder: embedder}
}

// Build fits the embedder over docs and stores one vector per document,
// discarding any prior contents. Embedding failures abort the build and
// leave the previous index in place.
func (ix *Index) Build(docs []domain.Document) error {
	corpus := make([]string, len(docs))
	for i, d := range docs {
		corpus[i] = d.Text
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if len(docs) == 0 {
		// an empty knowledge base is not an error; queries return nothing
		ix.docs, ix.vectors = nil, nil
		return nil
	}
	if err := ix.embedder.Fit(corpus); err != nil {
		return fmt.Errorf("fit %s embedder: %w", ix.embedder.Name(), err)
	}
	vectors := make([][]float64, len(docs))
	for i, d := range docs {
		vec, err := ix.embedder.Embed(d.Text)
		if err != nil {
			return fmt.Errorf("embed document %s: %w", d.ID, err)
		}
		vectors[i] = vec
	}
	ix.docs = append([]domain.Document(nil), docs...)
	ix.vectors = vectors
	return nil
}

// Query returns the min(k, n) most similar documents in strictly descending
// score order; equal scores keep the documents' insertion order. A query
// before any Build returns an empty slice.
func (ix *Index) Query(text string, k int) ([]Scored, error) {
	if k <= 0 {
		return nil, fmt.Errorf("index query: k must be positive, got %d", k)
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if len(ix.docs) == 0 {
		return nil, nil
	}
	qvec, err := ix.embedder.Embed(text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results := make([]Scored, len(ix.docs))
	for i := range ix.docs {
		results[i] = Scored{Doc: ix.docs[i], Score: cosine(qvec, ix.vectors[i])}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Size reports the number of indexed documents.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, x := range a {
		na += x * x
	}
	for _, x := range b {
		nb += x * x
	}
	return dot / ((math.Sqrt(na) + epsilon) * (math.Sqrt(nb) + epsilon))
}
