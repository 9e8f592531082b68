// Package retriever adapts the similarity index to the shapes the rest of
// the pipeline consumes. It holds no state of its own.
package retriever

import (
	"github.com/SohamAjmera/Agent-Pipeline/internal/domain"
	"github.com/SohamAjmera/Agent-Pipeline/internal/index"
)

// Retriever is a thin façade over the similarity index.
type Retriever struct {
	index *index.Index
}

func New(ix *index.Index) *Retriever {
	return &Retriever{index: ix}
}

// Index builds the underlying similarity index over docs.
func (r *Retriever) Index(docs []domain.Document) error {
	return r.index.Build(docs)
}

// Search returns the top-k documents for query as scored chunks.
func (r *Retriever) Search(query string, k int) ([]domain.RetrievedChunk, error) {
	scored, err := r.index.Query(query, k)
	if err != nil {
		return nil, err
	}
	chunks := make([]domain.RetrievedChunk, len(scored))
	for i, s := range scored {
		chunks[i] = domain.RetrievedChunk{DocID: s.Doc.ID, Text: s.Doc.Text, Score: s.Score}
	}
	return chunks, nil
}
