// Package embedding defines the text-embedding strategy used by the
// similarity index. Exactly one strategy is selected at assembly time:
// a remote dense embedder when an API credential is configured, or the
// local TF-IDF fallback otherwise.
package embedding

// Embedder converts free text into a numeric vector representation.
// Fit is called once over the initial document set; remote implementations
// may treat it as a no-op.
type Embedder interface {
	Name() string
	Fit(corpus []string) error
	Embed(text string) ([]float64, error)
}
