// Package tfidf is the local embedding fallback used when no remote
// embedding credential is configured. It produces L2-normalized TF-IDF
// vectors over a vocabulary frozen at fit time, so two fits over the same
// corpus yield bit-identical vectors for the same input.
package tfidf

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]{2,}`)

// Vectorizer maps text to sparse TF-IDF vectors in a fixed vocabulary.
// Query terms outside the fitted vocabulary contribute zero weight.
type Vectorizer struct {
	vocab  map[string]int
	idf    []float64
	fitted bool
}

func New() *Vectorizer {
	return &Vectorizer{vocab: make(map[string]int)}
}

func (v *Vectorizer) Name() string { return "tfidf" }

// Fit builds the vocabulary and IDF weights from the corpus, replacing any
// prior fit. The vocabulary is ordered lexicographically so vector layout
// does not depend on map iteration order.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("tfidf: empty corpus")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(text) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return errors.New("tfidf: corpus has no indexable terms")
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v.vocab = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		v.vocab[term] = i
		// smoothed IDF: ln((1+N)/(1+df)) + 1
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	v.fitted = true
	return nil
}

// Embed projects text into the fitted vocabulary. A text with no in-vocabulary
// terms yields the zero vector rather than an error.
func (v *Vectorizer) Embed(text string) ([]float64, error) {
	if !v.fitted {
		return nil, errors.New("tfidf: embed before fit")
	}
	vec := make([]float64, len(v.idf))
	for _, tok := range tokenize(text) {
		if i, ok := v.vocab[tok]; ok {
			vec[i] += v.idf[i]
		}
	}
	normalize(vec)
	return vec, nil
}

func normalize(vec []float64) {
	var sq float64
	for _, x := range vec {
		sq += x * x
	}
	if sq == 0 {
		return
	}
	norm := math.Sqrt(sq)
	for i := range vec {
		vec[i] /= norm
	}
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// English stop-words excluded from the vocabulary and from queries.
var stopwords = func() map[string]struct{} {
	words := []string{
		"about", "above", "after", "again", "all", "am", "an", "and", "any",
		"are", "as", "at", "be", "because", "been", "before", "being", "below",
		"between", "both", "but", "by", "can", "could", "did", "do", "does",
		"doing", "down", "during", "each", "few", "for", "from", "further",
		"had", "has", "have", "having", "he", "her", "here", "hers", "him",
		"his", "how", "if", "in", "into", "is", "it", "its", "itself", "just",
		"me", "more", "most", "my", "no", "nor", "not", "now", "of", "off",
		"on", "once", "only", "or", "other", "our", "ours", "out", "over",
		"own", "same", "she", "should", "so", "some", "such", "than", "that",
		"the", "their", "theirs", "them", "then", "there", "these", "they",
		"this", "those", "through", "to", "too", "under", "until", "up",
		"very", "was", "we", "were", "what", "when", "where", "which", "while",
		"who", "whom", "why", "will", "with", "you", "your", "yours",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
