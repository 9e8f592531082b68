package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitEmptyCorpus(t *testing.T) {
	err := New().Fit(nil)
	require.Error(t, err)
}

func TestFitStopwordOnlyCorpus(t *testing.T) {
	err := New().Fit([]string{"the and or", "is was"})
	require.Error(t, err)
}

func TestEmbedBeforeFit(t *testing.T) {
	_, err := New().Embed("anything")
	require.Error(t, err)
}

func TestEmbedIsL2Normalized(t *testing.T) {
	v := New()
	require.NoError(t, v.Fit([]string{"widgets ship quickly", "returns take longer"}))

	vec, err := v.Embed("widgets ship quickly")
	require.NoError(t, err)

	var sq float64
	for _, x := range vec {
		sq += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(sq), 1e-9)
}

func TestOutOfVocabularyYieldsZeroVector(t *testing.T) {
	v := New()
	require.NoError(t, v.Fit([]string{"widgets ship quickly", "returns take longer"}))

	vec, err := v.Embed("zebra quantum")
	require.NoError(t, err)
	for i, x := range vec {
		assert.Zerof(t, x, "component %d", i)
	}
}

func TestStopwordsExcluded(t *testing.T) {
	v := New()
	require.NoError(t, v.Fit([]string{"the widget is on the shelf"}))

	_, hasStop := v.vocab["the"]
	assert.False(t, hasStop)
	_, hasWord := v.vocab["widget"]
	assert.True(t, hasWord)
}

func TestDeterministicAcrossFits(t *testing.T) {
	corpus := []string{
		"Our return policy is 30 days.",
		"Widget Pro ships worldwide.",
		"Support is available around the clock.",
	}
	a := New()
	b := New()
	require.NoError(t, a.Fit(corpus))
	require.NoError(t, b.Fit(corpus))

	va, err := a.Embed("return policy for widgets")
	require.NoError(t, err)
	vb, err := b.Embed("return policy for widgets")
	require.NoError(t, err)
	assert.Equal(t, va, vb)
}

func TestRefitReplacesVocabulary(t *testing.T) {
	v := New()
	require.NoError(t, v.Fit([]string{"alpha beta"}))
	require.NoError(t, v.Fit([]string{"gamma delta epsilon"}))

	vec, err := v.Embed("alpha beta")
	require.NoError(t, err)
	for _, x := range vec {
		assert.Zero(t, x)
	}
	assert.Len(t, vec, 3)
}

func TestShortTokensIgnored(t *testing.T) {
	v := New()
	require.NoError(t, v.Fit([]string{"a b widget"}))
	assert.Len(t, v.vocab, 1)
}
