package eval

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SohamAjmera/Agent-Pipeline/internal/config"
)

func TestRunQualityMissingSummary(t *testing.T) {
	dir := t.TempDir()
	_, err := RunQuality(dir, config.Default().Quality)
	require.Error(t, err)
	assert.Contains(t, err.Error(), filepath.Join(dir, "eval_summary.json"))
}

func TestRunQuality(t *testing.T) {
	resultsDir := filepath.Join(t.TempDir(), "results")
	ctrl := newController(t, resultsDir)

	records, err := Evaluate(context.Background(), ctrl, []string{
		"What is your return policy?",
		"How much is Widget Pro?",
	}, nil)
	require.NoError(t, err)
	_, err = WriteSummary(resultsDir, records)
	require.NoError(t, err)

	reportPath, err := RunQuality(resultsDir, config.Default().Quality)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report []QualityRecord
	require.NoError(t, json.Unmarshal(data, &report))
	require.Len(t, report, 2)

	// non-price query: tool correctly avoided
	assert.Equal(t, 1.0, report[0].ToolScore)
	assert.Contains(t, report[0].Notes, "Correctly avoided tool.")

	// price query: tool used appropriately, KB score floored at 0.2
	assert.Equal(t, 1.0, report[1].ToolScore)
	assert.GreaterOrEqual(t, report[1].KBScore, 0.2)
	assert.Contains(t, report[1].Notes, "Used tool appropriately.")

	for _, rec := range report {
		assert.GreaterOrEqual(t, rec.FinalScore, 0.0)
		assert.LessOrEqual(t, rec.FinalScore, 1.0)
		assert.NotEmpty(t, rec.TracePath)
	}
}

func TestScoreRecordWithoutTrace(t *testing.T) {
	rec := Record{Query: "What is your return policy?", Answer: "The return policy lasts 30 days."}
	scored, err := scoreRecord(rec, config.Default().Quality)
	require.NoError(t, err)

	// no trace: no retrieval grounding, tool correctly avoided
	assert.Zero(t, scored.KBScore)
	assert.Equal(t, 1.0, scored.ToolScore)
	assert.Greater(t, scored.Relevance, 0.0)
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"x", "y"}, []string{"x", "y"}, 1},
		{"disjoint", []string{"x"}, []string{"y"}, 0},
		{"half", []string{"x", "y"}, []string{"y", "z"}, 1.0 / 3.0},
		{"empty side", nil, []string{"x"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, jaccard(tt.a, tt.b), 1e-9)
		})
	}
}

func TestTokenizeFiltersStopwords(t *testing.T) {
	tokens := tokenize("What is the Return Policy for widgets?")
	assert.Equal(t, []string{"return", "policy", "widgets"}, tokens)
}

func TestPriceIntent(t *testing.T) {
	assert.True(t, priceIntent("How much is Widget Pro?"))
	assert.True(t, priceIntent("current PRICING please"))
	assert.False(t, priceIntent("What is your return policy?"))
}
