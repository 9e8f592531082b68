package eval

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SohamAjmera/Agent-Pipeline/internal/agent"
	"github.com/SohamAjmera/Agent-Pipeline/internal/domain"
	"github.com/SohamAjmera/Agent-Pipeline/internal/embedding/tfidf"
	"github.com/SohamAjmera/Agent-Pipeline/internal/index"
	"github.com/SohamAjmera/Agent-Pipeline/internal/pricetool"
	"github.com/SohamAjmera/Agent-Pipeline/internal/reasoner"
	"github.com/SohamAjmera/Agent-Pipeline/internal/retriever"
)

func newController(t *testing.T, resultsDir string) *agent.Controller {
	t.Helper()
	catalogPath := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(catalogPath,
		[]byte("product_name,sku,price_usd\nWidget Pro,W-100,19.99\n"), 0o644))
	tool, err := pricetool.NewFromCSV(catalogPath)
	require.NoError(t, err)

	ret := retriever.New(index.New(tfidf.New()))
	ctrl := agent.New(ret, reasoner.New(nil, "v1"), tool, agent.Options{
		TopK:       4,
		ResultsDir: resultsDir,
	})
	require.NoError(t, ctrl.Reindex([]domain.Document{
		{ID: "returns", Text: "Our return policy is 30 days."},
		{ID: "widget", Text: "Widget Pro is our flagship widget."},
	}))
	return ctrl
}

func TestLoadQueries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.json")
	require.NoError(t, os.WriteFile(path, []byte(`["a", "b"]`), 0o644))

	queries, err := LoadQueries(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, queries)
}

func TestLoadQueriesMissingFile(t *testing.T) {
	_, err := LoadQueries(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.json")
}

func TestEvaluateAndWriteSummary(t *testing.T) {
	resultsDir := filepath.Join(t.TempDir(), "results")
	ctrl := newController(t, resultsDir)

	records, err := Evaluate(context.Background(), ctrl, []string{
		"What is your return policy?",
		"How much is Widget Pro?",
	}, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// non-price query never touched the tool
	assert.Nil(t, records[0].ToolLatencyMS)
	require.NotNil(t, records[0].TracePath)
	assert.FileExists(t, *records[0].TracePath)

	// price query records tool latency
	require.NotNil(t, records[1].ToolLatencyMS)
	assert.GreaterOrEqual(t, *records[1].ToolLatencyMS, 0.0)
	assert.Contains(t, records[1].Answer, "Widget Pro costs $19.99.")
	assert.Greater(t, records[1].TotalLatencyMS, 0.0)

	summaryPath, err := WriteSummary(resultsDir, records)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resultsDir, "eval_summary.json"), summaryPath)

	data, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	var decoded []Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 2)
}
