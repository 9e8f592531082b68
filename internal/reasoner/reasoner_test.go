package reasoner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SohamAjmera/Agent-Pipeline/internal/domain"
)

// scriptedModel replays a fixed reply and records the prompts it was given.
type scriptedModel struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
}

func (m *scriptedModel) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	m.lastSystem, m.lastUser = system, user
	return m.reply, m.err
}

func chunk(id, text string) domain.RetrievedChunk {
	return domain.RetrievedChunk{DocID: id, Text: text, Score: 0.5}
}

func TestDecideHeuristic(t *testing.T) {
	r := New(nil, "v1")
	tests := []struct {
		name      string
		query     string
		decision  domain.Decision
		rationale string
	}{
		{"price keyword", "What is the price of Widget Pro?", domain.DecisionUseTool, "price-related"},
		{"cost keyword", "How much does shipping COST?", domain.DecisionUseTool, "price-related"},
		{"how much phrase", "How much is Widget Pro?", domain.DecisionUseTool, "price-related"},
		{"pricing keyword", "Tell me about your pricing tiers", domain.DecisionUseTool, "price-related"},
		{"plain question", "What is your return policy?", domain.DecisionKBOnly, "not price-related"},
		{"empty query", "", domain.DecisionKBOnly, "not price-related"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Decide(context.Background(), tt.query, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.decision, got.Decision)
			assert.Equal(t, tt.rationale, got.Rationale)
		})
	}
}

func TestDecideParsesModelJSON(t *testing.T) {
	model := &scriptedModel{reply: `{"decision":"use_tool","rationale":"asks for a price"}`}
	r := New(model, "v1")

	got, err := r.Decide(context.Background(), "q", []domain.RetrievedChunk{chunk("d1", "text")})
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionUseTool, got.Decision)
	assert.Equal(t, "asks for a price", got.Rationale)
	assert.Contains(t, model.lastUser, "[d1] text")
	assert.Contains(t, model.lastSystem, "CSV price lookup tool")
}

func TestDecideMalformedModelOutput(t *testing.T) {
	model := &scriptedModel{reply: "sure, I think the tool would help"}
	r := New(model, "v1")

	got, err := r.Decide(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionKBOnly, got.Decision)
	assert.Equal(t, "parse_error", got.Rationale)
}

func TestDecideUnknownDecisionCollapsesToKBOnly(t *testing.T) {
	model := &scriptedModel{reply: `{"decision":"maybe","rationale":"unsure"}`}
	r := New(model, "v1")

	got, err := r.Decide(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionKBOnly, got.Decision)
	assert.Equal(t, "unsure", got.Rationale)
}

func TestDecideModelTransportErrorIsFatal(t *testing.T) {
	model := &scriptedModel{err: errors.New("connection refused")}
	r := New(model, "v1")

	_, err := r.Decide(context.Background(), "q", nil)
	require.Error(t, err)
}

func TestDecideTruncatesChunksTo400(t *testing.T) {
	model := &scriptedModel{reply: `{"decision":"kb_only","rationale":""}`}
	r := New(model, "v1")
	long := strings.Repeat("x", 950)

	_, err := r.Decide(context.Background(), "q", []domain.RetrievedChunk{chunk("d1", long)})
	require.NoError(t, err)
	assert.Contains(t, model.lastUser, "[d1] "+strings.Repeat("x", 400))
	assert.NotContains(t, model.lastUser, strings.Repeat("x", 401))
}

func TestSynthesizeLocalWithToolResult(t *testing.T) {
	r := New(nil, "v1")
	tool := &domain.ToolResult{ProductName: "Widget Pro", SKU: "W-100", PriceUSD: 19.99}

	answer, err := r.Synthesize(context.Background(), "How much is Widget Pro?",
		[]domain.RetrievedChunk{chunk("d1", "Widget Pro is our flagship.")}, tool)
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro costs $19.99. Widget Pro is our flagship.", answer)
}

func TestSynthesizeLocalTruncatesContextTo300(t *testing.T) {
	r := New(nil, "v1")
	long := strings.Repeat("a", 500)

	answer, err := r.Synthesize(context.Background(), "q", []domain.RetrievedChunk{chunk("d1", long)}, nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 300), answer)
}

func TestSynthesizeLocalNoChunks(t *testing.T) {
	r := New(nil, "v1")

	answer, err := r.Synthesize(context.Background(), "q", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "I couldn't find sufficient information.", answer)
}

func TestSynthesizeRemotePromptShape(t *testing.T) {
	model := &scriptedModel{reply: "The answer."}
	r := New(model, "v1")

	answer, err := r.Synthesize(context.Background(), "q", []domain.RetrievedChunk{chunk("d1", "context")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "The answer.", answer)
	assert.Contains(t, model.lastUser, "(no tool call)")
	assert.Contains(t, model.lastSystem, "cite the product and price")
}

func TestSynthesizeRemoteIncludesToolJSON(t *testing.T) {
	model := &scriptedModel{reply: "ok"}
	r := New(model, "v1")
	tool := &domain.ToolResult{ProductName: "Widget Pro", SKU: "W-100", PriceUSD: 19.99, MatchScore: 90, LatencyMS: 1.5}

	_, err := r.Synthesize(context.Background(), "q", nil, tool)
	require.NoError(t, err)
	assert.Contains(t, model.lastUser, `"product_name":"Widget Pro"`)
	assert.NotContains(t, model.lastUser, "(no tool call)")
}

func TestSynthesizeRemoteEmptyAnswerAllowed(t *testing.T) {
	model := &scriptedModel{reply: ""}
	r := New(model, "v1")

	answer, err := r.Synthesize(context.Background(), "q", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "", answer)
}
