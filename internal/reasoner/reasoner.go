// Package reasoner decides whether a run needs the price tool and
// synthesizes the final answer. Both phases work with or without a language
// model: the no-model path is a deterministic implementation of the same
// contract, not an error state.
package reasoner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SohamAjmera/Agent-Pipeline/internal/domain"
	"github.com/SohamAjmera/Agent-Pipeline/internal/llm"
)

// Keyword heuristic used when no model is configured: any of these in the
// lowercased query means the price tool should run.
var priceKeywords = []string{"price", "cost", "how much", "pricing"}

const insufficientInfo = "I couldn't find sufficient information."

// Reasoner is the two-phase decision engine. A nil model selects the
// deterministic local strategy for both phases.
type Reasoner struct {
	model   llm.ChatModel
	prompts Prompts
}

func New(model llm.ChatModel, promptVersion string) *Reasoner {
	return &Reasoner{model: model, prompts: Prompts{Version: promptVersion}}
}

// Decide classifies the query as kb_only or use_tool. Malformed model output
// is recovered as kb_only with rationale "parse_error": the pipeline must
// always get some decision. Model transport failures are returned as errors.
func (r *Reasoner) Decide(ctx context.Context, query string, chunks []domain.RetrievedChunk) (domain.ToolDecision, error) {
	if r.model == nil {
		return heuristicDecision(query), nil
	}
	user := fmt.Sprintf("Query: %s\n\nKB snippets:\n%s", query, formatChunks(chunks, 400))
	raw, err := r.model.Complete(ctx, r.prompts.ToolDecision(), user, 0.1)
	if err != nil {
		return domain.ToolDecision{}, fmt.Errorf("tool decision: %w", err)
	}
	return parseDecision(raw), nil
}

// Synthesize produces the final answer from the query, retrieved context and
// optional tool result. The model's raw text is returned as-is; without a
// model a fixed template over the first chunk (and tool result) is used.
func (r *Reasoner) Synthesize(ctx context.Context, query string, chunks []domain.RetrievedChunk, tool *domain.ToolResult) (string, error) {
	if r.model == nil {
		return localAnswer(chunks, tool), nil
	}
	toolStr := "(no tool call)"
	if tool != nil {
		data, err := json.Marshal(tool)
		if err != nil {
			return "", fmt.Errorf("encode tool result: %w", err)
		}
		toolStr = string(data)
	}
	user := fmt.Sprintf("Query: %s\n\nRetrieved context:\n%s\n\nTool result: %s\n",
		query, formatChunks(chunks, 500), toolStr)
	answer, err := r.model.Complete(ctx, r.prompts.FinalAnswer(), user, 0.2)
	if err != nil {
		return "", fmt.Errorf("synthesize answer: %w", err)
	}
	return answer, nil
}

func heuristicDecision(query string) domain.ToolDecision {
	q := strings.ToLower(query)
	for _, kw := range priceKeywords {
		if strings.Contains(q, kw) {
			return domain.ToolDecision{Decision: domain.DecisionUseTool, Rationale: "price-related"}
		}
	}
	return domain.ToolDecision{Decision: domain.DecisionKBOnly, Rationale: "not price-related"}
}

// parseDecision treats the model's reply as an untrusted payload. Anything
// that does not decode to a use_tool decision collapses to kb_only.
func parseDecision(raw string) domain.ToolDecision {
	var out struct {
		Decision  string `json:"decision"`
		Rationale string `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return domain.ToolDecision{Decision: domain.DecisionKBOnly, Rationale: "parse_error"}
	}
	decision := domain.DecisionKBOnly
	if out.Decision == string(domain.DecisionUseTool) {
		decision = domain.DecisionUseTool
	}
	return domain.ToolDecision{Decision: decision, Rationale: out.Rationale}
}

func localAnswer(chunks []domain.RetrievedChunk, tool *domain.ToolResult) string {
	base := ""
	if len(chunks) > 0 {
		base = truncate(chunks[0].Text, 300)
	}
	if tool != nil {
		return fmt.Sprintf("%s costs $%v. %s", tool.ProductName, tool.PriceUSD, base)
	}
	if base == "" {
		return insufficientInfo
	}
	return base
}

func formatChunks(chunks []domain.RetrievedChunk, limit int) string {
	lines := make([]string, len(chunks))
	for i, ch := range chunks {
		lines[i] = fmt.Sprintf("[%s] %s", ch.DocID, truncate(ch.Text, limit))
	}
	return strings.Join(lines, "\n\n")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
