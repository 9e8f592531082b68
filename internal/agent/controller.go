// Package agent orchestrates one pipeline run: retrieve, decide, optionally
// call the price tool, synthesize, and record everything in a trace. The
// controller never retries a stage; the first failure aborts the run with an
// error naming the stage.
package agent

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/SohamAjmera/Agent-Pipeline/internal/domain"
	"github.com/SohamAjmera/Agent-Pipeline/internal/reasoner"
	"github.com/SohamAjmera/Agent-Pipeline/internal/trace"
)

// Options tune a controller.
type Options struct {
	TopK       int
	ResultsDir string
	Logger     *zap.Logger
}

// Controller runs the retrieval-and-decision pipeline.
type Controller struct {
	retriever  domain.Retriever
	reasoner   *reasoner.Reasoner
	tool       domain.PriceLookup
	topK       int
	resultsDir string
	log        *zap.Logger
}

func New(r domain.Retriever, rs *reasoner.Reasoner, tool domain.PriceLookup, opts Options) *Controller {
	if opts.TopK <= 0 {
		opts.TopK = 4
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		retriever:  r,
		reasoner:   rs,
		tool:       tool,
		topK:       opts.TopK,
		resultsDir: opts.ResultsDir,
		log:        opts.Logger,
	}
}

// Reindex rebuilds the retrieval index over docs. Used at startup and by the
// KB watcher.
func (c *Controller) Reindex(docs []domain.Document) error {
	c.log.Info("indexing knowledge base", zap.Int("documents", len(docs)))
	return c.retriever.Index(docs)
}

// Run executes one pipeline run for query. When persist is true the finished
// trace is written under the results directory and its path returned.
func (c *Controller) Run(ctx context.Context, query string, persist bool) (string, *trace.Trace, string, error) {
	tr := trace.New(query)

	chunks, err := c.retriever.Search(query, c.topK)
	if err != nil {
		return "", tr, "", fmt.Errorf("retrieval: %w", err)
	}
	results := make([]map[string]any, len(chunks))
	for i, ch := range chunks {
		results[i] = map[string]any{"doc_id": ch.DocID, "text": ch.Text, "score": ch.Score}
	}
	tr.Add(trace.KindRetrieval, map[string]any{"results": results})
	c.log.Debug("retrieved context", zap.String("query", query), zap.Int("chunks", len(chunks)))

	decision, err := c.reasoner.Decide(ctx, query, chunks)
	if err != nil {
		return "", tr, "", fmt.Errorf("tool decision: %w", err)
	}
	tr.Add(trace.KindToolDecision, map[string]any{
		"decision":  string(decision.Decision),
		"rationale": decision.Rationale,
	})
	c.log.Debug("tool decision",
		zap.String("decision", string(decision.Decision)),
		zap.String("rationale", decision.Rationale))

	var toolResult *domain.ToolResult
	if decision.Decision == domain.DecisionUseTool {
		toolResult, err = c.tool.Lookup(query)
		if err != nil {
			return "", tr, "", fmt.Errorf("price tool: %w", err)
		}
		if toolResult != nil {
			tr.Add(trace.KindToolCall, map[string]any{
				"product_name": toolResult.ProductName,
				"sku":          toolResult.SKU,
				"price_usd":    toolResult.PriceUSD,
				"match_score":  toolResult.MatchScore,
				"latency_ms":   toolResult.LatencyMS,
			})
			c.log.Debug("price tool hit",
				zap.String("product", toolResult.ProductName),
				zap.Float64("price_usd", toolResult.PriceUSD))
		} else {
			tr.Add(trace.KindToolCall, map[string]any{"result": nil})
			c.log.Debug("price tool found no match")
		}
	}

	answer, err := c.reasoner.Synthesize(ctx, query, chunks, toolResult)
	if err != nil {
		return "", tr, "", fmt.Errorf("synthesis: %w", err)
	}
	tr.Add(trace.KindFinalAnswer, map[string]any{"text": answer})
	tr.Finish()

	path := ""
	if persist {
		path = filepath.Join(c.resultsDir, "trace_"+trace.SafeName(query)+".json")
		if err := tr.Save(path); err != nil {
			return "", tr, "", fmt.Errorf("persist trace: %w", err)
		}
		c.log.Info("trace saved", zap.String("path", path))
	}
	return answer, tr, path, nil
}
