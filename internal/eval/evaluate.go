// Package eval runs the pipeline over a batch of queries and scores the
// saved traces. It is an offline consumer of the core: one run after
// another against a shared index, no concurrency.
package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/SohamAjmera/Agent-Pipeline/internal/agent"
	"github.com/SohamAjmera/Agent-Pipeline/internal/trace"
)

// Record is one row of the evaluation summary.
type Record struct {
	Query          string   `json:"query"`
	Answer         string   `json:"answer"`
	TotalLatencyMS float64  `json:"total_latency_ms"`
	ToolLatencyMS  *float64 `json:"tool_latency_ms"`
	TracePath      *string  `json:"trace_path"`
}

// LoadQueries reads a JSON array of query strings.
func LoadQueries(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read queries %s: %w", path, err)
	}
	var queries []string
	if err := json.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("parse queries %s: %w", path, err)
	}
	return queries, nil
}

// Evaluate runs every query sequentially with trace persistence and collects
// per-run latency. A failing run aborts the batch.
func Evaluate(ctx context.Context, ctrl *agent.Controller, queries []string, log *zap.Logger) ([]Record, error) {
	if log == nil {
		log = zap.NewNop()
	}
	records := make([]Record, 0, len(queries))
	for _, q := range queries {
		start := time.Now()
		answer, tr, path, err := ctrl.Run(ctx, q, true)
		if err != nil {
			return nil, fmt.Errorf("eval query %q: %w", q, err)
		}
		rec := Record{
			Query:          q,
			Answer:         answer,
			TotalLatencyMS: float64(time.Since(start).Microseconds()) / 1000,
			ToolLatencyMS:  toolLatency(tr),
		}
		if path != "" {
			rec.TracePath = &path
		}
		log.Info("evaluated query",
			zap.String("query", q),
			zap.Float64("total_ms", rec.TotalLatencyMS))
		records = append(records, rec)
	}
	return records, nil
}

// WriteSummary writes the records as an indented JSON array under dir and
// returns the summary path.
func WriteSummary(dir string, records []Record) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}
	path := filepath.Join(dir, "eval_summary.json")
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write summary %s: %w", path, err)
	}
	return path, nil
}

// toolLatency digs the tool call latency out of the trace, nil when the tool
// never ran.
func toolLatency(tr *trace.Trace) *float64 {
	for _, step := range tr.Steps {
		if step.Kind != trace.KindToolCall {
			continue
		}
		if v, ok := step.Detail["latency_ms"].(float64); ok {
			return &v
		}
	}
	return nil
}
