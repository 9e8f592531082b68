// Package llm defines the optional language-model capability consumed by the
// reasoner. The capability may be absent entirely; callers hold a nil
// ChatModel in that case and fall back to deterministic behavior.
package llm

import "context"

// ChatModel accepts a system/user prompt pair and returns the model's text.
type ChatModel interface {
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}
