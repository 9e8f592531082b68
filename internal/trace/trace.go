// Package trace records every step of one pipeline run as an append-only,
// timestamped log with a stable JSON form. A saved trace can be parsed back
// and re-serialized byte-identically, which is what the downstream quality
// scoring relies on.
package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// Step kinds recorded by the controller, in their required relative order.
const (
	KindRetrieval    = "retrieval"
	KindToolDecision = "reasoning_tool_decision"
	KindToolCall     = "tool_call_csv_price"
	KindFinalAnswer  = "final_answer"
)

// Step is one recorded pipeline event.
type Step struct {
	Kind   string         `json:"kind"`
	Detail map[string]any `json:"detail"`
	At     string         `json:"at"`
}

// Trace is the ordered record of one run. Steps are appended during the run
// and the trace is immutable once Finish has been called.
type Trace struct {
	Query      string  `json:"query"`
	StartedAt  string  `json:"started_at"`
	FinishedAt *string `json:"finished_at"`
	Steps      []Step  `json:"steps"`
}

func New(query string) *Trace {
	return &Trace{Query: query, StartedAt: nowUTC(), Steps: []Step{}}
}

// Add appends a step stamped with the current time. The detail map is
// copied so later caller-side mutation cannot rewrite history.
func (t *Trace) Add(kind string, detail map[string]any) {
	copied := make(map[string]any, len(detail))
	for k, v := range detail {
		copied[k] = v
	}
	t.Steps = append(t.Steps, Step{Kind: kind, Detail: copied, At: nowUTC()})
}

// Finish marks the run complete. Calling it again does not move the
// finish time.
func (t *Trace) Finish() {
	if t.FinishedAt == nil {
		ts := nowUTC()
		t.FinishedAt = &ts
	}
}

// Canonical renders the trace as indented JSON with a stable field order.
// It is a pure function of the recorded state.
func (t *Trace) Canonical() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// Parse reconstructs a trace from its canonical form. Parse then Canonical
// round-trips byte-identically.
func Parse(data []byte) (*Trace, error) {
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse trace: %w", err)
	}
	return &t, nil
}

// Save writes the canonical form to path, creating parent directories.
func (t *Trace) Save(path string) error {
	data, err := t.Canonical()
	if err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create trace dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write trace %s: %w", path, err)
	}
	return nil
}

// SafeName derives a filesystem-safe token from a query: alphanumerics,
// spaces, hyphens and underscores survive, capped at 50 characters, spaces
// become underscores. An empty result falls back to "query".
func SafeName(query string) string {
	var b strings.Builder
	for _, r := range query {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	runes := []rune(b.String())
	if len(runes) > 50 {
		runes = runes[:50]
	}
	safe := strings.ReplaceAll(strings.TrimSpace(string(runes)), " ", "_")
	if safe == "" {
		return "query"
	}
	return safe
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
