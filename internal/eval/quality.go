package eval

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/SohamAjmera/Agent-Pipeline/internal/config"
	"github.com/SohamAjmera/Agent-Pipeline/internal/trace"
)

// QualityRecord scores one evaluated query against its saved trace.
type QualityRecord struct {
	Query      string  `json:"query"`
	Relevance  float64 `json:"relevance"`
	ToolScore  float64 `json:"tool_score"`
	KBScore    float64 `json:"kb_score"`
	FinalScore float64 `json:"final_score"`
	Notes      string  `json:"notes"`
	TracePath  string  `json:"trace_path"`
}

// qualityError is the per-record failure shape; a bad record does not abort
// the report.
type qualityError struct {
	Query string `json:"query"`
	Error string `json:"error"`
}

var (
	alnumPattern = regexp.MustCompile(`[a-zA-Z0-9]+`)

	qualityStopwords = map[string]struct{}{
		"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "is": {}, "are": {},
		"to": {}, "of": {}, "in": {}, "on": {}, "for": {}, "with": {}, "do": {},
		"does": {}, "how": {}, "what": {}, "when": {}, "which": {}, "that": {},
		"it": {}, "you": {}, "we": {}, "i": {}, "this": {}, "there": {},
		"be": {}, "as": {},
	}

	priceKeywords = []string{"price", "cost", "how much", "pricing"}
)

// RunQuality reads the eval summary under resultsDir, scores every record
// with the given policy weights, and writes eval_quality.json. A missing
// summary is fatal and names the path.
func RunQuality(resultsDir string, weights config.QualityWeights) (string, error) {
	summaryPath := filepath.Join(resultsDir, "eval_summary.json")
	data, err := os.ReadFile(summaryPath)
	if err != nil {
		return "", fmt.Errorf("missing eval summary %s: %w", summaryPath, err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return "", fmt.Errorf("parse eval summary %s: %w", summaryPath, err)
	}

	out := make([]any, 0, len(records))
	for _, rec := range records {
		scored, err := scoreRecord(rec, weights)
		if err != nil {
			out = append(out, qualityError{Query: rec.Query, Error: err.Error()})
			continue
		}
		out = append(out, scored)
	}

	outPath := filepath.Join(resultsDir, "eval_quality.json")
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return "", fmt.Errorf("write quality report %s: %w", outPath, err)
	}
	return outPath, nil
}

func scoreRecord(rec Record, weights config.QualityWeights) (QualityRecord, error) {
	tracePath := ""
	if rec.TracePath != nil {
		tracePath = *rec.TracePath
	}
	var tr *trace.Trace
	if data, err := os.ReadFile(tracePath); err == nil {
		tr, err = trace.Parse(data)
		if err != nil {
			return QualityRecord{}, err
		}
	} else {
		tr = &trace.Trace{}
	}

	relevance := jaccard(tokenize(rec.Query), tokenize(rec.Answer))

	shouldUseTool := priceIntent(rec.Query)
	didUseTool := usedTool(tr)
	var toolScore float64
	var toolNote string
	switch {
	case shouldUseTool && didUseTool:
		toolScore, toolNote = 1.0, "Used tool appropriately."
	case shouldUseTool && !didUseTool:
		toolScore, toolNote = 0.0, "Should have used tool but did not."
	case !shouldUseTool && didUseTool:
		toolScore, toolNote = 0.5, "Used tool unnecessarily."
	default:
		toolScore, toolNote = 1.0, "Correctly avoided tool."
	}

	retrieved := retrievedText(tr)
	kbOverlap := 0.0
	if retrieved != "" {
		kbOverlap = jaccard(tokenize(rec.Answer), tokenize(retrieved))
	}
	kbScore := kbOverlap
	if shouldUseTool {
		// tolerate weaker KB grounding when the price tool answered
		kbScore = math.Max(0.2, kbOverlap)
	}

	final := weights.Relevance*relevance + weights.Tool*toolScore + weights.KB*kbScore

	var notes []string
	if relevance < 0.2 {
		notes = append(notes, "Low query-answer overlap")
	}
	if kbOverlap < 0.2 && !shouldUseTool {
		notes = append(notes, "Weak KB grounding for non-price query")
	}
	notes = append(notes, toolNote)

	return QualityRecord{
		Query:      rec.Query,
		Relevance:  round3(relevance),
		ToolScore:  round3(toolScore),
		KBScore:    round3(kbScore),
		FinalScore: round3(final),
		Notes:      strings.Join(notes, "; "),
		TracePath:  tracePath,
	}, nil
}

func tokenize(text string) []string {
	words := alnumPattern.FindAllString(strings.ToLower(text), -1)
	out := words[:0]
	for _, w := range words {
		if _, stop := qualityStopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

func jaccard(a, b []string) float64 {
	aset := toSet(a)
	bset := toSet(b)
	if len(aset) == 0 || len(bset) == 0 {
		return 0
	}
	inter := 0
	for t := range aset {
		if _, ok := bset[t]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(aset)+len(bset)-inter)
}

func toSet(tokens []string) map[string]struct{} {
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func priceIntent(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range priceKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// usedTool reports whether the trace has a successful price-tool step (a
// recorded "no result" does not count).
func usedTool(tr *trace.Trace) bool {
	for _, step := range tr.Steps {
		if step.Kind != trace.KindToolCall {
			continue
		}
		if name, ok := step.Detail["product_name"].(string); ok && name != "" {
			return true
		}
	}
	return false
}

func retrievedText(tr *trace.Trace) string {
	for _, step := range tr.Steps {
		if step.Kind != trace.KindRetrieval {
			continue
		}
		results, ok := step.Detail["results"].([]any)
		if !ok {
			return ""
		}
		var snippets []string
		for _, r := range results {
			if m, ok := r.(map[string]any); ok {
				if text, ok := m["text"].(string); ok {
					snippets = append(snippets, text)
				}
			}
		}
		return strings.Join(snippets, "\n\n")
	}
	return ""
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
