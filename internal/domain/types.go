package domain

// Document is a single knowledge-base passage loaded from disk.
type Document struct {
	ID   string
	Text string
}

// RetrievedChunk is a retrieved passage with its similarity score.
type RetrievedChunk struct {
	DocID string  `json:"doc_id"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Decision is the binary outcome of the tool-use decision phase.
type Decision string

const (
	DecisionKBOnly  Decision = "kb_only"
	DecisionUseTool Decision = "use_tool"
)

// ToolDecision pairs a decision with the reasoner's rationale for it.
type ToolDecision struct {
	Decision  Decision `json:"decision"`
	Rationale string   `json:"rationale"`
}

// ToolResult is the outcome of one price-catalog lookup.
type ToolResult struct {
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku"`
	PriceUSD    float64 `json:"price_usd"`
	MatchScore  float64 `json:"match_score"`
	LatencyMS   float64 `json:"latency_ms"`
}

// Retriever turns documents into an index and queries into ranked chunks.
type Retriever interface {
	Index(docs []Document) error
	Search(query string, k int) ([]RetrievedChunk, error)
}

// PriceLookup maps a free-text query to a best-matching catalog row.
// A nil result with a nil error means no match cleared the adapter's
// internal threshold.
type PriceLookup interface {
	Lookup(query string) (*ToolResult, error)
}
