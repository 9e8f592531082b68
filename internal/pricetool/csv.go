// Package pricetool is the external price-lookup collaborator: a fuzzy
// best-match over a CSV product catalog.
package pricetool

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/SohamAjmera/Agent-Pipeline/internal/domain"
)

// Matches scoring below this are reported as "no result" rather than a
// wrong product.
const minMatchScore = 40.0

type product struct {
	name  string
	sku   string
	price float64
}

// Tool looks up product prices in an in-memory copy of a CSV catalog with
// columns product_name, sku and price_usd (located by header, any order).
type Tool struct {
	products []product
}

func NewFromCSV(path string) (*Tool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price catalog %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse price catalog %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("price catalog %s is empty", path)
	}

	cols := map[string]int{}
	for i, h := range records[0] {
		cols[h] = i
	}
	for _, required := range []string{"product_name", "sku", "price_usd"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("price catalog %s: missing column %q", path, required)
		}
	}

	products := make([]product, 0, len(records)-1)
	for line, rec := range records[1:] {
		price, err := strconv.ParseFloat(rec[cols["price_usd"]], 64)
		if err != nil {
			return nil, fmt.Errorf("price catalog %s line %d: bad price_usd: %w", path, line+2, err)
		}
		products = append(products, product{
			name:  rec[cols["product_name"]],
			sku:   rec[cols["sku"]],
			price: price,
		})
	}
	return &Tool{products: products}, nil
}

// Lookup fuzzy-matches query against every product name and returns the best
// row with its score and measured latency. A best match below the internal
// threshold returns (nil, nil).
func (t *Tool) Lookup(query string) (*domain.ToolResult, error) {
	start := time.Now()
	best := -1
	bestScore := 0.0
	for i, p := range t.products {
		if score := matchScore(query, p.name); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 || bestScore < minMatchScore {
		return nil, nil
	}
	p := t.products[best]
	return &domain.ToolResult{
		ProductName: p.name,
		SKU:         p.sku,
		PriceUSD:    p.price,
		MatchScore:  bestScore,
		LatencyMS:   float64(time.Since(start).Microseconds()) / 1000,
	}, nil
}
