// Package catalog holds the product catalog model and its table-store backends.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = &logrus.Logger{
	Out:       os.Stderr,
	Formatter: &logrus.TextFormatter{FullTimestamp: true},
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.InfoLevel,
}

// ErrProductNotFound is returned by Store.Get for an unknown product id.
var ErrProductNotFound = errors.New("product not found")

// Product is a single catalog row. The specs, scores and price columns carry
// JSON text so the table schema stays eight string columns end to end.
type Product struct {
	ProductID    string `json:"product_id" bigquery:"product_id" csv:"product_id"`
	Brand        string `json:"brand" bigquery:"brand" csv:"brand"`
	ProductName  string `json:"product_name" bigquery:"product_name" csv:"product_name"`
	ProductType  string `json:"product_type" bigquery:"product_type" csv:"product_type"`
	Specs        string `json:"specs" bigquery:"specs" csv:"specs"`
	RtingsScores string `json:"rtings_scores" bigquery:"rtings_scores" csv:"rtings_scores"`
	PriceUSD     string `json:"price_usd" bigquery:"price_usd" csv:"price_usd"`
	Summary      string `json:"summary" bigquery:"summary" csv:"summary"`
}

// MinPrice returns the cheapest size-variant price from the price_usd JSON
// column. The second return is false when the column holds no usable price.
func (p Product) MinPrice() (float64, bool) {
	if strings.TrimSpace(p.PriceUSD) == "" {
		return 0, false
	}
	var prices map[string]float64
	if err := json.Unmarshal([]byte(p.PriceUSD), &prices); err != nil || len(prices) == 0 {
		return 0, false
	}
	first := true
	var min float64
	for _, v := range prices {
		if first || v < min {
			min = v
			first = false
		}
	}
	return min, true
}

// Filter describes the predicates a tool query may set. Zero-valued fields
// are ignored; a product matches only when every set predicate holds.
type Filter struct {
	ProductType string  `json:"product_type,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	Keyword     string  `json:"keyword,omitempty"`
	MaxPriceUSD float64 `json:"max_price_usd,omitempty"`
}

// IsZero reports whether no predicate is set.
func (f Filter) IsZero() bool {
	return f.ProductType == "" && f.Brand == "" && f.Keyword == "" && f.MaxPriceUSD <= 0
}

// Matches applies the full filter predicate to a product. The store backends
// narrow candidate rows in SQL but this is the authoritative check, so every
// backend returns identical result sets.
func (f Filter) Matches(p Product) bool {
	if f.ProductType != "" && !containsFold(p.ProductType, f.ProductType) {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(strings.TrimSpace(p.Brand), strings.TrimSpace(f.Brand)) {
		return false
	}
	if f.Keyword != "" {
		if !containsFold(p.ProductName, f.Keyword) && !containsFold(p.Summary, f.Keyword) && !containsFold(p.Specs, f.Keyword) {
			return false
		}
	}
	if f.MaxPriceUSD > 0 {
		min, ok := p.MinPrice()
		if !ok || min > f.MaxPriceUSD {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func filterMatches(products []Product, f Filter) []Product {
	matched := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Store is the table-store abstraction behind the loader and the tool layer.
// Products are written once by the loader and read-only afterwards.
type Store interface {
	// Insert writes one row per product.
	Insert(ctx context.Context, products []Product) error
	// List returns every catalog row.
	List(ctx context.Context) ([]Product, error)
	// Get returns the row with the given product id or ErrProductNotFound.
	Get(ctx context.Context, productID string) (Product, error)
	// Match returns the rows satisfying every set predicate of the filter.
	// The result is empty, never nil, when nothing matches.
	Match(ctx context.Context, f Filter) ([]Product, error)
	// Close releases the backend client.
	Close() error
}
