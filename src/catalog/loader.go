package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// catalogRecord mirrors the shape of products.json: nested objects for
// specs, scores and prices that become JSON text columns on insert.
type catalogRecord struct {
	ProductID    string             `json:"product_id"`
	Brand        string             `json:"brand"`
	ProductName  string             `json:"product_name"`
	ProductType  string             `json:"product_type"`
	Specs        map[string]any     `json:"specs"`
	RtingsScores map[string]any     `json:"rtings_scores"`
	PriceUSD     map[string]float64 `json:"price_usd"`
	Summary      string             `json:"summary"`
}

func (r catalogRecord) toProduct() (Product, error) {
	specs, err := marshalColumn(r.Specs)
	if err != nil {
		return Product{}, fmt.Errorf("encode specs for %s: %w", r.ProductID, err)
	}
	scores, err := marshalColumn(r.RtingsScores)
	if err != nil {
		return Product{}, fmt.Errorf("encode rtings_scores for %s: %w", r.ProductID, err)
	}
	var prices string
	if r.PriceUSD != nil {
		raw, err := json.Marshal(r.PriceUSD)
		if err != nil {
			return Product{}, fmt.Errorf("encode price_usd for %s: %w", r.ProductID, err)
		}
		prices = string(raw)
	}
	return Product{
		ProductID:    r.ProductID,
		Brand:        r.Brand,
		ProductName:  r.ProductName,
		ProductType:  r.ProductType,
		Specs:        specs,
		RtingsScores: scores,
		PriceUSD:     prices,
		Summary:      r.Summary,
	}, nil
}

func marshalColumn(m map[string]any) (string, error) {
	if m == nil {
		return "", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ParseJSON decodes a products.json payload into catalog rows.
func ParseJSON(data []byte) ([]Product, error) {
	var records []catalogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode product catalog json: %w", err)
	}
	products := make([]Product, 0, len(records))
	for _, r := range records {
		p, err := r.toProduct()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// ParseCSV decodes a flat CSV export where the specs, rtings_scores and
// price_usd columns already carry JSON text.
func ParseCSV(data []byte) ([]Product, error) {
	var products []Product
	if err := gocsv.UnmarshalBytes(data, &products); err != nil {
		return nil, fmt.Errorf("decode product catalog csv: %w", err)
	}
	return products, nil
}

// ParseFile decodes a catalog file by extension (.json or .csv).
func ParseFile(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(data)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported catalog file %q (want .json or .csv)", path)
	}
}

// Load reads a catalog file and inserts one row per record into the store.
// A ProductCache, when non-nil, receives a write-through copy of each row.
func Load(ctx context.Context, store Store, cache *ProductCache, path string) (int, error) {
	jobID := uuid.New().String()
	products, err := ParseFile(path)
	if err != nil {
		return 0, err
	}
	if len(products) == 0 {
		log.WithField("job", jobID).Warn("catalog: no data to insert")
		return 0, nil
	}
	if err := store.Insert(ctx, products); err != nil {
		return 0, err
	}
	if cache != nil {
		for _, p := range products {
			if err := cache.Put(ctx, p); err != nil {
				log.WithFields(logrus.Fields{"job": jobID, "product": p.ProductID}).Warnf("catalog: cache write failed: %v", err)
			}
		}
	}
	log.WithFields(logrus.Fields{"job": jobID, "rows": len(products), "file": path}).Info("catalog: load complete")
	return len(products), nil
}
