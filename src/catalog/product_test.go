package catalog

import (
	"testing"
)

func sampleProduct() Product {
	return Product{
		ProductID:    "tv-lg-c3-55",
		Brand:        "LG",
		ProductName:  "LG C3 OLED",
		ProductType:  "tv",
		Specs:        `{"type":"OLED","resolution":"4k","refresh_rate":"120 Hz"}`,
		RtingsScores: `{"mixed_usage":8.9,"movies":9.2}`,
		PriceUSD:     `{"55":1300,"65":1700,"77":2600}`,
		Summary:      "Excellent OLED with deep blacks, great for dark living room setups.",
	}
}

func TestMinPrice(t *testing.T) {
	p := sampleProduct()
	min, ok := p.MinPrice()
	if !ok {
		t.Fatal("expected a price")
	}
	if min != 1300 {
		t.Errorf("MinPrice = %v, want 1300", min)
	}

	tests := []struct {
		name     string
		priceUSD string
	}{
		{"empty", ""},
		{"malformed", "not json"},
		{"no entries", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleProduct()
			p.PriceUSD = tt.priceUSD
			if _, ok := p.MinPrice(); ok {
				t.Errorf("MinPrice ok = true for %q, want false", tt.priceUSD)
			}
		})
	}
}

func TestFilterMatches(t *testing.T) {
	p := sampleProduct()

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"zero filter matches", Filter{}, true},
		{"type match", Filter{ProductType: "tv"}, true},
		{"type case-insensitive", Filter{ProductType: "TV"}, true},
		{"type mismatch", Filter{ProductType: "monitor"}, false},
		{"brand match", Filter{Brand: "lg"}, true},
		{"brand mismatch", Filter{Brand: "Samsung"}, false},
		{"keyword in name", Filter{Keyword: "oled"}, true},
		{"keyword in summary", Filter{Keyword: "living room"}, true},
		{"keyword in specs", Filter{Keyword: "120 Hz"}, true},
		{"keyword mismatch", Filter{Keyword: "projector"}, false},
		{"price under ceiling", Filter{MaxPriceUSD: 1500}, true},
		{"price at ceiling", Filter{MaxPriceUSD: 1300}, true},
		{"price over ceiling", Filter{MaxPriceUSD: 1000}, false},
		{"all predicates", Filter{ProductType: "tv", Brand: "LG", Keyword: "oled", MaxPriceUSD: 2000}, true},
		{"one failing predicate rejects", Filter{ProductType: "tv", MaxPriceUSD: 100}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(p); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterMatchesNoPrice(t *testing.T) {
	p := sampleProduct()
	p.PriceUSD = ""
	if (Filter{MaxPriceUSD: 5000}).Matches(p) {
		t.Error("product without price data must not satisfy a price ceiling")
	}
	if !(Filter{ProductType: "tv"}).Matches(p) {
		t.Error("missing price data must not affect other predicates")
	}
}
