package recommend

import (
	"testing"
)

func TestDecodeUserContext(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want UserContext
	}{
		{
			"plain json",
			`{"purpose":"living room","budget_usd":1500,"product_preference":"oled tv"}`,
			UserContext{Purpose: "living room", BudgetUSD: 1500, ProductPreference: "oled tv"},
		},
		{
			"fenced json",
			"```json\n{\"purpose\":\"bedroom\",\"budget_usd\":800,\"product_preference\":\"tv\"}\n```",
			UserContext{Purpose: "bedroom", BudgetUSD: 800, ProductPreference: "tv"},
		},
		{
			"negative budget clamped",
			`{"purpose":"office","budget_usd":-100,"product_preference":"monitor"}`,
			UserContext{Purpose: "office", BudgetUSD: 0, ProductPreference: "monitor"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeUserContext(tt.raw)
			if err != nil {
				t.Fatalf("decodeUserContext: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeUserContextErrors(t *testing.T) {
	for _, raw := range []string{"", "```json\n```", "not json at all"} {
		if _, err := decodeUserContext(raw); err == nil {
			t.Errorf("decodeUserContext(%q): expected error", raw)
		}
	}
}

func TestHeuristicExtractContext(t *testing.T) {
	tests := []struct {
		name string
		text string
		want UserContext
	}{
		{
			"dollar budget",
			"I want an OLED TV for my living room, budget around $1,500",
			UserContext{Purpose: "living room", BudgetUSD: 1500, ProductPreference: "oled tv"},
		},
		{
			"word budget",
			"looking for a monitor for my home office under 600 dollars",
			UserContext{Purpose: "home office", BudgetUSD: 600, ProductPreference: "monitor"},
		},
		{
			"size is not a budget",
			"a 65 inch television for the bedroom",
			UserContext{Purpose: "bedroom", BudgetUSD: 0, ProductPreference: "television"},
		},
		{
			"nothing recognized",
			"hello there",
			UserContext{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := heuristicExtractContext(tt.text)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFilterFromContext(t *testing.T) {
	f := filterFromContext(UserContext{Purpose: "living room", BudgetUSD: 1500, ProductPreference: "oled tv"})
	if f.ProductType != "tv" {
		t.Errorf("ProductType = %q, want tv", f.ProductType)
	}
	if f.MaxPriceUSD != 1500 {
		t.Errorf("MaxPriceUSD = %v, want 1500", f.MaxPriceUSD)
	}
	if f.Keyword != "" {
		t.Errorf("Keyword = %q, purpose must stay out of the filter", f.Keyword)
	}

	f = filterFromContext(UserContext{ProductPreference: "standing lamp"})
	if f.ProductType != "" {
		t.Errorf("ProductType = %q, want empty for unknown preference", f.ProductType)
	}
	if f.Keyword != "standing lamp" {
		t.Errorf("Keyword = %q, want standing lamp", f.Keyword)
	}

	f = filterFromContext(UserContext{})
	if !f.IsZero() {
		t.Errorf("empty context must produce a zero filter, got %+v", f)
	}
}
