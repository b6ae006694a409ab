package recommend

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/chlehdwls94/agent-test/src/catalog"
)

// UserContext is the structured output of the extract_context tool.
type UserContext struct {
	Purpose           string  `json:"purpose"`
	BudgetUSD         float64 `json:"budget_usd"`
	ProductPreference string  `json:"product_preference"`
}

// decodeUserContext parses the model response, tolerating markdown fences
// around the JSON payload.
func decodeUserContext(raw string) (UserContext, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return UserContext{}, errors.New("empty context extraction response")
	}

	var uc UserContext
	if err := json.Unmarshal([]byte(cleaned), &uc); err != nil {
		return UserContext{}, fmt.Errorf("decode context extraction response: %w", err)
	}
	uc.Purpose = strings.TrimSpace(uc.Purpose)
	uc.ProductPreference = strings.TrimSpace(uc.ProductPreference)
	if uc.BudgetUSD < 0 {
		uc.BudgetUSD = 0
	}
	return uc, nil
}

// budgetPatterns require an explicit money cue so sizes like "65 inch" are
// not mistaken for a budget.
var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*(\d[\d,]*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(?:usd|dollars|bucks)`),
	regexp.MustCompile(`(?i)(?:budget\s+(?:of\s+|is\s+)?|under|below|less than|up to|around|max(?:imum)?\s+of?)\s*\$?\s*(\d[\d,]*(?:\.\d+)?)`),
}

var purposeKeywords = []string{
	"living room",
	"bedroom",
	"home office",
	"office",
	"kitchen",
	"gaming",
	"home theater",
	"studio",
	"dorm",
	"nursery",
}

var preferenceKeywords = []string{
	"oled tv",
	"qled tv",
	"tv",
	"television",
	"monitor",
	"projector",
	"soundbar",
	"speaker",
}

// heuristicExtractContext is the deterministic fallback when the model
// response is unusable. It scans for a dollar amount, a room keyword and a
// product keyword.
func heuristicExtractContext(userText string) UserContext {
	lowered := strings.ToLower(userText)

	uc := UserContext{}
	for _, kw := range purposeKeywords {
		if strings.Contains(lowered, kw) {
			uc.Purpose = kw
			break
		}
	}
	for _, kw := range preferenceKeywords {
		if strings.Contains(lowered, kw) {
			uc.ProductPreference = kw
			break
		}
	}

	for _, pattern := range budgetPatterns {
		m := pattern.FindStringSubmatch(userText)
		if m == nil {
			continue
		}
		cleaned := strings.ReplaceAll(m[1], ",", "")
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil && v > 0 {
			uc.BudgetUSD = v
			break
		}
	}
	return uc
}

// knownProductTypes maps preference keywords onto catalog product_type
// values. Ordered so more specific keywords win.
var knownProductTypes = []struct {
	keyword     string
	productType string
}{
	{"soundbar", "soundbar"},
	{"speaker", "speaker"},
	{"projector", "projector"},
	{"monitor", "monitor"},
	{"television", "tv"},
	{"tv", "tv"},
}

// filterFromContext turns extracted user context into a catalog filter. The
// preference selects the product type when it names a known one, otherwise it
// becomes a keyword predicate. The purpose stays out of the filter; it guides
// the explanation, not the query.
func filterFromContext(uc UserContext) catalog.Filter {
	f := catalog.Filter{MaxPriceUSD: uc.BudgetUSD}

	pref := strings.ToLower(strings.TrimSpace(uc.ProductPreference))
	if pref != "" {
		matched := false
		for _, entry := range knownProductTypes {
			if strings.Contains(pref, entry.keyword) {
				f.ProductType = entry.productType
				matched = true
				break
			}
		}
		if !matched {
			f.Keyword = pref
		}
	}
	return f
}

func productsJSON(products []catalog.Product) (string, error) {
	raw, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode matched products: %w", err)
	}
	return string(raw), nil
}

// templateExplanation is the deterministic fallback for explain_recommendation.
func templateExplanation(products []catalog.Product) string {
	var b strings.Builder
	b.WriteString("Based on your room and budget, these products stand out:\n")
	for _, p := range products {
		b.WriteString("- ")
		b.WriteString(p.ProductName)
		if p.Brand != "" {
			b.WriteString(" by ")
			b.WriteString(p.Brand)
		}
		if min, ok := p.MinPrice(); ok {
			b.WriteString(fmt.Sprintf(" (from $%.0f)", min))
		}
		if s := strings.TrimSpace(p.Summary); s != "" {
			b.WriteString(": ")
			if len(s) > 160 {
				s = s[:160] + "..."
			}
			b.WriteString(s)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
