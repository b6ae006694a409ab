package recommend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
	"google.golang.org/genai"

	"github.com/chlehdwls94/agent-test/src/catalog"
)

// Toolset owns the Gemini client and catalog store shared by the agent's
// function tools.
type Toolset struct {
	cfg    Config
	client *genai.Client
	store  catalog.Store

	storageOnce sync.Once
	storage     *storage.Client
	storageErr  error
}

// NewToolset builds the shared clients for the agent tools.
func NewToolset(ctx context.Context, cfg Config, store catalog.Store) (*Toolset, error) {
	cfg.applyDefaults()
	client, err := genai.NewClient(ctx, cfg.clientConfig())
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Toolset{cfg: cfg, client: client, store: store}, nil
}

// Tools returns the four function tools declared to the agent runtime.
func (t *Toolset) Tools() ([]tool.Tool, error) {
	analyze, err := functiontool.New(functiontool.Config{
		Name:        "analyze_room_image",
		Description: "Analyzes an image of a room and returns a description of the room. Accepts a local file path or a gs:// object URI.",
	}, t.analyzeRoomImage)
	if err != nil {
		return nil, fmt.Errorf("create analyze_room_image tool: %w", err)
	}

	extract, err := functiontool.New(functiontool.Config{
		Name:        "extract_context",
		Description: "Extracts the purpose, budget in USD, and product preference from the user's message.",
	}, t.extractContext)
	if err != nil {
		return nil, fmt.Errorf("create extract_context tool: %w", err)
	}

	match, err := functiontool.New(functiontool.Config{
		Name:        "match_products",
		Description: "Queries the product catalog and returns products matching the user's purpose, budget and preference.",
	}, t.matchProducts)
	if err != nil {
		return nil, fmt.Errorf("create match_products tool: %w", err)
	}

	explain, err := functiontool.New(functiontool.Config{
		Name:        "explain_recommendation",
		Description: "Generates a human-readable recommendation for a list of matched products.",
	}, t.explainRecommendation)
	if err != nil {
		return nil, fmt.Errorf("create explain_recommendation tool: %w", err)
	}

	return []tool.Tool{analyze, extract, match, explain}, nil
}

type analyzeRoomImageArgs struct {
	// ImagePath is a local file path or a gs://bucket/object URI.
	ImagePath string `json:"image_path"`
}

type analyzeRoomImageResult struct {
	Description string `json:"description"`
}

func (t *Toolset) analyzeRoomImage(toolCtx tool.Context, args analyzeRoomImageArgs) (analyzeRoomImageResult, error) {
	data, mimeType, err := t.readImage(toolCtx, args.ImagePath)
	if err != nil {
		return analyzeRoomImageResult{}, err
	}

	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromText(roomDescriptionPrompt),
		genai.NewPartFromBytes(data, mimeType),
	}, genai.RoleUser)

	resp, err := t.client.Models.GenerateContent(toolCtx, t.cfg.FlashModelName, []*genai.Content{content}, nil)
	if err != nil {
		return analyzeRoomImageResult{}, fmt.Errorf("analyze room image: %w", err)
	}
	description := strings.TrimSpace(resp.Text())
	if description == "" {
		return analyzeRoomImageResult{}, fmt.Errorf("empty room description for %s", args.ImagePath)
	}
	log.Infof("recommend: analyzed room image %s (%d bytes)", args.ImagePath, len(data))
	return analyzeRoomImageResult{Description: description}, nil
}

type extractContextArgs struct {
	UserText string `json:"user_text"`
}

func (t *Toolset) extractContext(toolCtx tool.Context, args extractContextArgs) (UserContext, error) {
	uc, err := t.extractWithGemini(toolCtx, args.UserText)
	if err != nil {
		log.Warnf("recommend: gemini context extraction failed, using heuristics: %v", err)
		return heuristicExtractContext(args.UserText), nil
	}
	return uc, nil
}

func (t *Toolset) extractWithGemini(ctx context.Context, userText string) (UserContext, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: "OBJECT",
			Properties: map[string]*genai.Schema{
				"purpose": {
					Type:        "STRING",
					Description: "Which room or activity the product is for",
				},
				"budget_usd": {
					Type:        "NUMBER",
					Description: "Budget ceiling in US dollars, 0 when unspecified",
				},
				"product_preference": {
					Type:        "STRING",
					Description: "The kind of product the user wants",
				},
			},
			Required: []string{"purpose", "budget_usd", "product_preference"},
		},
	}

	contents := []*genai.Content{genai.NewContentFromText(contextExtractionPrompt+userText, genai.RoleUser)}
	resp, err := t.client.Models.GenerateContent(ctx, t.cfg.ModelName, contents, config)
	if err != nil {
		return UserContext{}, fmt.Errorf("extract context: %w", err)
	}
	return decodeUserContext(resp.Text())
}

type matchProductsArgs struct {
	Purpose           string  `json:"purpose"`
	BudgetUSD         float64 `json:"budget_usd"`
	ProductPreference string  `json:"product_preference"`
	Brand             string  `json:"brand,omitempty"`
}

type matchProductsResult struct {
	Products []catalog.Product `json:"products"`
}

func (t *Toolset) matchProducts(toolCtx tool.Context, args matchProductsArgs) (matchProductsResult, error) {
	f := filterFromContext(UserContext{
		Purpose:           args.Purpose,
		BudgetUSD:         args.BudgetUSD,
		ProductPreference: args.ProductPreference,
	})
	f.Brand = args.Brand

	products, err := t.store.Match(toolCtx, f)
	if err != nil {
		return matchProductsResult{}, fmt.Errorf("match products: %w", err)
	}
	log.Infof("recommend: matched %d products (type=%q budget=%.0f)", len(products), f.ProductType, f.MaxPriceUSD)
	return matchProductsResult{Products: products}, nil
}

type explainRecommendationArgs struct {
	Products []catalog.Product `json:"products"`
}

type explainRecommendationResult struct {
	Explanation string `json:"explanation"`
}

func (t *Toolset) explainRecommendation(toolCtx tool.Context, args explainRecommendationArgs) (explainRecommendationResult, error) {
	if len(args.Products) == 0 {
		return explainRecommendationResult{Explanation: "No products in the catalog match the request. Consider raising the budget or relaxing the preference."}, nil
	}

	payload, err := productsJSON(args.Products)
	if err != nil {
		return explainRecommendationResult{}, err
	}

	contents := []*genai.Content{genai.NewContentFromText(fmt.Sprintf(explainPrompt, payload), genai.RoleUser)}
	resp, err := t.client.Models.GenerateContent(toolCtx, t.cfg.ModelName, contents, nil)
	if err != nil {
		log.Warnf("recommend: gemini explanation failed, using template: %v", err)
		return explainRecommendationResult{Explanation: templateExplanation(args.Products)}, nil
	}
	explanation := strings.TrimSpace(resp.Text())
	if explanation == "" {
		return explainRecommendationResult{Explanation: templateExplanation(args.Products)}, nil
	}
	return explainRecommendationResult{Explanation: explanation}, nil
}

// storageClient lazily builds one Cloud Storage client for the toolset's
// lifetime; tools may be invoked many times per session.
func (t *Toolset) storageClient(ctx context.Context) (*storage.Client, error) {
	t.storageOnce.Do(func() {
		t.storage, t.storageErr = storage.NewClient(ctx)
	})
	if t.storageErr != nil {
		return nil, fmt.Errorf("create storage client: %w", t.storageErr)
	}
	return t.storage, nil
}

// readImage loads image bytes from a local path or a gs:// URI.
func (t *Toolset) readImage(ctx context.Context, path string) ([]byte, string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, "", fmt.Errorf("image path is empty")
	}

	var data []byte
	if bucket, object, ok := splitGSURI(path); ok {
		client, err := t.storageClient(ctx)
		if err != nil {
			return nil, "", err
		}
		rc, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("open %s: %w", path, err)
		}
		defer rc.Close()
		data, err = io.ReadAll(rc)
		if err != nil {
			return nil, "", fmt.Errorf("download %s: %w", path, err)
		}
	} else {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read image file: %w", err)
		}
	}

	return data, detectImageMIME(path, data), nil
}

func splitGSURI(uri string) (bucket, object string, ok bool) {
	rest, found := strings.CutPrefix(uri, "gs://")
	if !found {
		return "", "", false
	}
	bucket, object, found = strings.Cut(rest, "/")
	if !found || bucket == "" || object == "" {
		return "", "", false
	}
	return bucket, object, true
}

func detectImageMIME(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return http.DetectContentType(data)
}
