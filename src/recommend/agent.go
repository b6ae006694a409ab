// Package recommend builds the ADK home recommendation agent and its tools.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"

	"github.com/chlehdwls94/agent-test/src/catalog"
)

var log = &logrus.Logger{
	Out:       os.Stderr,
	Formatter: &logrus.TextFormatter{FullTimestamp: true},
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.InfoLevel,
}

const (
	// DefaultModel powers the recommendation and root agents.
	DefaultModel = "gemini-2.5-pro"
	// DefaultFlashModel powers the cheaper per-tool Gemini calls.
	DefaultFlashModel = "gemini-2.5-flash"
	// DefaultAgentName identifies the recommendation sub-agent.
	DefaultAgentName = "home_recommendation_agent"
	// DefaultRootAgentName identifies the orchestrating root agent.
	DefaultRootAgentName = "home_recommendation_root_agent"
)

// Config holds configuration for the recommendation agent stack.
type Config struct {
	// APIKey is required for the Gemini API backend. Ignored with Vertex AI.
	APIKey string
	// UseVertexAI routes Gemini calls through Vertex AI instead of the API key.
	UseVertexAI bool
	// ProjectID and Location are required when UseVertexAI is set.
	ProjectID string
	Location  string
	// ModelName defaults to DefaultModel when empty.
	ModelName string
	// FlashModelName defaults to DefaultFlashModel when empty.
	FlashModelName string
	// AgentName and RootAgentName allow overriding the agent identifiers.
	AgentName     string
	RootAgentName string
}

func (cfg *Config) applyDefaults() {
	if cfg.ModelName == "" {
		cfg.ModelName = DefaultModel
	}
	if cfg.FlashModelName == "" {
		cfg.FlashModelName = DefaultFlashModel
	}
	if cfg.Location == "" {
		cfg.Location = "us-central1"
	}
	if cfg.AgentName == "" {
		cfg.AgentName = DefaultAgentName
	}
	if cfg.RootAgentName == "" {
		cfg.RootAgentName = DefaultRootAgentName
	}
}

// ConfigFromEnv builds a Config from the deployment environment contract:
// GOOGLE_API_KEY, GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT,
// GOOGLE_CLOUD_LOCATION and MODEL_NAME.
func ConfigFromEnv() Config {
	useVertex := os.Getenv("GOOGLE_GENAI_USE_VERTEXAI")
	return Config{
		APIKey:      os.Getenv("GOOGLE_API_KEY"),
		UseVertexAI: useVertex == "1" || strings.EqualFold(useVertex, "true"),
		ProjectID:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Location:    os.Getenv("GOOGLE_CLOUD_LOCATION"),
		ModelName:   os.Getenv("MODEL_NAME"),
	}
}

func (cfg Config) clientConfig() *genai.ClientConfig {
	if cfg.UseVertexAI {
		return &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.ProjectID,
			Location: cfg.Location,
		}
	}
	return &genai.ClientConfig{APIKey: cfg.APIKey}
}

func (cfg Config) validate() error {
	if cfg.UseVertexAI {
		if strings.TrimSpace(cfg.ProjectID) == "" {
			return errors.New("GOOGLE_CLOUD_PROJECT not provided for Vertex AI backend")
		}
		return nil
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return errors.New("GOOGLE_API_KEY not provided")
	}
	return nil
}

// NewAgent returns the home recommendation llmagent with its four tools wired
// against the given catalog store.
func NewAgent(ctx context.Context, cfg Config, store catalog.Store) (agent.Agent, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	model, err := gemini.NewModel(ctx, cfg.ModelName, cfg.clientConfig())
	if err != nil {
		return nil, fmt.Errorf("create gemini model: %w", err)
	}

	toolset, err := NewToolset(ctx, cfg, store)
	if err != nil {
		return nil, err
	}
	tools, err := toolset.Tools()
	if err != nil {
		return nil, err
	}

	return llmagent.New(llmagent.Config{
		Name:        cfg.AgentName,
		Model:       model,
		Description: "An agent that recommends products based on a room image and user preferences.",
		Instruction: RecommendationInstruction,
		Tools:       tools,
	})
}

// NewRootAgent wraps the recommendation agent in the orchestrating root agent.
func NewRootAgent(ctx context.Context, cfg Config, store catalog.Store) (agent.Agent, error) {
	cfg.applyDefaults()

	sub, err := NewAgent(ctx, cfg, store)
	if err != nil {
		return nil, err
	}

	model, err := gemini.NewModel(ctx, cfg.ModelName, cfg.clientConfig())
	if err != nil {
		return nil, fmt.Errorf("create gemini model: %w", err)
	}

	root, err := llmagent.New(llmagent.Config{
		Name:        cfg.RootAgentName,
		Model:       model,
		Description: "A root agent that orchestrates the home recommendation agent.",
		Instruction: RootInstruction,
		SubAgents:   []agent.Agent{sub},
	})
	if err != nil {
		return nil, fmt.Errorf("create root agent: %w", err)
	}
	log.Infof("recommend: root agent %s initialised (model=%s)", cfg.RootAgentName, cfg.ModelName)
	return root, nil
}
