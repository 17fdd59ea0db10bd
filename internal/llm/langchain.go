package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/devpatil/unigraph/internal/config"
)

// LangchainGenerator serves the hosted providers (OpenAI, Anthropic)
// behind the same Generator boundary as the local Ollama path.
type LangchainGenerator struct {
	llm         llms.Model
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	keySet      bool
}

var _ Generator = (*LangchainGenerator)(nil)

// NewLangchainGenerator creates a hosted-provider client from config.
func NewLangchainGenerator(cfg config.Config) (*LangchainGenerator, error) {
	var model llms.Model
	var err error
	keySet := false

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		keySet = true
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		keySet = true
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported hosted provider: %s", cfg.LLMProvider)
	}

	return &LangchainGenerator{
		llm:         model,
		model:       cfg.LLMModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.LLMTimeout,
		keySet:      keySet,
	}, nil
}

func (g *LangchainGenerator) ModelName() string {
	return g.model
}

func (g *LangchainGenerator) Generate(ctx context.Context, question, contextText string) Result {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, BuildPrompt(question, contextText)),
	}

	resp, err := g.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		return failure(g.model, fmt.Sprintf("generation failed: %s", err))
	}
	if len(resp.Choices) == 0 {
		return failure(g.model, "generation returned no choices")
	}

	choice := resp.Choices[0]
	evalCount := 0
	if n, ok := choice.GenerationInfo["CompletionTokens"].(int); ok {
		evalCount = n
	}

	return Result{
		Content:       choice.Content,
		Model:         g.model,
		TotalDuration: time.Since(start),
		EvalCount:     evalCount,
		Success:       true,
	}
}

// Available reports whether the provider can plausibly be reached.
// Hosted APIs have no free liveness endpoint, so a configured key
// counts as available; actual failures still surface per call.
func (g *LangchainGenerator) Available(_ context.Context) bool {
	return g.keySet
}
