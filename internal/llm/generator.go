// Package llm provides the text-generation client used to turn a
// retrieved graph context into an answer. All back ends normalize
// success and failure into the same Result shape; nothing past this
// boundary ever sees a raw transport error.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/devpatil/unigraph/internal/config"
)

// Result is the uniform outcome of one generation call. Success=false
// carries a human-readable Error and empty Content; a failed call is
// reported once, never retried here.
type Result struct {
	Content       string
	Model         string
	TotalDuration time.Duration
	EvalCount     int
	Success       bool
	Error         string
}

// Generator is the text-generation boundary. Generate never returns a
// Go error: every failure mode is folded into the Result.
type Generator interface {
	// Generate answers the question grounded on the context string.
	Generate(ctx context.Context, question, contextText string) Result

	// Available reports whether the generation service is reachable.
	// Used for health reporting only, never on the retrieval path.
	Available(ctx context.Context) bool

	// ModelName returns the configured model identifier.
	ModelName() string
}

// New constructs the Generator for the configured provider.
func New(cfg config.Config) (Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderOllama:
		return NewOllamaGenerator(cfg)
	case config.ProviderOpenAI, config.ProviderAnthropic:
		return NewLangchainGenerator(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}

func failure(model, msg string) Result {
	return Result{Model: model, Success: false, Error: msg}
}
