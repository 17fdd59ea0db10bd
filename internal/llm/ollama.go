package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/devpatil/unigraph/internal/config"
)

// OllamaGenerator talks to a local Ollama server over its native API.
type OllamaGenerator struct {
	client      *api.Client
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// Compile-time check that OllamaGenerator implements Generator.
var _ Generator = (*OllamaGenerator)(nil)

// NewOllamaGenerator creates an Ollama generation client from config.
func NewOllamaGenerator(cfg config.Config) (*OllamaGenerator, error) {
	base, err := url.Parse(cfg.OllamaURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama url: %w", err)
	}

	return &OllamaGenerator{
		client:      api.NewClient(base, http.DefaultClient),
		model:       cfg.LLMModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.LLMTimeout,
	}, nil
}

// ModelName returns the configured model identifier.
func (g *OllamaGenerator) ModelName() string {
	return g.model
}

// Generate performs one synchronous, non-streaming generation call.
// Any failure is folded into the Result; callers never see transport
// errors.
func (g *OllamaGenerator) Generate(ctx context.Context, question, contextText string) Result {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	stream := false
	req := &api.GenerateRequest{
		Model:  g.model,
		Prompt: BuildPrompt(question, contextText),
		System: SystemPrompt,
		Stream: &stream,
		Options: map[string]any{
			"temperature": g.temperature,
			"num_predict": g.maxTokens,
		},
	}

	var resp api.GenerateResponse
	err := g.client.Generate(ctx, req, func(r api.GenerateResponse) error {
		resp = r
		return nil
	})
	if err != nil {
		return failure(g.model, describeOllamaError(err, g.timeout))
	}

	model := resp.Model
	if model == "" {
		model = g.model
	}

	return Result{
		Content:       resp.Response,
		Model:         model,
		TotalDuration: resp.Metrics.TotalDuration,
		EvalCount:     resp.Metrics.EvalCount,
		Success:       true,
	}
}

// Available checks the Ollama tags endpoint with a short deadline.
func (g *OllamaGenerator) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := g.client.List(ctx)
	return err == nil
}

// Models lists the model names the server has pulled. Health/status
// reporting only.
func (g *OllamaGenerator) Models(ctx context.Context) ([]string, error) {
	resp, err := g.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	names := make([]string, len(resp.Models))
	for i, m := range resp.Models {
		names[i] = m.Name
	}
	return names, nil
}

func describeOllamaError(err error, timeout time.Duration) string {
	msg := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(msg, "deadline exceeded"):
		return fmt.Sprintf("generation timed out after %s", timeout)
	case strings.Contains(msg, "connection refused"):
		return "cannot connect to Ollama: is the server running?"
	default:
		return fmt.Sprintf("generation failed: %s", msg)
	}
}
