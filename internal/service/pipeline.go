// Package service wires the retrieval builder and the generation
// client into the end-to-end query pipeline.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devpatil/unigraph/internal/llm"
	"github.com/devpatil/unigraph/internal/metrics"
	"github.com/devpatil/unigraph/internal/models"
	"github.com/devpatil/unigraph/internal/rag"
)

// Store is the slice of the graph client the pipeline needs beyond
// retrieval: liveness and the whole-graph summary.
type Store interface {
	Ping(ctx context.Context) error
	GraphStats(ctx context.Context) (*models.GraphStats, error)
}

// Health reports collaborator reachability, with graph statistics
// when the store answered.
type Health struct {
	GraphConnected bool
	LLMConnected   bool
	Stats          *models.GraphStats
}

// QueryResponse is the outcome of one end-to-end query. Success=false
// means the pipeline refused or the generation call failed; Error then
// carries the human-readable cause and Answer is empty.
type QueryResponse struct {
	RequestID      string
	Answer         string
	Context        string
	Intent         rag.Intent
	EntitiesFound  int
	Sources        []string
	Model          string
	RetrievalTime  time.Duration
	GenerationTime time.Duration
	Success        bool
	Error          string
}

// Pipeline processes queries sequentially: retrieval, then one
// generation call. It holds no per-query state.
type Pipeline struct {
	builder   *rag.Builder
	generator llm.Generator
	store     Store
	collector *metrics.Collector
	logger    *slog.Logger
}

func NewPipeline(builder *rag.Builder, generator llm.Generator, store Store, collector *metrics.Collector, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &Pipeline{
		builder:   builder,
		generator: generator,
		store:     store,
		collector: collector,
		logger:    logger,
	}
}

// ProcessQuery answers one user query. Collaborator outages and
// generation failures are reported in the response, never as a raw
// error; the returned error covers retrieval-time store failures only.
func (p *Pipeline) ProcessQuery(ctx context.Context, query string) (*QueryResponse, error) {
	requestID := uuid.NewString()[:8]
	logger := p.logger.With(slog.String("request_id", requestID))

	resp := &QueryResponse{RequestID: requestID, Model: p.generator.ModelName()}

	health := p.CheckConnections(ctx)
	if !health.GraphConnected || !health.LLMConnected {
		resp.Error = downMessage(health)
		logger.Warn("refusing query", slog.String("reason", resp.Error))
		return resp, nil
	}

	retrieval, err := p.builder.BuildContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("build context: %w", err)
	}
	p.collector.RecordTiming(metrics.OpRetrieval, retrieval.RetrievalTime)

	resp.Context = retrieval.Context
	resp.Intent = retrieval.Intent
	resp.EntitiesFound = retrieval.EntitiesFound
	resp.Sources = retrieval.Sources
	resp.RetrievalTime = retrieval.RetrievalTime

	logger.Info("context assembled",
		slog.String("intent", string(retrieval.Intent)),
		slog.Int("entities_found", retrieval.EntitiesFound),
		slog.Int("context_chars", len(retrieval.Context)),
		slog.Duration("retrieval_time", retrieval.RetrievalTime))

	genStart := time.Now()
	result := p.generator.Generate(ctx, query, retrieval.Context)
	resp.GenerationTime = time.Since(genStart)
	resp.Model = result.Model

	if !result.Success {
		resp.Error = result.Error
		logger.Error("generation failed", slog.String("error", result.Error))
		return resp, nil
	}

	p.collector.RecordGeneration(resp.GenerationTime, int64(result.EvalCount))

	resp.Answer = result.Content
	resp.Success = true

	logger.Info("query answered",
		slog.String("model", result.Model),
		slog.Int("eval_count", result.EvalCount),
		slog.Duration("generation_time", resp.GenerationTime))

	return resp, nil
}

// CheckConnections probes both collaborators independently. A graph
// probe that succeeds also fetches the current statistics.
func (p *Pipeline) CheckConnections(ctx context.Context) Health {
	var h Health

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pingStart := time.Now()
	if err := p.store.Ping(pingCtx); err == nil {
		p.collector.RecordTiming(metrics.OpGraphQuery, time.Since(pingStart))
		h.GraphConnected = true
		if stats, err := p.store.GraphStats(pingCtx); err == nil {
			h.Stats = stats
		}
	}

	h.LLMConnected = p.generator.Available(ctx)

	return h
}

// Metrics returns the pipeline's runtime statistics.
func (p *Pipeline) Metrics() metrics.Snapshot {
	return p.collector.Snapshot()
}

func downMessage(h Health) string {
	var down []string
	if !h.GraphConnected {
		down = append(down, "graph store not connected")
	}
	if !h.LLMConnected {
		down = append(down, "generation service not running")
	}
	return "cannot process query: " + strings.Join(down, ", ")
}
