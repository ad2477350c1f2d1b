package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/openai/openai-go/option"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/barekit/orbitai/pkg/assistant"
	"github.com/barekit/orbitai/pkg/config"
	"github.com/barekit/orbitai/pkg/deploy"
	"github.com/barekit/orbitai/pkg/knowledge"
	embedopenai "github.com/barekit/orbitai/pkg/knowledge/openai"
	"github.com/barekit/orbitai/pkg/knowledge/postgres"
	"github.com/barekit/orbitai/pkg/knowledge/qdrant"
	"github.com/barekit/orbitai/pkg/ledger"
	"github.com/barekit/orbitai/pkg/llm"
	"github.com/barekit/orbitai/pkg/llm/gemini"
	"github.com/barekit/orbitai/pkg/llm/openai"
	"github.com/barekit/orbitai/pkg/metrics"
	"github.com/barekit/orbitai/pkg/preflight"
	"github.com/barekit/orbitai/pkg/session"
)

// app is the wired service plus everything that must be released on exit.
type app struct {
	svc      *assistant.Service
	registry *prometheus.Registry
	closers  []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// build wires every collaborator from cfg.
func build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{registry: prometheus.NewRegistry()}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(a.registry)

	chain, err := newChain(ctx, cfg, logger, m)
	if err != nil {
		return nil, err
	}
	if chain.Len() == 0 {
		logger.Warn("No text generation provider configured, replies will be canned questions")
	} else {
		logger.Info("Text generation providers", "order", chain.Names())
	}

	led, err := ledger.NewFactory(ctx, ledger.Config{
		Type:             ledger.Type(cfg.LedgerType),
		ConnectionString: cfg.LedgerConn,
		Username:         cfg.LedgerUser,
		Password:         cfg.LedgerPass,
		DBName:           cfg.LedgerDB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger: %w", err)
	}
	switch c := led.(type) {
	case io.Closer:
		a.closers = append(a.closers, c.Close)
	case interface{ Close(context.Context) error }:
		a.closers = append(a.closers, func() error { return c.Close(context.Background()) })
	}

	glossary, closer, err := newGlossary(ctx, cfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer.Close)
	}

	opts := []assistant.Option{
		assistant.WithLogger(logger),
		assistant.WithMetrics(m),
		assistant.WithGenerator(chain),
		assistant.WithLedger(led),
		assistant.WithGlossary(glossary),
		assistant.WithDeployer(deploy.NewClient(
			deploy.WithBaseURL(cfg.BackendURL),
			deploy.WithTimeout(cfg.BackendTimeout),
		)),
		assistant.WithSessionOptions(session.WithTTL(cfg.SessionTTL)),
	}
	if cfg.PreflightEnabled {
		opts = append(opts, assistant.WithPreflight(preflight.NewChecker(cfg.RPCs)))
	}

	a.svc = assistant.New(opts...)
	return a, nil
}

// newChain orders the configured providers: Groq, then OpenAI, then Gemini.
func newChain(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*llm.Chain, error) {
	opts := []llm.ChainOption{
		llm.WithTimeout(cfg.LLMTimeout),
		llm.WithLogger(logger),
		llm.WithFallbackHook(func(name string, _ error) { m.Fallback(name) }),
	}
	if cfg.GroqAPIKey != "" {
		opts = append(opts, llm.WithProvider("groq", openai.NewGroq(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)))
	}
	if cfg.OpenAIAPIKey != "" {
		opts = append(opts, llm.WithProvider("openai", openai.New(option.WithAPIKey(cfg.OpenAIAPIKey))))
	}
	if cfg.GeminiAPIKey != "" {
		p, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini provider: %w", err)
		}
		opts = append(opts, llm.WithProvider("gemini", p))
	}
	return llm.NewChain(opts...), nil
}

// newGlossary connects the concept store named by KNOWLEDGE_STORE.
// Without one the glossary serves the built-in concept list.
func newGlossary(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*knowledge.Glossary, io.Closer, error) {
	if cfg.KnowledgeStore == config.KnowledgeNone {
		return knowledge.NewGlossary(knowledge.WithLogger(logger)), nil, nil
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, nil, errors.New("OPENAI_API_KEY is required for concept embeddings")
	}
	embedder := embedopenai.NewEmbedder(option.WithAPIKey(cfg.OpenAIAPIKey))

	var (
		store  knowledge.VectorStore
		closer io.Closer
	)
	switch cfg.KnowledgeStore {
	case config.KnowledgeQdrant:
		s, err := qdrant.New(ctx, cfg.QdrantHost, cfg.QdrantPort, "", embedopenai.Dimensions)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to qdrant: %w", err)
		}
		store, closer = s, s
	case config.KnowledgePostgres:
		s, err := postgres.New(cfg.KnowledgeDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		store = s
	}

	kb := knowledge.NewKnowledgeBase(embedder, store)
	return knowledge.NewGlossary(knowledge.WithKnowledgeBase(kb), knowledge.WithLogger(logger)), closer, nil
}
