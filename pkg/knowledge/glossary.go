package knowledge

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultLimit is how many concepts a Glossary returns per lookup.
const DefaultLimit = 3

// Glossary picks the concept lines to put in front of the model.
// Without a knowledge base, or when retrieval fails, it returns the whole built-in list.
type Glossary struct {
	kb     *KnowledgeBase
	limit  int
	logger *slog.Logger
}

// GlossaryOption configures a Glossary.
type GlossaryOption func(*Glossary)

// WithKnowledgeBase enables vector retrieval.
func WithKnowledgeBase(kb *KnowledgeBase) GlossaryOption {
	return func(g *Glossary) {
		g.kb = kb
	}
}

// WithLimit sets how many retrieved concepts are kept.
func WithLimit(n int) GlossaryOption {
	return func(g *Glossary) {
		if n > 0 {
			g.limit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) GlossaryOption {
	return func(g *Glossary) {
		g.logger = l
	}
}

// NewGlossary creates a Glossary.
func NewGlossary(opts ...GlossaryOption) *Glossary {
	g := &Glossary{limit: DefaultLimit, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Lookup returns concept lines relevant to query.
func (g *Glossary) Lookup(ctx context.Context, query string) []string {
	if g == nil || g.kb == nil || query == "" {
		return Lines()
	}

	docs, err := g.kb.Retrieve(ctx, query, g.limit)
	if err != nil {
		g.logger.Warn("Concept retrieval failed, using built-in list", "error", err)
		return Lines()
	}

	var out []string
	for _, d := range docs {
		if d.Content != "" {
			out = append(out, d.Content)
		}
	}
	if len(out) == 0 {
		return Lines()
	}
	return out
}

// Seed ingests the built-in concepts into the knowledge base. Stores that
// implement Pruner also lose concepts that were removed from the list.
func (g *Glossary) Seed(ctx context.Context) (int, error) {
	if g.kb == nil {
		return 0, nil
	}
	docs := Documents()
	if err := g.kb.Ingest(ctx, docs); err != nil {
		return 0, err
	}

	if p, ok := g.kb.VectorStore.(Pruner); ok {
		terms := make([]string, len(docs))
		for i, c := range Concepts() {
			terms[i] = c.Term
		}
		if err := p.Prune(ctx, terms); err != nil {
			return 0, fmt.Errorf("failed to prune stale concepts: %w", err)
		}
	}
	return len(docs), nil
}
