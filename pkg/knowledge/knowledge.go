// Package knowledge retrieves short concept explanations for the system instruction.
package knowledge

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Document represents a piece of text with metadata.
type Document struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Score    float32        `json:"score,omitempty"` // Similarity score
}

// Embedder is the interface for generating embeddings.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore is the interface for storing and retrieving vectors.
type VectorStore interface {
	// Upsert inserts or updates documents and their vectors.
	Upsert(ctx context.Context, vectors [][]float32, documents []Document) error
	// Search searches for similar documents using a query vector.
	Search(ctx context.Context, query []float32, limit int) ([]Document, error)
}

// Pruner is implemented by stores that can drop concepts no longer in the built-in list.
type Pruner interface {
	// Prune deletes every document whose TermKey metadata is not in terms.
	Prune(ctx context.Context, terms []string) error
}

// TermKey is the metadata key holding a concept's term.
const TermKey = "term"

// KnowledgeBase combines an Embedder and a VectorStore.
type KnowledgeBase struct {
	Embedder    Embedder
	VectorStore VectorStore
}

// NewKnowledgeBase creates a new KnowledgeBase.
func NewKnowledgeBase(embedder Embedder, store VectorStore) *KnowledgeBase {
	return &KnowledgeBase{
		Embedder:    embedder,
		VectorStore: store,
	}
}

// Ingest adds texts to the knowledge base.
func (kb *KnowledgeBase) Ingest(ctx context.Context, docs []Document) error {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	vectors, err := kb.Embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}

	return kb.VectorStore.Upsert(ctx, vectors, docs)
}

// Retrieve finds relevant documents for a query.
func (kb *KnowledgeBase) Retrieve(ctx context.Context, query string, limit int) ([]Document, error) {
	vectors, err := kb.Embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	if len(vectors) == 0 {
		return nil, nil
	}

	return kb.VectorStore.Search(ctx, vectors[0], limit)
}

// Concept is one plain-language explanation.
type Concept struct {
	Term        string
	Explanation string
}

// Line renders the concept as it appears in the system instruction.
func (c Concept) Line() string {
	return c.Term + ": " + c.Explanation
}

var concepts = []Concept{
	{"L3 chain", "your own blockchain that runs on top of Arbitrum"},
	{"AnyTrust", "cheaper fees, data kept by a trusted committee; good for gaming and social apps"},
	{"Rollup", "maximum security, all data posted to Ethereum; best for financial apps"},
	{"Validators", "nodes that verify transactions, like referees in a game"},
	{"Sequencer", "the service that orders transactions; it runs automatically"},
	{"Challenge period", "the time window for fraud detection, usually 7 days"},
	{"Block time", "how often a new block is made; 1 second is very fast"},
	{"Gas limit", "the most computation one block can hold; higher means more throughput"},
}

// Concepts returns the built-in concept list.
func Concepts() []Concept {
	out := make([]Concept, len(concepts))
	copy(out, concepts)
	return out
}

// Lines renders every built-in concept.
func Lines() []string {
	out := make([]string, len(concepts))
	for i, c := range concepts {
		out[i] = c.Line()
	}
	return out
}

// Documents converts the built-in concepts for ingestion. IDs are stable
// UUIDs derived from the term, so re-ingesting overwrites instead of duplicating.
func Documents() []Document {
	docs := make([]Document, len(concepts))
	for i, c := range concepts {
		docs[i] = Document{
			ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte("orbitai/concept/"+c.Term)).String(),
			Content:  c.Line(),
			Metadata: map[string]any{TermKey: c.Term},
		}
	}
	return docs
}
