package knowledge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordEmbedder maps text onto a tiny bag-of-words space.
type keywordEmbedder struct {
	err error
}

var axes = []string{"anytrust", "rollup", "validator", "block", "gas", "challenge"}

func (k keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if k.err != nil {
		return nil, k.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		lower := strings.ToLower(t)
		vec := make([]float32, len(axes))
		for j, a := range axes {
			if strings.Contains(lower, a) {
				vec[j] = 1
			}
		}
		out[i] = vec
	}
	return out, nil
}

type memoryStore struct {
	vectors [][]float32
	docs    []Document
}

func (m *memoryStore) Upsert(_ context.Context, vectors [][]float32, docs []Document) error {
	m.vectors = append(m.vectors, vectors...)
	m.docs = append(m.docs, docs...)
	return nil
}

func (m *memoryStore) Search(_ context.Context, query []float32, limit int) ([]Document, error) {
	type hit struct {
		doc   Document
		score float32
	}
	var hits []hit
	for i, v := range m.vectors {
		var dot float32
		for j := range v {
			dot += v[j] * query[j]
		}
		if dot > 0 {
			d := m.docs[i]
			d.Score = dot
			hits = append(hits, hit{d, dot})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })
	var out []Document
	for i := 0; i < len(hits) && i < limit; i++ {
		out = append(out, hits[i].doc)
	}
	return out, nil
}

// pruningStore drops documents whose term is not kept.
type pruningStore struct {
	memoryStore
	kept []string
}

func (p *pruningStore) Prune(_ context.Context, terms []string) error {
	p.kept = terms
	var vectors [][]float32
	var docs []Document
	for i, d := range p.docs {
		for _, t := range terms {
			if d.Metadata[TermKey] == t {
				vectors = append(vectors, p.vectors[i])
				docs = append(docs, d)
				break
			}
		}
	}
	p.vectors, p.docs = vectors, docs
	return nil
}

func quiet() GlossaryOption {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDocumentsHaveStableIDs(t *testing.T) {
	first, second := Documents(), Documents()
	require.Len(t, first, len(Concepts()))
	seen := map[string]bool{}
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		_, err := uuid.Parse(first[i].ID)
		assert.NoError(t, err)
		assert.False(t, seen[first[i].ID])
		seen[first[i].ID] = true
	}
	assert.Equal(t, "L3 chain: your own blockchain that runs on top of Arbitrum", first[0].Content)
}

func TestGlossary_WithoutStoreUsesBuiltins(t *testing.T) {
	g := NewGlossary(quiet())
	assert.Equal(t, Lines(), g.Lookup(context.Background(), "what is anytrust"))

	n, err := g.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var nilGlossary *Glossary
	assert.Equal(t, Lines(), nilGlossary.Lookup(context.Background(), "x"))
}

func TestGlossary_RetrievesTopMatches(t *testing.T) {
	store := &memoryStore{}
	g := NewGlossary(quiet(), WithKnowledgeBase(NewKnowledgeBase(keywordEmbedder{}, store)), WithLimit(2))

	n, err := g.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(Concepts()), n)

	got := g.Lookup(context.Background(), "Should I pick rollup or anytrust?")
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []string{
		"AnyTrust: cheaper fees, data kept by a trusted committee; good for gaming and social apps",
		"Rollup: maximum security, all data posted to Ethereum; best for financial apps",
	}, got)
}

func TestGlossary_FallsBackOnFailureOrNoHits(t *testing.T) {
	failing := NewGlossary(quiet(), WithKnowledgeBase(NewKnowledgeBase(keywordEmbedder{err: errors.New("down")}, &memoryStore{})))
	assert.Equal(t, Lines(), failing.Lookup(context.Background(), "gas"))

	empty := NewGlossary(quiet(), WithKnowledgeBase(NewKnowledgeBase(keywordEmbedder{}, &memoryStore{})))
	assert.Equal(t, Lines(), empty.Lookup(context.Background(), "gas"))
}

func TestGlossary_SeedPrunesRetiredConcepts(t *testing.T) {
	store := &pruningStore{}
	store.docs = []Document{{ID: "old", Content: "Gas token: retired explanation", Metadata: map[string]any{TermKey: "Gas token"}}}
	store.vectors = [][]float32{{0, 0, 0, 0, 1, 0}}

	g := NewGlossary(quiet(), WithKnowledgeBase(NewKnowledgeBase(keywordEmbedder{}, store)))
	n, err := g.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(Concepts()), n)
	assert.Len(t, store.kept, len(Concepts()))
	assert.Contains(t, store.kept, "AnyTrust")

	require.Len(t, store.docs, len(Concepts()))
	for _, d := range store.docs {
		assert.NotEqual(t, "old", d.ID)
	}
	assert.Equal(t, []string{"Gas limit: the most computation one block can hold; higher means more throughput"},
		g.Lookup(context.Background(), "gas"))
}
