// Package qdrant stores concept explanations in a Qdrant collection.
package qdrant

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/barekit/orbitai/pkg/knowledge"
)

// DefaultCollection holds the concept explanations.
const DefaultCollection = "orbit_concepts"

// Each point carries the rendered concept line and its term. The term is
// indexed as a keyword so stale concepts can be deleted by filter.
const (
	lineKey = "line"
	termKey = knowledge.TermKey
)

// Store implements knowledge.VectorStore and knowledge.Pruner on Qdrant.
type Store struct {
	client     *qdrant.Client
	collection string
	dimensions uint64
}

// New connects over gRPC and makes sure the collection and its term index exist.
func New(ctx context.Context, host string, port int, collection string, dimensions uint64) (*Store, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	client, err := qdrant.NewClient(&qdrant.Config{Host: host, Port: port})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	s := &Store{client: client, collection: collection, dimensions: dimensions}
	if err := s.ensureCollection(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", s.collection, err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.dimensions,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", s.collection, err)
	}

	wait := true
	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collection,
		FieldName:      termKey,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", termKey, err)
	}
	return nil
}

// Upsert writes one point per concept, keyed by the document's UUID.
func (s *Store) Upsert(ctx context.Context, vectors [][]float32, docs []knowledge.Document) error {
	if len(vectors) != len(docs) {
		return fmt.Errorf("got %d vectors for %d concepts", len(vectors), len(docs))
	}

	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		if uint64(len(vectors[i])) != s.dimensions {
			return fmt.Errorf("concept %s: vector has %d dimensions, collection expects %d", doc.ID, len(vectors[i]), s.dimensions)
		}
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(doc.ID),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				lineKey: doc.Content,
				termKey: term(doc),
			}),
		}
	}

	wait := true
	if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
		Wait:           &wait,
	}); err != nil {
		return fmt.Errorf("failed to upsert concepts: %w", err)
	}
	return nil
}

// Search returns the concepts nearest to query, best first.
func (s *Store) Search(ctx context.Context, query []float32, limit int) ([]knowledge.Document, error) {
	n := uint64(limit)
	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          &n,
		WithPayload:    qdrant.NewWithPayloadInclude(lineKey, termKey),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query concepts: %w", err)
	}

	docs := make([]knowledge.Document, 0, len(hits))
	for _, hit := range hits {
		line := hit.Payload[lineKey].GetStringValue()
		if line == "" {
			continue
		}
		docs = append(docs, knowledge.Document{
			ID:       hit.Id.GetUuid(),
			Content:  line,
			Metadata: map[string]any{termKey: hit.Payload[termKey].GetStringValue()},
			Score:    hit.Score,
		})
	}
	return docs, nil
}

// Prune deletes the concepts whose term is not listed.
func (s *Store) Prune(ctx context.Context, terms []string) error {
	if len(terms) == 0 {
		return nil
	}
	wait := true
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			MustNot: []*qdrant.Condition{qdrant.NewMatchKeywords(termKey, terms...)},
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to prune concepts: %w", err)
	}
	return nil
}

// Close releases the gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// term falls back to the document id so every point can be matched by the prune filter.
func term(doc knowledge.Document) string {
	if t, ok := doc.Metadata[termKey].(string); ok && t != "" {
		return t
	}
	return doc.ID
}
