package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/barekit/orbitai/pkg/knowledge"
)

// PostgresStore implements knowledge.VectorStore and knowledge.Pruner using pgvector.
type PostgresStore struct {
	db *gorm.DB
}

// ConceptModel represents the database schema for a concept document.
// The vector width matches text-embedding-3-small.
type ConceptModel struct {
	ID        string `gorm:"primaryKey"`
	Content   string
	Metadata  []byte          `gorm:"type:jsonb"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)"`
}

// TableName overrides the table name.
func (ConceptModel) TableName() string {
	return "concepts"
}

// New creates a new PostgresStore.
func New(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("failed to enable pgvector extension: %w", err)
	}

	if err := db.AutoMigrate(&ConceptModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, vectors [][]float32, documents []knowledge.Document) error {
	if len(vectors) != len(documents) {
		return fmt.Errorf("number of vectors and documents must match")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, doc := range documents {
			metadata, err := json.Marshal(doc.Metadata)
			if err != nil {
				return fmt.Errorf("failed to marshal metadata for %s: %w", doc.ID, err)
			}

			model := ConceptModel{
				ID:        doc.ID,
				Content:   doc.Content,
				Metadata:  metadata,
				Embedding: pgvector.NewVector(vectors[i]),
			}

			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"content", "metadata", "embedding"}),
			}).Create(&model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Search orders by cosine distance (pgvector's <=> operator), nearest first.
func (s *PostgresStore) Search(ctx context.Context, query []float32, limit int) ([]knowledge.Document, error) {
	var models []ConceptModel
	err := s.db.WithContext(ctx).
		Order(clause.Expr{SQL: "embedding <=> ?", Vars: []any{pgvector.NewVector(query)}}).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	docs := make([]knowledge.Document, len(models))
	for i, m := range models {
		var metadata map[string]any
		if len(m.Metadata) > 0 {
			if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata for %s: %w", m.ID, err)
			}
		}
		docs[i] = knowledge.Document{
			ID:       m.ID,
			Content:  m.Content,
			Metadata: metadata,
		}
	}

	return docs, nil
}

// Prune deletes the concepts whose term is not listed.
func (s *PostgresStore) Prune(ctx context.Context, terms []string) error {
	if len(terms) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("metadata->>? NOT IN ? OR metadata->>? IS NULL", knowledge.TermKey, terms, knowledge.TermKey).
		Delete(&ConceptModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to prune concepts: %w", err)
	}
	return nil
}
