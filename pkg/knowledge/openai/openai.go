// Package openai embeds concept lines and user questions with the OpenAI embeddings API.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Dimensions is the vector width requested from the model. Concept stores are
// created with the same width.
const Dimensions = 1536

// Embedder implements knowledge.Embedder.
type Embedder struct {
	client     openai.Client
	model      openai.EmbeddingModel
	dimensions int64
}

// NewEmbedder creates an Embedder for text-embedding-3-small at Dimensions.
func NewEmbedder(opts ...option.RequestOption) *Embedder {
	return &Embedder{
		client:     openai.NewClient(opts...),
		model:      openai.EmbeddingModelTextEmbedding3Small,
		dimensions: Dimensions,
	}
}

// SetModel switches the embedding model and the width it is asked to return.
func (e *Embedder) SetModel(model openai.EmbeddingModel, dimensions int64) {
	e.model = model
	e.dimensions = dimensions
}

// Embed returns one vector per text, in input order. Blank texts are rejected
// since they would all land on the same point.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			return nil, fmt.Errorf("text %d is blank", i)
		}
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:      e.model,
		Dimensions: openai.Int(e.dimensions),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("got %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(out) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		if int64(len(d.Embedding)) != e.dimensions {
			return nil, fmt.Errorf("embedding %d has %d dimensions, want %d", d.Index, len(d.Embedding), e.dimensions)
		}
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		out[d.Index] = vec
	}
	return out, nil
}
