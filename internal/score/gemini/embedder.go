// Package gemini implements text embedding over the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "text-embedding-004"

// maxEmbedInputBytes keeps requests under the embedding model's input cap.
const maxEmbedInputBytes = 40000

// Embedder produces embedding vectors via the Gemini API.
type Embedder struct {
	client    *genai.Client
	modelName string
}

// New creates an Embedder configured for the Gemini API backend.
func New(ctx context.Context, apiKey, model string) (*Embedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	return &Embedder{client: client, modelName: model}, nil
}

// Embed returns the embedding vector for text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e == nil || e.client == nil {
		return nil, errors.New("gemini embedder is not initialized")
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("text must not be empty")
	}
	if len(text) > maxEmbedInputBytes {
		text = text[:maxEmbedInputBytes]
	}

	result, err := e.client.Models.EmbedContent(ctx, e.modelName, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("generate embedding: %w", err)
	}
	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, errors.New("empty embedding result")
	}
	return result.Embeddings[0].Values, nil
}

// Model returns the embedding model in use.
func (e *Embedder) Model() string {
	if e == nil {
		return ""
	}
	return e.modelName
}
