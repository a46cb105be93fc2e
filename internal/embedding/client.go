package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/nexacred/ragengine/internal/config"
)

// placeholderText substitutes blank or invalid batch inputs so a single
// bad item does not fail the whole request.
const placeholderText = "empty text"

// Client embeds text through any OpenAI-compatible embeddings endpoint.
type Client struct {
	api   *openai.Client
	model string
	dims  int
}

// NewClient creates an embedding client for the configured endpoint.
func NewClient(cfg config.EmbeddingConfig) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL

	return &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: cfg.Model,
		dims:  cfg.Dimension,
	}
}

// Embed generates a normalized embedding for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates normalized embeddings for multiple texts. Blank
// inputs are replaced by a placeholder rather than failing the batch.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to embed")
	}

	clean := make([]string, len(texts))
	for i, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			t = placeholderText
		}
		clean[i] = t
	}

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: clean,
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) != len(clean) {
		return nil, fmt.Errorf("embedding response has %d vectors for %d inputs", len(resp.Data), len(clean))
	}

	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = normalize(d.Embedding)
	}
	return out, nil
}

// Dimensions returns the configured embedding dimensionality.
func (c *Client) Dimensions() int {
	return c.dims
}

// HealthCheck embeds a short probe string to verify the service is
// reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	vec, err := c.Embed(ctx, "health check")
	if err != nil {
		return err
	}
	if len(vec) == 0 {
		return fmt.Errorf("embedding service returned an empty vector")
	}
	return nil
}

// normalize scales the vector to unit L2 norm. Zero vectors are
// returned unchanged.
func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
