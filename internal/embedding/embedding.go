// Package embedding turns text into normalized dense vectors via an
// OpenAI-compatible embeddings endpoint.
package embedding

import "context"

// Embedder generates vector embeddings for text. Vectors are
// L2-normalized and have a fixed dimension.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// HealthChecker is implemented by embedders that can probe their
// backing service.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
