package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nexacred/ragengine/internal/config"
	"github.com/nexacred/ragengine/internal/logger"
)

// VectorStore is the external vector-search service, opaque behind this
// contract. Search results come back ordered by descending score; the
// retriever applies its own similarity threshold afterwards.
type VectorStore interface {
	Search(ctx context.Context, vector []float32, k int) ([]Document, error)
	TextSearch(ctx context.Context, query string, k int) ([]Document, error)
	Sample(ctx context.Context, k int) ([]Document, error)
	Ping(ctx context.Context) error
}

// HTTPVectorStore talks JSON over HTTP to the vector-search service.
type HTTPVectorStore struct {
	baseURL        string
	client         *http.Client
	connectRetries int
}

// NewHTTPVectorStore creates a client for the configured service.
func NewHTTPVectorStore(cfg config.VectorStoreConfig) *HTTPVectorStore {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	retries := cfg.ConnectRetries
	if retries <= 0 {
		retries = 3
	}
	return &HTTPVectorStore{
		baseURL:        cfg.BaseURL,
		client:         &http.Client{Timeout: timeout},
		connectRetries: retries,
	}
}

// Connect pings the service with bounded exponential backoff. Only the
// initial connection retries; steady-state calls are single-shot so a
// flapping store cannot stall the pipeline.
func (s *HTTPVectorStore) Connect(ctx context.Context) error {
	var err error
	for attempt := 0; attempt < s.connectRetries; attempt++ {
		if err = s.Ping(ctx); err == nil {
			logger.L.Info("vector store connected", "url", s.baseURL)
			return nil
		}
		logger.L.Warn("vector store connection attempt failed",
			"attempt", attempt+1, "retries", s.connectRetries, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(1<<attempt) * time.Second):
		}
	}
	return fmt.Errorf("vector store unreachable after %d attempts: %w", s.connectRetries, err)
}

// Ping checks service health.
func (s *HTTPVectorStore) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vector store health returned status %d", resp.StatusCode)
	}
	return nil
}

type searchRequest struct {
	Vector []float32 `json:"vector"`
	K      int       `json:"k"`
}

type textSearchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type searchResponse struct {
	Documents []Document `json:"documents"`
}

// Search returns the top-k documents by vector similarity.
func (s *HTTPVectorStore) Search(ctx context.Context, vector []float32, k int) ([]Document, error) {
	return s.post(ctx, "/search", searchRequest{Vector: vector, K: k})
}

// TextSearch returns the top-k documents by text-index match.
func (s *HTTPVectorStore) TextSearch(ctx context.Context, query string, k int) ([]Document, error) {
	return s.post(ctx, "/text-search", textSearchRequest{Query: query, K: k})
}

// Sample fetches any k documents from the store.
func (s *HTTPVectorStore) Sample(ctx context.Context, k int) ([]Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/documents?limit=%d", s.baseURL, k), nil)
	if err != nil {
		return nil, err
	}
	return s.do(req)
}

func (s *HTTPVectorStore) post(ctx context.Context, path string, payload any) ([]Document, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *HTTPVectorStore) do(req *http.Request) ([]Document, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vector store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("vector store returned status %d: %s", resp.StatusCode, string(b))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode vector store response: %w", err)
	}
	return out.Documents, nil
}
