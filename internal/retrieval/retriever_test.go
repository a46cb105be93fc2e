package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexacred/ragengine/internal/config"
)

// mockVectorStore mirrors the VectorStore interface with overridable
// function fields; nil fields behave as an unreachable store.
type mockVectorStore struct {
	SearchFunc     func(ctx context.Context, vector []float32, k int) ([]Document, error)
	TextSearchFunc func(ctx context.Context, query string, k int) ([]Document, error)
	SampleFunc     func(ctx context.Context, k int) ([]Document, error)
	PingFunc       func(ctx context.Context) error
}

var errUnreachable = errors.New("store unreachable")

func (m *mockVectorStore) Search(ctx context.Context, vector []float32, k int) ([]Document, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, vector, k)
	}
	return nil, errUnreachable
}

func (m *mockVectorStore) TextSearch(ctx context.Context, query string, k int) ([]Document, error) {
	if m.TextSearchFunc != nil {
		return m.TextSearchFunc(ctx, query, k)
	}
	return nil, errUnreachable
}

func (m *mockVectorStore) Sample(ctx context.Context, k int) ([]Document, error) {
	if m.SampleFunc != nil {
		return m.SampleFunc(ctx, k)
	}
	return nil, errUnreachable
}

func (m *mockVectorStore) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return errUnreachable
}

func testRetrievalConfig() config.RetrievalConfig {
	return config.RetrievalConfig{TopK: 2, SimilarityThreshold: 0.3}
}

func TestVectorStageFiltersAndRanks(t *testing.T) {
	store := &mockVectorStore{
		SearchFunc: func(ctx context.Context, vector []float32, k int) ([]Document, error) {
			require.Equal(t, 6, k, "vector stage requests topK*3 candidates")
			return []Document{
				{ID: "a", Score: 0.9},
				{ID: "b", Score: 0.5},
				{ID: "c", Score: 0.2}, // below threshold
				{ID: "d", Score: 0.4},
			}, nil
		},
	}
	r := NewRetriever(store, testRetrievalConfig())

	docs := r.Retrieve(context.Background(), Query{Text: "q", Vector: []float32{0.1}})
	require.Len(t, docs, 2)
	require.Equal(t, "a", docs[0].ID)
	require.Equal(t, "b", docs[1].ID)
}

func TestVectorStageSkippedWithoutVector(t *testing.T) {
	searched := false
	store := &mockVectorStore{
		SearchFunc: func(ctx context.Context, vector []float32, k int) ([]Document, error) {
			searched = true
			return []Document{{ID: "a", Score: 0.9}}, nil
		},
		TextSearchFunc: func(ctx context.Context, query string, k int) ([]Document, error) {
			return []Document{{ID: "t", Score: 0.7}}, nil
		},
	}
	r := NewRetriever(store, testRetrievalConfig())

	docs := r.Retrieve(context.Background(), Query{Text: "q"})
	require.False(t, searched)
	require.Equal(t, "t", docs[0].ID)
}

func TestTextFallbackOnVectorFailure(t *testing.T) {
	store := &mockVectorStore{
		TextSearchFunc: func(ctx context.Context, query string, k int) ([]Document, error) {
			return []Document{{ID: "text-hit", Score: 0.6}}, nil
		},
	}
	r := NewRetriever(store, testRetrievalConfig())

	docs := r.Retrieve(context.Background(), Query{Text: "q", Vector: []float32{0.1}})
	require.Len(t, docs, 1)
	require.Equal(t, "text-hit", docs[0].ID)
}

func TestSampleFallbackScoresNeutral(t *testing.T) {
	store := &mockVectorStore{
		SampleFunc: func(ctx context.Context, k int) ([]Document, error) {
			return []Document{{ID: "s1", Score: 0.99}, {ID: "s2"}}, nil
		},
	}
	r := NewRetriever(store, testRetrievalConfig())

	docs := r.Retrieve(context.Background(), Query{Text: "q", Vector: []float32{0.1}})
	require.Len(t, docs, 2)
	for _, d := range docs {
		require.Equal(t, 0.5, d.Score)
	}
}

func TestStaticCorpusOnTotalOutage(t *testing.T) {
	r := NewRetriever(&mockVectorStore{}, testRetrievalConfig())

	docs := r.Retrieve(context.Background(), Query{Text: "q", Vector: []float32{0.1}})
	require.Len(t, docs, 5)
	require.Equal(t, "rbi_guidelines_2024", docs[0].ID)
}

func TestLadderDeterminism(t *testing.T) {
	store := &mockVectorStore{
		TextSearchFunc: func(ctx context.Context, query string, k int) ([]Document, error) {
			return []Document{{ID: "t1", Score: 0.7}, {ID: "t2", Score: 0.4}}, nil
		},
	}
	r := NewRetriever(store, testRetrievalConfig())

	q := Query{Text: "q", Vector: []float32{0.1}}
	first := r.Retrieve(context.Background(), q)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, r.Retrieve(context.Background(), q))
	}
}

func TestEmptyVectorResultsFallThrough(t *testing.T) {
	store := &mockVectorStore{
		SearchFunc: func(ctx context.Context, vector []float32, k int) ([]Document, error) {
			return nil, nil // reachable but empty
		},
		TextSearchFunc: func(ctx context.Context, query string, k int) ([]Document, error) {
			return []Document{{ID: "t", Score: 0.5}}, nil
		},
	}
	r := NewRetriever(store, testRetrievalConfig())

	docs := r.Retrieve(context.Background(), Query{Text: "q", Vector: []float32{0.1}})
	require.Equal(t, "t", docs[0].ID)
}

func TestDocumentTitle(t *testing.T) {
	require.Equal(t, "doc-1", Document{ID: "doc-1"}.Title())
	require.Equal(t, "A Title", Document{ID: "doc-1", Metadata: map[string]any{"title": "A Title"}}.Title())
}
