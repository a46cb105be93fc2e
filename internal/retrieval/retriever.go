package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/nexacred/ragengine/internal/config"
	"github.com/nexacred/ragengine/internal/logger"
)

// Query carries both representations of the user's question. Vector may
// be nil when embedding failed; the vector stage then reports itself
// unavailable and the ladder moves on.
type Query struct {
	Text   string
	Vector []float32
}

// strategy is one rung of the fallback ladder.
type strategy struct {
	name string
	run  func(ctx context.Context, q Query) ([]Document, error)
}

// Retriever walks an ordered list of strategies until one yields a
// non-empty result. Every stage's error is caught and logged; only a
// fully exhausted ladder returns an empty set, and that is not an
// error condition.
type Retriever struct {
	store      VectorStore
	topK       int
	threshold  float64
	strategies []strategy
}

// NewRetriever builds the standard four-rung ladder: vector search,
// text search, unfiltered sample, built-in corpus.
func NewRetriever(store VectorStore, cfg config.RetrievalConfig) *Retriever {
	r := &Retriever{store: store, topK: cfg.TopK, threshold: cfg.SimilarityThreshold}
	if r.topK <= 0 {
		r.topK = 5
	}
	r.strategies = []strategy{
		{name: "vector", run: r.vectorSearch},
		{name: "text", run: r.textSearch},
		{name: "sample", run: r.sample},
		{name: "static", run: r.static},
	}
	return r
}

// Retrieve runs the ladder, first non-empty result wins.
func (r *Retriever) Retrieve(ctx context.Context, q Query) []Document {
	for _, s := range r.strategies {
		docs, err := s.run(ctx, q)
		if err != nil {
			logger.L.Warn("retrieval strategy failed", "strategy", s.name, "error", err)
			continue
		}
		if len(docs) > 0 {
			logger.L.Info("retrieval strategy succeeded", "strategy", s.name, "documents", len(docs))
			return docs
		}
	}
	logger.L.Warn("retrieval ladder exhausted, no documents")
	return nil
}

// Ping reports whether the external store is reachable; used by the
// health surface.
func (r *Retriever) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// vectorSearch fetches topK*3 candidates, filters by the similarity
// threshold, and keeps the top topK.
func (r *Retriever) vectorSearch(ctx context.Context, q Query) ([]Document, error) {
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("no query vector available")
	}
	docs, err := r.store.Search(ctx, q.Vector, r.topK*3)
	if err != nil {
		return nil, err
	}
	filtered := docs[:0]
	for _, d := range docs {
		if d.Score >= r.threshold {
			filtered = append(filtered, d)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Score > filtered[j].Score })
	if len(filtered) > r.topK {
		filtered = filtered[:r.topK]
	}
	return filtered, nil
}

func (r *Retriever) textSearch(ctx context.Context, q Query) ([]Document, error) {
	return r.store.TextSearch(ctx, q.Text, r.topK)
}

// sample fetches any topK documents, scored neutrally.
func (r *Retriever) sample(ctx context.Context, q Query) ([]Document, error) {
	docs, err := r.store.Sample(ctx, r.topK)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i].Score = 0.5
	}
	return docs, nil
}

func (r *Retriever) static(ctx context.Context, q Query) ([]Document, error) {
	return BuiltinCorpus(), nil
}
