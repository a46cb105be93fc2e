// Package engine orchestrates one pipeline pass per query: gate,
// embed, retrieve, assemble, generate, record. ProcessQuery never
// propagates a failure to the caller; every outcome is a presentable
// QueryResult.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nexacred/ragengine/internal/config"
	"github.com/nexacred/ragengine/internal/conversation"
	"github.com/nexacred/ragengine/internal/generation"
	"github.com/nexacred/ragengine/internal/logger"
	"github.com/nexacred/ragengine/internal/prompt"
	"github.com/nexacred/ragengine/internal/retrieval"
)

const errorReply = "I apologize, but I encountered an issue while processing your question. Please try again."

// Embedder is the slice of the embedding client the engine needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	HealthCheck(ctx context.Context) error
}

// DocumentRetriever runs the retrieval ladder.
type DocumentRetriever interface {
	Retrieve(ctx context.Context, q retrieval.Query) []retrieval.Document
	Ping(ctx context.Context) error
}

type Engine struct {
	gate      *retrieval.Gate
	embedder  Embedder
	retriever DocumentRetriever
	store     *conversation.Store
	builder   *prompt.Builder
	selector  *generation.Selector

	params          generation.Params
	recentExchanges int
	started         time.Time
}

func New(cfg *config.Config, embedder Embedder, retriever DocumentRetriever, store *conversation.Store, selector *generation.Selector) *Engine {
	return &Engine{
		gate:      retrieval.NewGate(cfg.Gate),
		embedder:  embedder,
		retriever: retriever,
		store:     store,
		builder:   prompt.NewBuilder(cfg.Prompt),
		selector:  selector,
		params: generation.Params{
			MaxTokens:         cfg.Generation.MaxTokens,
			Temperature:       cfg.Generation.Temperature,
			TopP:              cfg.Generation.TopP,
			TopK:              cfg.Generation.TopK,
			RepetitionPenalty: cfg.Generation.RepetitionPenalty,
			Stop:              cfg.Generation.Stop,
		},
		recentExchanges: cfg.Prompt.RecentExchanges,
		started:         time.Now(),
	}
}

// ProcessQuery runs one query through the pipeline. It never returns
// an error: failures degrade the result and populate its Error field.
func (e *Engine) ProcessQuery(ctx context.Context, sessionID, userID, text string) (result QueryResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.L.Error("pipeline panic recovered", "session_id", sessionID, "panic", r)
			result = QueryResult{
				Response:    errorReply,
				SessionID:   sessionID,
				ServiceType: string(e.selector.Tier()),
				Error:       fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	text = strings.TrimSpace(text)
	if text == "" {
		return QueryResult{
			Response:    "I didn't receive a question. Please type what you'd like to know.",
			SessionID:   sessionID,
			ServiceType: string(e.selector.Tier()),
			Error:       "empty query",
		}
	}
	if userID == "" {
		userID = "anonymous"
	}

	var storeErr string
	if sessionID == "" {
		id, err := e.store.Create(userID)
		if err != nil {
			logger.L.Warn("session create failed, continuing without persistence", "error", err)
			storeErr = fmt.Sprintf("create session: %v", err)
		}
		sessionID = id
	}

	indicators := e.store.Indicators(text)
	convo := e.conversationContext(sessionID, text, indicators)

	var docs []retrieval.Document
	if e.gate.ShouldRetrieve(text) {
		vector, err := e.embedder.Embed(ctx, text)
		if err != nil {
			logger.L.Warn("query embedding failed, skipping vector stage", "error", err)
			vector = nil
		}
		docs = e.retriever.Retrieve(ctx, retrieval.Query{Text: text, Vector: vector})
	}

	assembled := e.builder.Build(text, convo, docs)
	response, tier := e.selector.Generate(ctx, assembled, text, e.params)

	if sessionID != "" {
		meta := map[string]any{
			"service_type":        string(tier),
			"retrieved_documents": len(docs),
			"context_used":        len(docs) > 0,
			"context_indicators":  indicators,
		}
		if err := e.store.Append(sessionID, conversation.RoleUser, text, nil); err != nil {
			logger.L.Warn("recording user message failed", "session_id", sessionID, "error", err)
			storeErr = fmt.Sprintf("record exchange: %v", err)
		} else if err := e.store.Append(sessionID, conversation.RoleAssistant, response, meta); err != nil {
			logger.L.Warn("recording assistant message failed", "session_id", sessionID, "error", err)
			storeErr = fmt.Sprintf("record exchange: %v", err)
		}
	}

	return QueryResult{
		Response:                response,
		SessionID:               sessionID,
		RetrievedDocuments:      len(docs),
		ContextUsed:             len(docs) > 0,
		ConversationContextUsed: convo != "",
		Sources:                 sources(docs),
		ContextIndicators:       indicators,
		ServiceType:             string(tier),
		Error:                   storeErr,
	}
}

// conversationContext picks related history when the query leans on it
// (pronouns, references, follow-up phrasing) and a plain recency
// window otherwise.
func (e *Engine) conversationContext(sessionID, text string, ind conversation.Indicators) string {
	if sessionID == "" {
		return ""
	}
	if ind.HasPronouns || ind.HasReferences || ind.HasFollowUps {
		if related := e.store.RelatedContext(sessionID, text); related != "" {
			return related
		}
	}
	return e.store.RecentContext(sessionID, e.recentExchanges)
}

func sources(docs []retrieval.Document) []Source {
	out := make([]Source, 0, len(docs))
	for i, d := range docs {
		out = append(out, Source{Index: i + 1, Score: d.Score, Title: d.Title(), ID: d.ID})
	}
	return out
}
