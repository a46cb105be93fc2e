package engine

import "github.com/nexacred/ragengine/internal/conversation"

// Source points at one retrieved document, numbered the way the prompt
// cites them.
type Source struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
	Title string  `json:"title"`
	ID    string  `json:"id"`
}

// QueryResult is the full outcome of one pipeline pass. Error, when
// set, is observability metadata; Response is always user-presentable.
type QueryResult struct {
	Response                string                  `json:"response"`
	SessionID               string                  `json:"session_id"`
	RetrievedDocuments      int                     `json:"retrieved_documents"`
	ContextUsed             bool                    `json:"context_used"`
	ConversationContextUsed bool                    `json:"conversation_context_used"`
	Sources                 []Source                `json:"sources"`
	ContextIndicators       conversation.Indicators `json:"context_indicators"`
	ServiceType             string                  `json:"service_type"`
	Error                   string                  `json:"error,omitempty"`
}
