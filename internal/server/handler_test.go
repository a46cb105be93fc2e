package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexacred/ragengine/internal/engine"
)

type stubPipeline struct {
	result   engine.QueryResult
	health   map[string]bool
	lastText string
	lastSess string
	lastUser string
}

func (s *stubPipeline) ProcessQuery(_ context.Context, sessionID, userID, text string) engine.QueryResult {
	s.lastSess, s.lastUser, s.lastText = sessionID, userID, text
	return s.result
}

func (s *stubPipeline) Health(context.Context) map[string]bool { return s.health }

func (s *stubPipeline) Status() map[string]any {
	return map[string]any{"service_tier": "full", "uptime_seconds": 1}
}

func newTestServer(p Pipeline) *echo.Echo {
	e := echo.New()
	NewHandler(p).RegisterRoutes(e)
	return e
}

func TestChat(t *testing.T) {
	stub := &stubPipeline{result: engine.QueryResult{
		Response:  "Hello! How can I help you today?",
		SessionID: "abc-123",
	}}
	e := newTestServer(stub)

	body := `{"text":"Hello","session_id":"abc-123","user_id":"alice"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello", stub.lastText)
	assert.Equal(t, "abc-123", stub.lastSess)
	assert.Equal(t, "alice", stub.lastUser)

	var res engine.QueryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Hello! How can I help you today?", res.Response)
	assert.Equal(t, "abc-123", res.SessionID)
}

func TestChatBadBody(t *testing.T) {
	e := newTestServer(&stubPipeline{})

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthHealthy(t *testing.T) {
	stub := &stubPipeline{health: map[string]bool{"embedder": true, "store": true, "generation": true}}
	e := newTestServer(stub)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestHealthDegraded(t *testing.T) {
	stub := &stubPipeline{health: map[string]bool{"embedder": true, "store": false, "generation": true}}
	e := newTestServer(stub)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
}

func TestStatus(t *testing.T) {
	e := newTestServer(&stubPipeline{})

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "full", body["service_tier"])
}
