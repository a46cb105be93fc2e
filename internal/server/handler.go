// Package server exposes the engine over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nexacred/ragengine/internal/engine"
)

// Pipeline is the engine surface the HTTP layer needs.
type Pipeline interface {
	ProcessQuery(ctx context.Context, sessionID, userID, text string) engine.QueryResult
	Health(ctx context.Context) map[string]bool
	Status() map[string]any
}

type Handler struct {
	pipeline Pipeline
}

func NewHandler(p Pipeline) *Handler {
	return &Handler{pipeline: p}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat", h.Chat)
	e.GET("/health", h.Health)
	e.GET("/status", h.Status)
}

type chatRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

// Chat runs one query through the pipeline. The pipeline never fails,
// so every well-formed request gets a 200 with a presentable response.
func (h *Handler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	res := h.pipeline.ProcessQuery(c.Request().Context(), req.SessionID, req.UserID, req.Text)
	return c.JSON(http.StatusOK, res)
}

// Health reports per-component reachability. Any unhealthy component
// turns the overall status to 503 so load balancers can react.
func (h *Handler) Health(c echo.Context) error {
	components := h.pipeline.Health(c.Request().Context())
	status := http.StatusOK
	overall := "healthy"
	for _, ok := range components {
		if !ok {
			status = http.StatusServiceUnavailable
			overall = "degraded"
			break
		}
	}
	return c.JSON(status, map[string]any{
		"status":     overall,
		"components": components,
	})
}

func (h *Handler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.pipeline.Status())
}
