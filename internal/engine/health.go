package engine

import (
	"context"
	"time"
)

// Health probes each external dependency. Probes are read-only and do
// not move the selector's tier.
func (e *Engine) Health(ctx context.Context) map[string]bool {
	return map[string]bool{
		"embedder":   e.embedder.HealthCheck(ctx) == nil,
		"store":      e.retriever.Ping(ctx) == nil,
		"generation": e.selector.HealthCheck(ctx),
	}
}

// Status reports uptime, the current service tier, and conversation
// store counters.
func (e *Engine) Status() map[string]any {
	return map[string]any{
		"uptime_seconds": int(time.Since(e.started).Seconds()),
		"service_tier":   string(e.selector.Tier()),
		"conversations":  e.store.Stats(),
	}
}
