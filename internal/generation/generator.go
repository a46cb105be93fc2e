// Package generation invokes a text-generation backend and degrades
// through simpler substitutes when it fails. Demotion is sticky: a tier
// lost within a process lifetime is never regained.
package generation

import "context"

// Params are the generation parameters handed to a backend. Backends
// map what their wire protocol supports and ignore the rest.
type Params struct {
	MaxTokens         int
	Temperature       float32
	TopP              float32
	TopK              int
	RepetitionPenalty float32
	Stop              []string
}

// Generator produces text for a prompt. Implementations may fail; the
// Selector decides what that failure costs.
type Generator interface {
	Generate(ctx context.Context, prompt string, p Params) (string, error)
	Name() string
}
