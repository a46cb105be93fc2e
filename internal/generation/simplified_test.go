package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplifiedKnowledgeMatch(t *testing.T) {
	g := NewSimplifiedGenerator()

	out, err := g.Generate(context.Background(), "How is my credit score calculated?", Params{})
	require.NoError(t, err)
	assert.Contains(t, out, "creditworthiness")
	assert.True(t, g.Knows(out))
}

func TestSimplifiedPrefersLongerKeyMatch(t *testing.T) {
	g := NewSimplifiedGenerator()

	// Both "lending" and "lending decision" match; two keyword hits win.
	out, err := g.Generate(context.Background(), "What goes into a lending decision?", Params{})
	require.NoError(t, err)
	assert.Contains(t, out, "debt-to-income ratio")
}

func TestSimplifiedGreetingRotation(t *testing.T) {
	g := NewSimplifiedGenerator()

	seen := make(map[string]bool)
	for i := 0; i < len(greetingResponses); i++ {
		out, err := g.Generate(context.Background(), "hello", Params{})
		require.NoError(t, err)
		assert.False(t, g.Knows(out))
		seen[out] = true
	}
	assert.Len(t, seen, len(greetingResponses))
}

func TestSimplifiedGreetingNeedsWholeWord(t *testing.T) {
	g := NewSimplifiedGenerator()

	// "hi" must not fire inside "this".
	out, err := g.Generate(context.Background(), "explain this blockchain ledger", Params{})
	require.NoError(t, err)
	assert.Contains(t, out, "decentralized ledger")
}

func TestSimplifiedMultiWordGreeting(t *testing.T) {
	g := NewSimplifiedGenerator()

	out, err := g.Generate(context.Background(), "good morning to you", Params{})
	require.NoError(t, err)
	assert.Contains(t, greetingResponses, out)
}

func TestSimplifiedDefaultRotation(t *testing.T) {
	g := NewSimplifiedGenerator()

	first, err := g.Generate(context.Background(), "tell me about quantum physics", Params{})
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), "tell me about quantum physics", Params{})
	require.NoError(t, err)

	assert.Contains(t, defaultResponses, first)
	assert.Contains(t, defaultResponses, second)
	assert.NotEqual(t, first, second)
	assert.False(t, g.Knows(first))
}
