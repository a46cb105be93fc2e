package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  host: 0.0.0.0
  port: "9000"
embedding:
  base_url: http://localhost:11434/v1
  model: all-minilm
  dimension: 384
vector_store:
  base_url: http://localhost:6333
  timeout: 2s
generation:
  base_url: https://api.example.com/v1
  api_key: dummy
  model: granite-3.0-2b-instruct
  temperature: 0.2
conversation:
  max_history: 4
  min_word_overlap: 3
`

func writeConfig(t *testing.T, body string) {
	t.Helper()
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	require.NoError(t, err)
	_, err = tmp.WriteString(body)
	require.NoError(t, err)
	require.NoError(t, tmp.Close())
	t.Setenv("CONFIG_PATH", tmp.Name())
}

func TestLoad(t *testing.T) {
	writeConfig(t, sampleConfig)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "9000", cfg.Server.Port)
	require.Equal(t, "http://localhost:6333", cfg.VectorStore.BaseURL)
	require.Equal(t, "granite-3.0-2b-instruct", cfg.Generation.Model)
	require.Equal(t, float32(0.2), cfg.Generation.Temperature)
	require.Equal(t, 4, cfg.Conversation.MaxHistory)
	require.Equal(t, 3, cfg.Conversation.MinWordOverlap)
}

func TestLoad_Defaults(t *testing.T) {
	writeConfig(t, sampleConfig)

	cfg, err := Load()
	require.NoError(t, err)

	// Fields absent from the file keep their defaults.
	require.Equal(t, 512, cfg.Generation.MaxTokens)
	require.Equal(t, 5, cfg.Retrieval.TopK)
	require.Equal(t, 0.3, cfg.Retrieval.SimilarityThreshold)
	require.Equal(t, 2000, cfg.Conversation.MaxContextLength)
	require.Equal(t, 4, cfg.Conversation.MinQueryTokens)
	require.Equal(t, 3, cfg.Prompt.MaxDocuments)
	require.Equal(t, 800, cfg.Prompt.DocCharLimit)
}

func TestValidate(t *testing.T) {
	writeConfig(t, sampleConfig)
	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	cfg.VectorStore.BaseURL = ""
	cfg.Generation.Model = ""
	err = cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "vector_store.base_url")
	require.Contains(t, err.Error(), "generation.model")
}
