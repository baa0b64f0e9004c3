package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.StorePath = "/var/lib/recall"
	cfg.Ask.TopK = 7
	cfg.Chunker.MaxTokens = 256
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadBackfillsPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "ask:\n  top_k: 9\n"
	require.NoError(t, os.WriteFile(path, []byte(partial), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Ask.TopK)
	assert.Equal(t, DefaultConfig().AI.EmbeddingModel, cfg.AI.EmbeddingModel)
	assert.Equal(t, DefaultConfig().Chunker.MaxTokens, cfg.Chunker.MaxTokens)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ask: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
