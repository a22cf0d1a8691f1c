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

	assert.Equal(t, "content", cfg.ContentDir)
	assert.Equal(t, 1000, cfg.Chunk.Size)
	require.NotNil(t, cfg.Chunk.Overlap)
	assert.Equal(t, 200, *cfg.Chunk.Overlap)
	assert.Equal(t, "localhost", cfg.Qdrant.Host)
	assert.Equal(t, 6334, cfg.Qdrant.Port)
	assert.Equal(t, "r_knowledge_base", cfg.Qdrant.Collection)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, 3000, cfg.Retrieval.TokenBudget)
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "chunk:\n  size: 400\n  overlap: 50\nqdrant:\n  collection: pkgdown_docs\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 400, cfg.Chunk.Size)
	require.NotNil(t, cfg.Chunk.Overlap)
	assert.Equal(t, 50, *cfg.Chunk.Overlap)
	assert.Equal(t, "pkgdown_docs", cfg.Qdrant.Collection)
	// Everything not in the file keeps its default.
	assert.Equal(t, "localhost", cfg.Qdrant.Host)
	assert.Equal(t, "gpt-4o", cfg.Chat.Model)
}

func TestLoadExplicitZeroOverlap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "chunk:\n  size: 400\n  overlap: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Chunk.Overlap)
	assert.Equal(t, 0, *cfg.Chunk.Overlap, "an explicit zero overlap is kept, not promoted to the default")
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunk: [not: a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesQdrantEndpoint(t *testing.T) {
	t.Setenv("QDRANT_HOST", "qdrant.internal")
	t.Setenv("QDRANT_PORT", "7334")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "qdrant.internal", cfg.Qdrant.Host)
	assert.Equal(t, 7334, cfg.Qdrant.Port)
}
