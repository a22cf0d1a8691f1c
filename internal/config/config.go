package config

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ChunkConfig configures how corpus files are split into chunks. Overlap is
// a pointer so an explicit zero in the file is distinguishable from unset;
// zero overlap is a valid configuration.
type ChunkConfig struct {
	Size    int  `yaml:"size"`
	Overlap *int `yaml:"overlap"`
}

// QdrantConfig contains connection details for the Qdrant vector index.
type QdrantConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Collection string `yaml:"collection"`
}

// EmbeddingConfig configures the OpenAI embedding model.
type EmbeddingConfig struct {
	Model     string `yaml:"model"`
	BatchSize int    `yaml:"batch_size"`
}

// ChatConfig configures the answer generation model.
type ChatConfig struct {
	Model string `yaml:"model"`
}

// RetrievalConfig configures context retrieval for question answering.
type RetrievalConfig struct {
	TopK        int `yaml:"top_k"`
	TokenBudget int `yaml:"token_budget"`
	TimeoutSecs int `yaml:"timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	ContentDir string          `yaml:"content_dir"`
	Chunk      ChunkConfig     `yaml:"chunk"`
	Qdrant     QdrantConfig    `yaml:"qdrant"`
	Embedding  EmbeddingConfig `yaml:"embedding"`
	Chat       ChatConfig      `yaml:"chat"`
	Retrieval  RetrievalConfig `yaml:"retrieval"`
}

// Load reads a config from the specified path. If the file does not exist,
// defaults are returned. QDRANT_HOST and QDRANT_PORT environment variables
// override the file in either case, so containerized deployments can point
// at a different index without editing config.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.ContentDir == "" {
		cfg.ContentDir = "content"
	}
	if cfg.Chunk.Size == 0 {
		cfg.Chunk.Size = 1000
	}
	if cfg.Chunk.Overlap == nil {
		overlap := 200
		cfg.Chunk.Overlap = &overlap
	}
	if cfg.Qdrant.Host == "" {
		cfg.Qdrant.Host = "localhost"
	}
	if cfg.Qdrant.Port == 0 {
		cfg.Qdrant.Port = 6334
	}
	if cfg.Qdrant.Collection == "" {
		cfg.Qdrant.Collection = "r_knowledge_base"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 500
	}
	if cfg.Chat.Model == "" {
		cfg.Chat.Model = "gpt-4o"
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Retrieval.TokenBudget == 0 {
		cfg.Retrieval.TokenBudget = 3000
	}
	if cfg.Retrieval.TimeoutSecs == 0 {
		cfg.Retrieval.TimeoutSecs = 60
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if host := os.Getenv("QDRANT_HOST"); host != "" {
		cfg.Qdrant.Host = host
	}
	if portStr := os.Getenv("QDRANT_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Qdrant.Port = port
		}
	}
}
