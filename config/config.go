// Package config loads and saves the application configuration as YAML.
// Missing files yield defaults; missing fields are backfilled so partial
// configs stay valid across releases.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AIConfig holds embedding and generation backend settings.
type AIConfig struct {
	EmbeddingHost   string `yaml:"embedding_host"`
	GenerationHost  string `yaml:"generation_host"`
	EmbeddingModel  string `yaml:"embedding_model"`
	GenerationModel string `yaml:"generation_model"`
	TimeoutSecs     int    `yaml:"timeout_secs"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	MaxTokens        int `yaml:"max_tokens"`
	OverlapSentences int `yaml:"overlap_sentences"`
}

// AskConfig configures retrieval and prompt assembly.
type AskConfig struct {
	TopK         int `yaml:"top_k"`
	MaxTurns     int `yaml:"max_turns"`
	TokenBudget  int `yaml:"token_budget"`
	SafetyMargin int `yaml:"safety_margin"`
}

// IngestConfig configures the ingestion queue.
type IngestConfig struct {
	QueueSize   int `yaml:"queue_size"`
	Workers     int `yaml:"workers"` // 0 selects a CPU-based default
	MaxAttempts int `yaml:"max_attempts"`
	BackoffSecs int `yaml:"backoff_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	StorePath string        `yaml:"store_path"`
	AI        AIConfig      `yaml:"ai"`
	Chunker   ChunkerConfig `yaml:"chunker"`
	Ask       AskConfig     `yaml:"ask"`
	Ingest    IngestConfig  `yaml:"ingest"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		StorePath: "recall-data",
		AI: AIConfig{
			EmbeddingHost:   "http://localhost:11434/v1",
			GenerationHost:  "http://localhost:11434/v1",
			EmbeddingModel:  "embeddinggemma",
			GenerationModel: "qwen2.5:3b",
			TimeoutSecs:     60,
		},
		Chunker: ChunkerConfig{
			MaxTokens:        500,
			OverlapSentences: 2,
		},
		Ask: AskConfig{
			TopK:         3,
			MaxTurns:     5,
			TokenBudget:  3000,
			SafetyMargin: 200,
		},
		Ingest: IngestConfig{
			QueueSize:   64,
			Workers:     0,
			MaxAttempts: 2,
			BackoffSecs: 10,
		},
	}
}

// Load reads a config from path. If the file does not exist, returns
// defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// applyDefaults backfills zero-valued fields with defaults so a partial
// config file stays usable.
func applyDefaults(cfg *AppConfig) {
	def := DefaultConfig()

	if cfg.StorePath == "" {
		cfg.StorePath = def.StorePath
	}
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = def.AI.EmbeddingHost
	}
	if cfg.AI.GenerationHost == "" {
		cfg.AI.GenerationHost = def.AI.GenerationHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = def.AI.EmbeddingModel
	}
	if cfg.AI.GenerationModel == "" {
		cfg.AI.GenerationModel = def.AI.GenerationModel
	}
	if cfg.AI.TimeoutSecs == 0 {
		cfg.AI.TimeoutSecs = def.AI.TimeoutSecs
	}
	if cfg.Chunker.MaxTokens == 0 {
		cfg.Chunker.MaxTokens = def.Chunker.MaxTokens
	}
	if cfg.Ask.TopK == 0 {
		cfg.Ask.TopK = def.Ask.TopK
	}
	if cfg.Ask.MaxTurns == 0 {
		cfg.Ask.MaxTurns = def.Ask.MaxTurns
	}
	if cfg.Ask.TokenBudget == 0 {
		cfg.Ask.TokenBudget = def.Ask.TokenBudget
	}
	if cfg.Ingest.QueueSize == 0 {
		cfg.Ingest.QueueSize = def.Ingest.QueueSize
	}
	if cfg.Ingest.MaxAttempts == 0 {
		cfg.Ingest.MaxAttempts = def.Ingest.MaxAttempts
	}
	if cfg.Ingest.BackoffSecs == 0 {
		cfg.Ingest.BackoffSecs = def.Ingest.BackoffSecs
	}
}
