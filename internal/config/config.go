// Package config loads the pipeline configuration from YAML with sensible
// defaults. Presence of the API key in the configured env var is the single
// switch between the remote (OpenAI) and local (TF-IDF, heuristic)
// strategies; everything else only tunes paths and models.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds shared settings for the OpenAI-compatible clients.
type OpenAIConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	LLMModel       string `yaml:"llm_model"`
	EmbeddingModel string `yaml:"embedding_model"`
	TimeoutSecs    int    `yaml:"timeout_secs"`
}

// PathsConfig holds the filesystem layout of the knowledge base, price
// catalog and results.
type PathsConfig struct {
	KBDir      string `yaml:"kb_dir"`
	PricesCSV  string `yaml:"prices_csv"`
	ResultsDir string `yaml:"results_dir"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Watch bool   `yaml:"watch"`
}

// QualityWeights is the scoring policy for the offline quality report.
type QualityWeights struct {
	Relevance float64 `yaml:"relevance"`
	Tool      float64 `yaml:"tool"`
	KB        float64 `yaml:"kb"`
}

// Config is the root configuration.
type Config struct {
	Debug         bool           `yaml:"debug"`
	PromptVersion string         `yaml:"prompt_version"`
	TopK          int            `yaml:"top_k"`
	OpenAI        OpenAIConfig   `yaml:"openai"`
	Paths         PathsConfig    `yaml:"paths"`
	Server        ServerConfig   `yaml:"server"`
	Quality       QualityWeights `yaml:"quality"`
}

// Load reads a config from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// APIKey resolves the credential from the configured env var. Empty means
// no remote capability: the local strategies are used everywhere.
func (c *Config) APIKey() string {
	return os.Getenv(c.OpenAI.APIKeyEnv)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PromptVersion: "v1",
		TopK:          4,
		OpenAI: OpenAIConfig{
			APIKeyEnv:      "OPENAI_API_KEY",
			LLMModel:       "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
			TimeoutSecs:    30,
		},
		Paths: PathsConfig{
			KBDir:      "data/kb",
			PricesCSV:  "data/prices.csv",
			ResultsDir: "results",
		},
		Server: ServerConfig{Host: "127.0.0.1", Port: 8080, Watch: true},
		Quality: QualityWeights{
			Relevance: 0.4,
			Tool:      0.3,
			KB:        0.3,
		},
	}
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.PromptVersion == "" {
		cfg.PromptVersion = def.PromptVersion
	}
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.OpenAI.APIKeyEnv == "" {
		cfg.OpenAI.APIKeyEnv = def.OpenAI.APIKeyEnv
	}
	if cfg.OpenAI.LLMModel == "" {
		cfg.OpenAI.LLMModel = def.OpenAI.LLMModel
	}
	if cfg.OpenAI.EmbeddingModel == "" {
		cfg.OpenAI.EmbeddingModel = def.OpenAI.EmbeddingModel
	}
	if cfg.OpenAI.TimeoutSecs <= 0 {
		cfg.OpenAI.TimeoutSecs = def.OpenAI.TimeoutSecs
	}
	if cfg.Paths.KBDir == "" {
		cfg.Paths.KBDir = def.Paths.KBDir
	}
	if cfg.Paths.PricesCSV == "" {
		cfg.Paths.PricesCSV = def.Paths.PricesCSV
	}
	if cfg.Paths.ResultsDir == "" {
		cfg.Paths.ResultsDir = def.Paths.ResultsDir
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = def.Server.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Quality.Relevance == 0 && cfg.Quality.Tool == 0 && cfg.Quality.KB == 0 {
		cfg.Quality = def.Quality
	}
}
