package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// GeneratorConfig configures the chat-completion service used for the final
// recommendation text. Temperature is a pointer so `temperature: 0` in the
// file stays 0 instead of being replaced by the default.
type GeneratorConfig struct {
	BaseURL     string   `yaml:"base_url"`
	APIKeyEnv   string   `yaml:"api_key_env"`
	Model       string   `yaml:"model"`
	Temperature *float32 `yaml:"temperature"`
	TimeoutSecs int      `yaml:"timeout_secs"`
}

// KnowledgeBaseConfig locates the product corpus.
type KnowledgeBaseConfig struct {
	Path      string `yaml:"path"`
	Delimiter string `yaml:"delimiter"`
}

// IndexConfig locates the persisted vector index artifact.
type IndexConfig struct {
	Path string `yaml:"path"`
}

// ProfilesConfig locates the processed customer dataset.
type ProfilesConfig struct {
	Path string `yaml:"path"`
}

// RetrievalConfig tunes the nearest-neighbor retrieval.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	KnowledgeBase KnowledgeBaseConfig `yaml:"knowledge_base"`
	Index         IndexConfig         `yaml:"index"`
	Profiles      ProfilesConfig      `yaml:"profiles"`
	Retrieval     RetrievalConfig     `yaml:"retrieval"`
	Embedder      EmbedderConfig      `yaml:"embedder"`
	Generator     GeneratorConfig     `yaml:"generator"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/compass/config.yaml.
// If neither exists, it writes defaults to ~/.config/compass/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
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

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "compass", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		KnowledgeBase: KnowledgeBaseConfig{Path: "products.txt"},
		Index:         IndexConfig{Path: "compass_index.bin"},
		Profiles:      ProfilesConfig{Path: "processed_customer_data.csv"},
		Retrieval:     RetrievalConfig{TopK: 3},
		Embedder:      EmbedderConfig{Type: "tfidf"},
		Generator: GeneratorConfig{
			APIKeyEnv: "GROQ_API_KEY",
			Model:     "llama3-8b-8192",
		},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.KnowledgeBase.Path == "" {
		cfg.KnowledgeBase.Path = "products.txt"
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = "compass_index.bin"
	}
	if cfg.Profiles.Path == "" {
		cfg.Profiles.Path = "processed_customer_data.csv"
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Generator.BaseURL == "" {
		cfg.Generator.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Generator.APIKeyEnv == "" {
		cfg.Generator.APIKeyEnv = "GROQ_API_KEY"
	}
	if cfg.Generator.Model == "" {
		cfg.Generator.Model = "llama3-8b-8192"
	}
	if cfg.Generator.Temperature == nil {
		temperature := float32(0.5)
		cfg.Generator.Temperature = &temperature
	}
	if cfg.Generator.TimeoutSecs == 0 {
		cfg.Generator.TimeoutSecs = 60
	}
}
