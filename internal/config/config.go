// Package config loads tool configuration from YAML.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration
type Config struct {
	Model      *ModelConfig      `yaml:"model"`
	Classifier *ClassifierConfig `yaml:"classifier"`
	Cache      *CacheConfig      `yaml:"cache"`
	Gateway    *GatewayConfig    `yaml:"gateway"`
}

// ModelConfig contains embedding model and tokenizer settings
type ModelConfig struct {
	ID              string `yaml:"id"`
	ModelPath       string `yaml:"modelPath,omitempty"`
	ModelURL        string `yaml:"modelURL,omitempty"`
	ModelSHA256     string `yaml:"modelSHA256,omitempty"`
	TokenizerPath   string `yaml:"tokenizerPath,omitempty"`
	TokenizerURL    string `yaml:"tokenizerURL,omitempty"`
	TokenizerSHA256 string `yaml:"tokenizerSHA256,omitempty"`
	MaxSeqLen       int    `yaml:"maxSeqLen"`
	Device          string `yaml:"device,omitempty"`
	LibraryPath     string `yaml:"libraryPath,omitempty"`
	CacheDir        string `yaml:"cacheDir,omitempty"`
	TypeIDsName     string `yaml:"typeIdsName,omitempty"`
	OutputName      string `yaml:"outputName,omitempty"`
}

// ClassifierConfig contains the logistic-regression head settings
type ClassifierConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig controls the pooled-feature cache
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// GatewayConfig contains classification service settings
type GatewayConfig struct {
	Bind           string   `yaml:"bind"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Model: &ModelConfig{
			ID:        "transporter-bert",
			MaxSeqLen: 20000,
			Device:    "cpu",
		},
		Classifier: &ClassifierConfig{
			Path: "lr_model.json",
		},
		Cache: &CacheConfig{
			Enabled: false,
		},
		Gateway: &GatewayConfig{
			Bind: "127.0.0.1",
			Port: 18790,
		},
	}
}

// WithDefaults fills unset sections of cfg with default values.
func WithDefaults(cfg *Config) *Config {
	def := DefaultConfig()
	if cfg == nil {
		return def
	}
	if cfg.Model == nil {
		cfg.Model = def.Model
	}
	if cfg.Classifier == nil {
		cfg.Classifier = def.Classifier
	}
	if cfg.Cache == nil {
		cfg.Cache = def.Cache
	}
	if cfg.Gateway == nil {
		cfg.Gateway = def.Gateway
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Model != nil {
		device := strings.TrimSpace(c.Model.Device)
		if device != "" && device != "cpu" && device != "cuda" {
			return fmt.Errorf("model.device must be cpu or cuda, got %q", c.Model.Device)
		}
		if c.Model.MaxSeqLen < 0 {
			return fmt.Errorf("model.maxSeqLen must not be negative")
		}
		if strings.Contains(c.Model.ID, "/") || strings.Contains(c.Model.ID, "..") {
			return fmt.Errorf("model.id must be a plain name, got %q", c.Model.ID)
		}
	}
	if c.Gateway != nil {
		if c.Gateway.Port < 0 || c.Gateway.Port > 65535 {
			return fmt.Errorf("gateway.port must be between 0 and 65535")
		}
	}
	return nil
}
