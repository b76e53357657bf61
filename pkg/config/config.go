// Package config holds application configuration loaded from a YAML
// file and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

// Config is the root application configuration.
type Config struct {
	Decks     DecksConfig     `yaml:"decks"`
	Audio     AudioConfig     `yaml:"audio"`
	Extract   ExtractConfig   `yaml:"extract"`
	Translate TranslateConfig `yaml:"translate"`
	Export    ExportConfig    `yaml:"export"`
	Log       LogConfig       `yaml:"log"`
}

// DecksConfig holds deck storage settings.
type DecksConfig struct {
	Dir      string `yaml:"dir"      env:"DECKS_DIR"      env-default:"decks"`
	Language string `yaml:"language" env:"DECKS_LANGUAGE" env-default:"spanish"`
}

// AudioConfig holds speech synthesis settings.
type AudioConfig struct {
	Enabled bool   `yaml:"enabled" env:"AUDIO_ENABLED" env-default:"true"`
	Dir     string `yaml:"dir"     env:"AUDIO_DIR"     env-default:"audio"`
	Workers int    `yaml:"workers" env:"AUDIO_WORKERS" env-default:"4"`
}

// ExtractConfig holds word extraction settings.
type ExtractConfig struct {
	MinWordLength int      `yaml:"min_word_length" env:"EXTRACT_MIN_WORD_LENGTH" env-default:"3"`
	Categories    []string `yaml:"categories"      env:"EXTRACT_CATEGORIES"`
}

// TranslateConfig holds translation API settings.
type TranslateConfig struct {
	APIKey   string `yaml:"api_key"  env:"TRANSLATE_API_KEY"`
	Endpoint string `yaml:"endpoint" env:"TRANSLATE_ENDPOINT"`
}

// ExportConfig holds CSV export settings.
type ExportConfig struct {
	Dir         string `yaml:"dir"          env:"EXPORT_DIR"          env-default:"exports"`
	PerCategory bool   `yaml:"per_category" env:"EXPORT_PER_CATEGORY" env-default:"false"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The YAML file path is determined by CONFIG_PATH env (fallback
// "./llamalang.yaml"). If the file does not exist and CONFIG_PATH was
// not set explicitly, configuration is loaded from ENV + defaults only.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./llamalang.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints cleanenv tags cannot express.
func (c *Config) Validate() error {
	if _, ok := vocab.ParseLanguage(c.Decks.Language); !ok {
		return fmt.Errorf("unknown language %q", c.Decks.Language)
	}
	for _, name := range c.Extract.Categories {
		if vocab.ParseCategory(name) == vocab.Other && !strings.EqualFold(name, string(vocab.Other)) {
			return fmt.Errorf("unknown category %q", name)
		}
	}
	if c.Audio.Workers < 1 {
		return fmt.Errorf("audio workers must be positive, got %d", c.Audio.Workers)
	}
	if c.Extract.MinWordLength < 1 {
		return fmt.Errorf("min word length must be positive, got %d", c.Extract.MinWordLength)
	}
	return nil
}

// Language returns the configured default language.
func (c *Config) Language() vocab.Language {
	lang, _ := vocab.ParseLanguage(c.Decks.Language)
	return lang
}

// Include returns the configured category filter, nil when unset.
func (c *Config) Include() map[vocab.Category]bool {
	if len(c.Extract.Categories) == 0 {
		return nil
	}
	out := make(map[vocab.Category]bool, len(c.Extract.Categories))
	for _, name := range c.Extract.Categories {
		out[vocab.ParseCategory(name)] = true
	}
	return out
}
