// Package config loads the adventure's configuration.
// Source priority (highest to lowest):
// 1. Command-line flags (applied by the caller)
// 2. Environment variables, including any found in .env
// 3. The YAML file given by --config, or adventure.yaml in the working directory
// 4. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"gridadventure/internal/observability"
)

const DefaultFile = "adventure.yaml"

// Config is the complete configuration of the adventure.
type Config struct {
	// BaseURL is the root of an OpenAI-compatible API, e.g. LM Studio's
	// http://localhost:1234/v1.
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`

	Temperature float64 `yaml:"temperature"`
	// MaxTokens of -1 leaves the reply length to the server.
	MaxTokens      int64         `yaml:"max_tokens"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	LocationsPath string `yaml:"locations"`
	SaveDir       string `yaml:"save_dir"`
	WrapWidth     int    `yaml:"wrap_width"`

	// CompletionDB is the SQLite file completions are logged to. Empty
	// disables logging.
	CompletionDB string `yaml:"completion_db"`

	Debug    bool   `yaml:"debug"`
	DebugLog string `yaml:"debug_log"`

	Tracing observability.Config `yaml:"tracing"`
}

func Default() *Config {
	return &Config{
		BaseURL:        "http://localhost:1234/v1",
		APIKey:         "lm-studio",
		Model:          "meta-llama-3.1-8b-instruct",
		Temperature:    0.7,
		MaxTokens:      -1,
		RequestTimeout: 2 * time.Minute,
		LocationsPath:  "llm_game_data/locations.csv",
		SaveDir:        "saves",
		WrapWidth:      80,
		CompletionDB:   "completions.db",
		DebugLog:       "debug.log",
		Tracing:        observability.DefaultConfig(),
	}
}

// Load reads path (or DefaultFile when path is empty and the file exists)
// over the defaults and then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// A missing .env is normal.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.BaseURL, "LLM_BASE_URL")
	setString(&c.APIKey, "LLM_API_KEY")
	setString(&c.Model, "LLM_MODEL")
	setString(&c.LocationsPath, "ADVENTURE_LOCATIONS")
	setString(&c.SaveDir, "ADVENTURE_SAVE_DIR")
	setString(&c.CompletionDB, "ADVENTURE_COMPLETION_DB")

	if v := strings.TrimSpace(os.Getenv("LLM_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid LLM_REQUEST_TIMEOUT %q: %w", v, err)
		}
		c.RequestTimeout = d
	}
	if v := strings.TrimSpace(os.Getenv("ADVENTURE_WRAP_WIDTH")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ADVENTURE_WRAP_WIDTH %q: %w", v, err)
		}
		c.WrapWidth = n
	}

	if v := os.Getenv("DEBUG"); v == "1" || v == "true" {
		c.Debug = true
	}
	if os.Getenv("OTEL_TRACES_ENABLED") == "true" {
		c.Tracing.Enabled = true
	}
	setString(&c.Tracing.LangfuseHost, "LANGFUSE_HOST")
	setString(&c.Tracing.PublicKey, "LANGFUSE_PUBLIC_KEY")
	setString(&c.Tracing.SecretKey, "LANGFUSE_SECRET_KEY")
	setString(&c.Tracing.Environment, "ENVIRONMENT")
	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model must not be empty")
	}
	if strings.TrimSpace(c.LocationsPath) == "" {
		return fmt.Errorf("locations path must not be empty")
	}
	if c.WrapWidth <= 0 {
		return fmt.Errorf("wrap_width must be positive, got %d", c.WrapWidth)
	}
	if c.Tracing.Enabled && (c.Tracing.PublicKey == "" || c.Tracing.SecretKey == "") {
		return fmt.Errorf("tracing enabled but LANGFUSE_PUBLIC_KEY/LANGFUSE_SECRET_KEY are not set")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
