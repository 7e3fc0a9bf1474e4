// Package config loads the summarizer service configuration.
// Values come from built-in defaults, an optional YAML file and environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	envcfg "doc-summarizer/pkg/config"
)

// Provider names accepted by SUMMARIZER_PROVIDER.
const (
	ProviderNoop        = "noop"
	ProviderOpenAI      = "openai"
	ProviderClaude      = "claude"
	ProviderHuggingFace = "huggingface"
)

var supportedProviders = []string{ProviderNoop, ProviderOpenAI, ProviderClaude, ProviderHuggingFace}

// Config is the complete application configuration.
type Config struct {
	Reduction     ReductionConfig     `yaml:"reduction"`
	Provider      ProviderConfig      `yaml:"provider"`
	Server        ServerConfig        `yaml:"server"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ReductionConfig holds the chunking and reduction thresholds.
// All lengths are word counts.
type ReductionConfig struct {
	// MaxWordsPerChunk bounds the size of each chunk. Default: 400
	MaxWordsPerChunk int `yaml:"max_words_per_chunk"`
	// ShortThreshold is the largest document summarized in a single call. Default: 400
	ShortThreshold int `yaml:"short_threshold"`
	// ChunkMaxLength and ChunkMinLength bound each chunk summary. Default: 100/30
	ChunkMaxLength int `yaml:"chunk_max_length"`
	ChunkMinLength int `yaml:"chunk_min_length"`
	// FinalMaxLength and FinalMinLength bound direct and recombined summaries. Default: 150/50
	FinalMaxLength int `yaml:"final_max_length"`
	FinalMinLength int `yaml:"final_min_length"`
	// RecombineThreshold triggers a second pass when the joined chunk summaries exceed it. Default: 200
	RecombineThreshold int `yaml:"recombine_threshold"`
}

// ProviderConfig selects and configures the external summarizer.
type ProviderConfig struct {
	// Name is one of noop, openai, claude, huggingface. Default: noop
	Name string `yaml:"name"`
	// APIKey is never read from the YAML file.
	APIKey string `yaml:"-"`
	// Model overrides the provider's default model.
	Model string `yaml:"model"`
	// BaseURL overrides the provider's API endpoint (self-hosted or proxied backends).
	BaseURL string `yaml:"base_url"`
	// Timeout bounds a single summarizer call. Default: 60s
	Timeout time.Duration `yaml:"timeout"`
	// RateLimit is the sustained outbound request rate per second; 0 disables throttling. Default: 2
	RateLimit float64 `yaml:"rate_limit"`
	// RateBurst is the token bucket size. Default: 4
	RateBurst int `yaml:"rate_burst"`
	// Serialize forces one summarizer call at a time across the process. Default: false
	Serialize bool `yaml:"serialize"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address. Default: ":8080"
	Addr string `yaml:"addr"`
	// MaxUploadBytes bounds request bodies and uploaded files. Default: 5MB
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	// RequestTimeout bounds one summarization request end to end. Default: 5m
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// AllowedExtensions lists accepted upload file extensions. Default: [".txt"]
	AllowedExtensions []string `yaml:"allowed_extensions"`
	// CORSAllowedOrigins lists browser origins allowed to call the API; "*" allows any. Default: none
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// ObservabilityConfig holds logging and tracing settings.
type ObservabilityConfig struct {
	// LogLevel is debug, info, warn or error. Default: "info"
	LogLevel string `yaml:"log_level"`
	// TracingEnabled installs an OpenTelemetry tracer provider. Default: false
	TracingEnabled bool `yaml:"tracing_enabled"`
}

// DefaultReductionConfig returns the reference thresholds.
func DefaultReductionConfig() ReductionConfig {
	return ReductionConfig{
		MaxWordsPerChunk:   400,
		ShortThreshold:     400,
		ChunkMaxLength:     100,
		ChunkMinLength:     30,
		FinalMaxLength:     150,
		FinalMinLength:     50,
		RecombineThreshold: 200,
	}
}

// Default returns a configuration populated with defaults only.
func Default() *Config {
	return &Config{
		Reduction: DefaultReductionConfig(),
		Provider: ProviderConfig{
			Name:      ProviderNoop,
			Timeout:   60 * time.Second,
			RateLimit: 2,
			RateBurst: 4,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			MaxUploadBytes:    5 << 20,
			RequestTimeout:    5 * time.Minute,
			AllowedExtensions: []string{".txt"},
		},
		Observability: ObservabilityConfig{
			LogLevel: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the environment.
// A .env file in the working directory is loaded first if present.
// The YAML path comes from the argument, or SUMMARIZER_CONFIG_FILE when the argument is empty.
//
// Returns an error if the file cannot be read or the result fails validation (fail-closed).
func Load(path string) (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("SUMMARIZER_CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// mergeFile overlays values from a YAML file onto cfg.
// The path parameter is expected to come from a trusted source (command-line flag or environment).
func (c *Config) mergeFile(path string) error {
	// #nosec G304 -- path is provided by the operator, not by request input
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	slog.Debug("loaded configuration file", slog.String("path", path))
	return nil
}

// applyEnv overrides cfg with environment variables. Unset variables keep the current value.
func (c *Config) applyEnv() {
	r := &c.Reduction
	r.MaxWordsPerChunk = envcfg.GetEnvInt("MAX_WORDS_PER_CHUNK", r.MaxWordsPerChunk)
	r.ShortThreshold = envcfg.GetEnvInt("SHORT_THRESHOLD", r.ShortThreshold)
	r.ChunkMaxLength = envcfg.GetEnvInt("CHUNK_MAX_LENGTH", r.ChunkMaxLength)
	r.ChunkMinLength = envcfg.GetEnvInt("CHUNK_MIN_LENGTH", r.ChunkMinLength)
	r.FinalMaxLength = envcfg.GetEnvInt("FINAL_MAX_LENGTH", r.FinalMaxLength)
	r.FinalMinLength = envcfg.GetEnvInt("FINAL_MIN_LENGTH", r.FinalMinLength)
	r.RecombineThreshold = envcfg.GetEnvInt("RECOMBINE_THRESHOLD", r.RecombineThreshold)

	p := &c.Provider
	p.Name = strings.ToLower(envcfg.GetEnvString("SUMMARIZER_PROVIDER", p.Name))
	p.Model = envcfg.GetEnvString("SUMMARIZER_MODEL", p.Model)
	p.BaseURL = envcfg.GetEnvString("SUMMARIZER_BASE_URL", p.BaseURL)
	p.Timeout = envcfg.GetEnvDuration("SUMMARIZER_TIMEOUT", p.Timeout)
	p.RateLimit = envcfg.GetEnvFloat("SUMMARIZER_RATE_LIMIT", p.RateLimit)
	p.RateBurst = envcfg.GetEnvInt("SUMMARIZER_RATE_BURST", p.RateBurst)
	p.Serialize = envcfg.GetEnvBool("SUMMARIZER_SERIALIZE", p.Serialize)
	p.APIKey = envcfg.GetEnvString("SUMMARIZER_API_KEY", providerAPIKey(p.Name))

	s := &c.Server
	s.Addr = envcfg.GetEnvString("HTTP_ADDR", s.Addr)
	s.MaxUploadBytes = envcfg.GetEnvInt64("MAX_UPLOAD_BYTES", s.MaxUploadBytes)
	s.RequestTimeout = envcfg.GetEnvDuration("REQUEST_TIMEOUT", s.RequestTimeout)
	s.AllowedExtensions = envcfg.GetEnvStringList("UPLOAD_ALLOWED_EXTENSIONS", s.AllowedExtensions)
	s.CORSAllowedOrigins = envcfg.GetEnvStringList("CORS_ALLOWED_ORIGINS", s.CORSAllowedOrigins)

	o := &c.Observability
	o.LogLevel = strings.ToLower(envcfg.GetEnvString("LOG_LEVEL", o.LogLevel))
	o.TracingEnabled = envcfg.GetEnvBool("TRACING_ENABLED", o.TracingEnabled)
}

// providerAPIKey reads the vendor-specific API key variable for the named provider.
func providerAPIKey(name string) string {
	switch name {
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderClaude:
		return os.Getenv("ANTHROPIC_API_KEY")
	case ProviderHuggingFace:
		return os.Getenv("HUGGINGFACE_API_KEY")
	default:
		return ""
	}
}

// Validate checks configuration correctness.
func (c *Config) Validate() error {
	if err := c.Reduction.Validate(); err != nil {
		return err
	}
	if err := c.Provider.Validate(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return errors.New("HTTP_ADDR cannot be empty")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.Server.MaxUploadBytes)
	}
	if err := envcfg.ValidatePositiveDuration(c.Server.RequestTimeout); err != nil {
		return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}
	if len(c.Server.AllowedExtensions) == 0 {
		return errors.New("UPLOAD_ALLOWED_EXTENSIONS cannot be empty")
	}
	switch c.Observability.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.Observability.LogLevel)
	}
	return nil
}

// Validate checks that every threshold is positive and every min/max pair is ordered.
func (r ReductionConfig) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"MAX_WORDS_PER_CHUNK", r.MaxWordsPerChunk},
		{"SHORT_THRESHOLD", r.ShortThreshold},
		{"CHUNK_MAX_LENGTH", r.ChunkMaxLength},
		{"CHUNK_MIN_LENGTH", r.ChunkMinLength},
		{"FINAL_MAX_LENGTH", r.FinalMaxLength},
		{"FINAL_MIN_LENGTH", r.FinalMinLength},
		{"RECOMBINE_THRESHOLD", r.RecombineThreshold},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.name, p.value)
		}
	}

	if r.ChunkMinLength > r.ChunkMaxLength {
		return fmt.Errorf("CHUNK_MIN_LENGTH (%d) cannot be greater than CHUNK_MAX_LENGTH (%d)",
			r.ChunkMinLength, r.ChunkMaxLength)
	}
	if r.FinalMinLength > r.FinalMaxLength {
		return fmt.Errorf("FINAL_MIN_LENGTH (%d) cannot be greater than FINAL_MAX_LENGTH (%d)",
			r.FinalMinLength, r.FinalMaxLength)
	}
	return nil
}

// Validate checks the provider selection and its limits.
func (p ProviderConfig) Validate() error {
	if !slices.Contains(supportedProviders, p.Name) {
		return fmt.Errorf("SUMMARIZER_PROVIDER must be one of %s, got %q",
			strings.Join(supportedProviders, ", "), p.Name)
	}
	if (p.Name == ProviderOpenAI || p.Name == ProviderClaude) && p.APIKey == "" {
		return fmt.Errorf("an API key is required for provider %q", p.Name)
	}
	if err := envcfg.ValidatePositiveDuration(p.Timeout); err != nil {
		return fmt.Errorf("SUMMARIZER_TIMEOUT: %w", err)
	}
	if p.RateLimit < 0 {
		return fmt.Errorf("SUMMARIZER_RATE_LIMIT cannot be negative, got %v", p.RateLimit)
	}
	if p.RateLimit > 0 && p.RateBurst <= 0 {
		return fmt.Errorf("SUMMARIZER_RATE_BURST must be positive when rate limiting is enabled, got %d", p.RateBurst)
	}
	return nil
}
