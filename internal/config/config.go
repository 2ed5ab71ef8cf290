package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/izalutski/catscii/internal/art"
	"github.com/izalutski/catscii/internal/catapi"
)

type Config struct {
	Addr           string        `env:"CATSCII_ADDR"`            // listen address of the HTTP server
	SearchURL      string        `env:"CATSCII_SEARCH_URL"`      // image search endpoint
	APIKey         string        `env:"CATSCII_API_KEY"`         // optional Cat API key
	HTTPTimeout    time.Duration `env:"CATSCII_HTTP_TIMEOUT"`    // per outbound request
	MaxImageBytes  int64         `env:"CATSCII_MAX_IMAGE_BYTES"` // download cap
	ArtWidth       int           `env:"CATSCII_ART_WIDTH"`       // columns in a rendering
	DebugEndpoints bool          `env:"CATSCII_DEBUG_ENDPOINTS"` // expose /panic

	LogLevel     string `env:"CATSCII_LOG_LEVEL"`  // debug|info|warn|error
	LogFormat    string `env:"CATSCII_LOG_FORMAT"` // json|text
	Debug        bool   `env:"CATSCII_DEBUG"`      // shorthand for debug level
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Defaults returns the configuration used when nothing else is set.
// .env, the environment and command line flags override these in that order.
func Defaults() *Config {
	return &Config{
		Addr:          "0.0.0.0:8080",
		SearchURL:     catapi.DefaultSearchURL,
		HTTPTimeout:   catapi.DefaultTimeout,
		MaxImageBytes: catapi.DefaultMaxImageBytes,
		ArtWidth:      art.DefaultWidth,
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// Load builds the configuration from defaults, an optional .env file and the environment.
// Callers apply their own overrides and then call Validate.
func Load() (*Config, error) {
	cfg := Defaults()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate rejects unusable values.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.SearchURL == "" {
		return fmt.Errorf("search url must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("max image bytes must be positive, got %d", c.MaxImageBytes)
	}
	if c.ArtWidth <= 0 {
		return fmt.Errorf("art width must be positive, got %d", c.ArtWidth)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q (must be 'json' or 'text')", c.LogFormat)
	}
	return nil
}

// ClientOptions returns the catapi options described by c.
func (c *Config) ClientOptions() []catapi.Option {
	return []catapi.Option{
		catapi.WithSearchURL(c.SearchURL),
		catapi.WithAPIKey(c.APIKey),
		catapi.WithTimeout(c.HTTPTimeout),
		catapi.WithMaxImageBytes(c.MaxImageBytes),
	}
}

// RenderOptions returns the fixed document flavour at the configured width.
func (c *Config) RenderOptions() art.RenderOptions {
	opts := art.DefaultRenderOptions()
	opts.Width = c.ArtWidth
	return opts
}
