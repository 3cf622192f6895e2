// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/ironsheep/mandelbrot-mcp/internal/imaging"
)

// Transports the server can speak.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds runtime settings for the MCP server and the render command.
type Config struct {
	// Transport is "stdio" or "http".
	Transport string `env:"MANDELBROT_MCP_TRANSPORT" envDefault:"stdio"`

	// HTTPAddr is the listen address for the HTTP transport.
	HTTPAddr string `env:"MANDELBROT_MCP_HTTP_ADDR" envDefault:"localhost:8081"`

	// LogLevel is "info" or "debug".
	LogLevel string `env:"MANDELBROT_MCP_LOG_LEVEL" envDefault:"info"`

	// Workers caps concurrent column evaluation in the grid sampler.
	Workers int `env:"MANDELBROT_MCP_WORKERS" envDefault:"1"`

	// MaxPixels bounds width*height of any sample or render, including scaled output.
	MaxPixels int `env:"MANDELBROT_MCP_MAX_PIXELS" envDefault:"4000000"`

	// MaxIter bounds the iteration count a client may request.
	MaxIter int `env:"MANDELBROT_MCP_MAX_ITER" envDefault:"100000"`

	// Palette is the default colour scale for renders.
	Palette string `env:"MANDELBROT_MCP_PALETTE" envDefault:"viridis"`

	// InteriorColor is the default colour of points inside the set.
	InteriorColor string `env:"MANDELBROT_MCP_INTERIOR_COLOR" envDefault:"#000000"`

	// OutputDir, when set, is prepended to relative output paths.
	OutputDir string `env:"MANDELBROT_MCP_OUTPUT_DIR"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio:
	case TransportHTTP:
		if strings.TrimSpace(c.HTTPAddr) == "" {
			return fmt.Errorf("http transport needs an address")
		}
	default:
		return fmt.Errorf("transport %q is not supported", c.Transport)
	}
	switch strings.ToLower(c.LogLevel) {
	case "info", "debug":
	default:
		return fmt.Errorf("invalid log level %q: want info or debug", c.LogLevel)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.MaxPixels < 1 {
		return fmt.Errorf("max pixels must be >= 1, got %d", c.MaxPixels)
	}
	if c.MaxIter < 1 {
		return fmt.Errorf("max iter must be >= 1, got %d", c.MaxIter)
	}
	if _, err := imaging.LookupPalette(c.Palette); err != nil {
		return fmt.Errorf("default palette: %w", err)
	}
	if _, err := imaging.ParseColor(c.InteriorColor); err != nil {
		return fmt.Errorf("default interior colour: %w", err)
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// Default returns the configuration used when the environment is empty.
func Default() Config {
	return Config{
		Transport:     TransportStdio,
		HTTPAddr:      "localhost:8081",
		LogLevel:      "info",
		Workers:       1,
		MaxPixels:     4000000,
		MaxIter:       100000,
		Palette:       imaging.DefaultPalette,
		InteriorColor: imaging.DefaultInteriorColor,
	}
}
