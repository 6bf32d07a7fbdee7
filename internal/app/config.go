package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/crossdeploy/internal/render"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PipelinePaths []string // hcl files or directories
	OutputPath    string   // empty or "-" writes to the app's writer

	OutputFormat string
	LogFormat    string
	LogLevel     string
	Partition    string
}

// NewConfig validates cfg and normalizes its enumerated fields.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.PipelinePaths) == 0 {
		return nil, errors.New("PipelinePaths is a required configuration field and cannot be empty")
	}

	if cfg.OutputFormat == "" {
		cfg.OutputFormat = string(render.FormatJSON)
	}
	format, err := render.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	cfg.OutputFormat = string(format)

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, ok := logLevels[cfg.LogLevel]; !ok {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	return &cfg, nil
}
