package app

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// EnvSettings are the defaults read from the process environment. Command
// line flags take precedence over them.
type EnvSettings struct {
	LogLevel     string `env:"CROSSDEPLOY_LOG_LEVEL, default=info"`
	LogFormat    string `env:"CROSSDEPLOY_LOG_FORMAT, default=text"`
	Partition    string `env:"CROSSDEPLOY_PARTITION, default=aws"`
	OutputFormat string `env:"CROSSDEPLOY_OUTPUT_FORMAT, default=json"`
}

// LoadEnvSettings reads EnvSettings from the process environment.
func LoadEnvSettings(ctx context.Context) (*EnvSettings, error) {
	return loadEnvSettings(ctx, envconfig.OsLookuper())
}

func loadEnvSettings(ctx context.Context, lookuper envconfig.Lookuper) (*EnvSettings, error) {
	var s EnvSettings
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &s, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &s, nil
}
