package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/crossdeploy/internal/config"
	"github.com/vk/crossdeploy/internal/ctxlog"
	"github.com/vk/crossdeploy/internal/pipeline"
	"github.com/vk/crossdeploy/internal/render"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader
	sealed *pipeline.Sealed
}

// NewApp is the constructor for the main application. Logs go to logW and
// the rendered document to outW unless the config names an output file.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")
	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
	}
}

// Run loads the pipeline files, synthesizes the pipeline, computes its
// cross-account trust and writes the rendered document.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Info("Synthesizing pipeline.", "paths", a.config.PipelinePaths)

	m, err := a.loader.Load(ctx, a.config.PipelinePaths...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	sealed, err := Synthesize(ctx, m, a.config.Partition)
	if err != nil {
		return err
	}
	a.sealed = sealed

	grants, err := sealed.ComputeGrants(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("Pipeline synthesized.",
		"pipeline", sealed.Definition().Name,
		"stages", len(sealed.Stages()),
		"grants", len(grants),
	)

	return a.write(render.New(sealed))
}

// Pipeline returns the pipeline produced by the last Run. This is primarily
// for testing.
func (a *App) Pipeline() *pipeline.Sealed {
	return a.sealed
}

func (a *App) write(doc *render.Document) error {
	format := render.Format(a.config.OutputFormat)
	if a.config.OutputPath == "" || a.config.OutputPath == "-" {
		return render.Write(a.outW, doc, format)
	}

	f, err := os.Create(a.config.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := render.Write(f, doc, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	a.logger.Debug("Document written.", "path", a.config.OutputPath, "format", format)
	return nil
}
