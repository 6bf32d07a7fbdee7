package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/vk/crossdeploy/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// ExitCode implements cli.ExitCoder.
func (e *ExitError) ExitCode() int {
	return e.Code
}

const description = `Synthesizes a cross-account blue/green release pipeline from HCL files
and prints it as a JSON or YAML document.

PIPELINE_PATH is a single .hcl file or a directory containing .hcl files.`

// Parse processes command-line arguments. Flag defaults come from env. It
// returns a populated app.Config, a boolean indicating if the program should
// exit cleanly, or an ExitError.
func Parse(ctx context.Context, args []string, output io.Writer, env *app.EnvSettings) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	var config *app.Config

	cmd := &cli.Command{
		Name:        "crossdeploy",
		Usage:       "cross-account blue/green pipeline synthesizer",
		ArgsUsage:   "[PIPELINE_PATH...]",
		Description: description,
		Writer:      output,
		ErrWriter:   output,
		// Errors are returned to the caller instead of exiting the process.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "pipeline",
				Aliases: []string{"p"},
				Usage:   "path to a pipeline file or directory, may be repeated",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the document to this file instead of stdout",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format (json, yaml)",
				Value:   env.OutputFormat,
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log output format (text, json)",
				Value: env.LogFormat,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "logging level (debug, info, warn, error)",
				Value: env.LogLevel,
			},
			&cli.StringFlag{
				Name:  "partition",
				Usage: "partition used in deployment group ARNs",
				Value: env.Partition,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := append(cmd.StringSlice("pipeline"), cmd.Args().Slice()...)
			slog.Debug("Pipeline paths determined.", "paths", paths)

			if len(paths) == 0 {
				slog.Debug("No pipeline path provided, printing usage and exiting.")
				return cli.ShowAppHelp(cmd)
			}

			cfg, err := app.NewConfig(app.Config{
				PipelinePaths: paths,
				OutputPath:    cmd.String("output"),
				OutputFormat:  cmd.String("format"),
				LogFormat:     cmd.String("log-format"),
				LogLevel:      cmd.String("log-level"),
				Partition:     cmd.String("partition"),
			})
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			config = cfg
			return nil
		},
	}

	if err := cmd.Run(ctx, append([]string{cmd.Name}, args...)); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if config == nil {
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
