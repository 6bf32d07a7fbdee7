package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/crossdeploy/internal/config"
	"github.com/vk/crossdeploy/internal/model"
	"github.com/vk/crossdeploy/internal/orchestrator"
	"github.com/vk/crossdeploy/internal/pipeline"
)

// Synthesize turns a loaded model into a finalized pipeline. Stages are
// added in the order they appear in the model.
func Synthesize(ctx context.Context, m *config.Model, partition string) (*pipeline.Sealed, error) {
	if m == nil || m.Pipeline == nil {
		return nil, errors.New("configuration has no pipeline")
	}

	b, err := pipeline.New(ctx, pipelineOptions(m, partition))
	if err != nil {
		return nil, err
	}

	for _, s := range m.Stages {
		d, err := stageDescriptor(s)
		if err != nil {
			return nil, err
		}
		if _, err := b.AddStage(ctx, d); err != nil {
			return nil, fmt.Errorf("failed to add stage %q: %w", s.Name, err)
		}
	}

	return b.Finalize(ctx)
}

func pipelineOptions(m *config.Model, partition string) pipeline.Options {
	p := m.Pipeline
	opts := pipeline.Options{
		Name:           p.Name,
		Source:         model.Source{Repository: p.Repository, Branch: p.Branch},
		Environment:    model.Environment{Account: p.Account, Region: p.Region},
		Steps:          stepSettings(m),
		Partition:      partition,
		BootstrapRoles: p.BootstrapRoles,
	}
	if m.Synth != nil {
		opts.Synth = pipeline.SynthSettings{
			InstallCommands: m.Synth.InstallCommands,
			Commands:        m.Synth.Commands,
			OutputDirectory: m.Synth.OutputDirectory,
		}
	}
	return opts
}

// stepSettings overlays the configured build and configure blocks on the
// default step templates.
func stepSettings(m *config.Model) orchestrator.Settings {
	s := orchestrator.DefaultSettings()
	s.Application = m.Pipeline.Application

	if b := m.Build; b != nil {
		s.Build.RegistryRepository = b.RegistryRepository
		s.Build.Region = b.Region
		setIfNotEmpty(&s.Build.BuildImage, b.BuildImage)
		setIfNotEmpty(&s.Build.OutputDirectory, b.OutputDirectory)
		setIfNotEmpty(&s.Build.ImageDescriptor, b.ImageDescriptor)
		if b.Privileged != nil {
			s.Build.Privileged = *b.Privileged
		}
		if len(b.Commands) > 0 {
			s.Build.Commands = b.Commands
		}
		s.Build.Env = b.Environment
	}

	if c := m.Configure; c != nil {
		s.Configure.ExecutionRole = c.ExecutionRole
		s.Configure.TaskFamily = c.TaskFamily
		setIfNotEmpty(&s.Configure.OutputDirectory, c.OutputDirectory)
		setIfNotEmpty(&s.Configure.BuildInputDirectory, c.BuildInputDirectory)
		if len(c.Commands) > 0 {
			s.Configure.Commands = c.Commands
		}
		s.Configure.Env = c.Environment
	}
	return s
}

func stageDescriptor(s *config.Stage) (model.StageDescriptor, error) {
	policy, err := model.ParsePolicy(s.DeploymentPolicy)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			verr.Stage = s.Name
		}
		return model.StageDescriptor{}, err
	}

	timeouts := model.DefaultDeployTimeouts
	if s.ApprovalWait > 0 {
		timeouts.ApprovalWait = s.ApprovalWait
	}
	if s.TerminationWait > 0 {
		timeouts.TerminationWait = s.TerminationWait
	}

	return model.StageDescriptor{
		Name:        s.Name,
		Environment: model.Environment{Account: s.Account, Region: s.Region},
		Policy:      policy,
		Timeouts:    timeouts,
	}, nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
