// This file translates the HCL schema structs into the format-agnostic
// configuration model defined in the config package.

package hcl

import (
	"fmt"
	"slices"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/crossdeploy/internal/config"
	"github.com/vk/crossdeploy/internal/schema"
)

func translatePipeline(p *schema.Pipeline) *config.Pipeline {
	return &config.Pipeline{
		Name:           p.Name,
		Repository:     p.Repository,
		Branch:         p.Branch,
		Account:        p.Account,
		Region:         p.Region,
		Application:    p.Application,
		BootstrapRoles: slices.Clone(p.BootstrapRoles),
	}
}

func translateSynth(s *schema.Synth) *config.Synth {
	return &config.Synth{
		InstallCommands: s.InstallCommands,
		Commands:        s.Commands,
		OutputDirectory: s.OutputDirectory,
	}
}

func translateBuild(b *schema.Build, evalCtx *hcl.EvalContext) (*config.Build, error) {
	env, err := decodeStringMap(b.Environment, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("build: invalid environment: %w", err)
	}
	return &config.Build{
		RegistryRepository: b.RegistryRepository,
		Region:             b.Region,
		BuildImage:         b.BuildImage,
		Privileged:         b.Privileged,
		Commands:           b.Commands,
		OutputDirectory:    b.OutputDirectory,
		ImageDescriptor:    b.ImageDescriptor,
		Environment:        env,
	}, nil
}

func translateConfigure(c *schema.Configure, evalCtx *hcl.EvalContext) (*config.Configure, error) {
	env, err := decodeStringMap(c.Environment, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("configure: invalid environment: %w", err)
	}
	return &config.Configure{
		ExecutionRole:       c.ExecutionRole,
		TaskFamily:          c.TaskFamily,
		Commands:            c.Commands,
		OutputDirectory:     c.OutputDirectory,
		BuildInputDirectory: c.BuildInputDirectory,
		Environment:         env,
	}, nil
}

func translateStage(s *schema.Stage) (*config.Stage, error) {
	approval, err := parseOptionalDuration(s.ApprovalWait)
	if err != nil {
		return nil, fmt.Errorf("stage %q: invalid approval_wait: %w", s.Name, err)
	}
	termination, err := parseOptionalDuration(s.TerminationWait)
	if err != nil {
		return nil, fmt.Errorf("stage %q: invalid termination_wait: %w", s.Name, err)
	}
	return &config.Stage{
		Name:             s.Name,
		Account:          s.Account,
		Region:           s.Region,
		DeploymentPolicy: s.DeploymentPolicy,
		ApprovalWait:     approval,
		TerminationWait:  termination,
	}, nil
}

func parseOptionalDuration(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q must not be negative", raw)
	}
	return d, nil
}
