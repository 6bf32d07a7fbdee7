package pipeline

import (
	"slices"

	"github.com/vk/crossdeploy/internal/model"
	"github.com/vk/crossdeploy/internal/nodeid"
	"github.com/vk/crossdeploy/internal/orchestrator"
)

// Options configures a new pipeline.
type Options struct {
	Name        string
	Source      model.Source
	Environment model.Environment
	Synth       SynthSettings
	Steps       orchestrator.Settings
	// Partition used for external references; defaults to "aws".
	Partition string
	// BootstrapRoles overrides the bootstrap-role allow-list of trust grants.
	BootstrapRoles []string
}

// SynthSettings configures the pipeline's own synth step.
type SynthSettings struct {
	InstallCommands []string
	Commands        []string
	OutputDirectory string
}

// DefaultSynthSettings mirrors a CDK application that ships its build and
// deployment scripts next to the synthesized templates.
func DefaultSynthSettings() SynthSettings {
	return SynthSettings{
		InstallCommands: []string{"npm install"},
		Commands: []string{
			"npm run build",
			"npx cdk synth",
			"cp -r lib/codebuild cdk.out/",
			"cp -r lib/codedeploy cdk.out/",
		},
		OutputDirectory: "cdk.out",
	}
}

// Settings are the pipeline-wide execution flags handed to the executor.
type Settings struct {
	SelfMutation                 bool `json:"self_mutation" yaml:"self_mutation"`
	DockerEnabledForSelfMutation bool `json:"docker_enabled_for_self_mutation" yaml:"docker_enabled_for_self_mutation"`
	PublishAssetsInParallel      bool `json:"publish_assets_in_parallel" yaml:"publish_assets_in_parallel"`
	CrossAccountKeys             bool `json:"cross_account_keys" yaml:"cross_account_keys"`
}

// defaultSettings enables self-mutation and cross-account keys, and
// serializes asset publishing.
var defaultSettings = Settings{
	SelfMutation:                 true,
	DockerEnabledForSelfMutation: true,
	PublishAssetsInParallel:      false,
	CrossAccountKeys:             true,
}

func (o Options) validate() error {
	if err := nodeid.ValidateSegment(o.Name); err != nil {
		return &model.ValidationError{Field: "pipeline.name", Value: o.Name, Reason: err.Error()}
	}
	if o.Source.Repository == "" {
		return &model.ValidationError{Field: "pipeline.repository", Reason: "must not be empty"}
	}
	if o.Source.Branch == "" {
		return &model.ValidationError{Field: "pipeline.branch", Reason: "must not be empty"}
	}
	if err := o.Environment.Validate(); err != nil {
		return err
	}
	if len(o.Synth.Commands) == 0 {
		return &model.ValidationError{Field: "synth.commands", Reason: "must not be empty"}
	}
	return nil
}

// synthNode returns the pipeline-level synth step.
func (o Options) synthNode() model.StepNode {
	return model.StepNode{
		ID:              string(model.StepSynth),
		Kind:            model.StepSynth,
		InstallCommands: slices.Clone(o.Synth.InstallCommands),
		Commands:        slices.Clone(o.Synth.Commands),
		Inputs:          []model.ArtifactKey{model.SourceOutput},
		Output:          model.SynthOutput,
		OutputDirectory: o.Synth.OutputDirectory,
	}
}
