package model

import (
	"maps"
	"slices"
	"time"
)

// StepKind identifies the role a step plays inside a stage.
type StepKind string

const (
	StepSynth     StepKind = "synth"
	StepBuild     StepKind = "build"
	StepConfigure StepKind = "configure"
	StepDeploy    StepKind = "deploy"
)

// ArtifactKey names an artifact exchanged between steps.
type ArtifactKey string

const (
	// SourceOutput is the checked-out source the synth step consumes.
	SourceOutput ArtifactKey = "source.output"
	// SynthOutput is the artifact produced by the pipeline's own synth step.
	SynthOutput ArtifactKey = "synth.output"
)

// OutputKey returns the conventional artifact key produced by a step.
func OutputKey(stepID string) ArtifactKey {
	return ArtifactKey(stepID + ".output")
}

// DeployTimeouts are pass-through windows enforced by the external executor.
type DeployTimeouts struct {
	ApprovalWait    time.Duration `json:"approval_wait" yaml:"approval_wait"`
	TerminationWait time.Duration `json:"termination_wait" yaml:"termination_wait"`
}

// DefaultDeployTimeouts are used when a stage does not set its own windows.
var DefaultDeployTimeouts = DeployTimeouts{
	ApprovalWait:    30 * time.Minute,
	TerminationWait: 10 * time.Minute,
}

// StepNode is a vertex of a stage's step graph.
type StepNode struct {
	ID               string            `json:"id" yaml:"id"`
	Kind             StepKind          `json:"kind" yaml:"kind"`
	Commands         []string          `json:"commands,omitempty" yaml:"commands,omitempty"`
	InstallCommands  []string          `json:"install_commands,omitempty" yaml:"install_commands,omitempty"`
	Inputs           []ArtifactKey     `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	AdditionalInputs map[string]string `json:"additional_inputs,omitempty" yaml:"additional_inputs,omitempty"`
	Output           ArtifactKey       `json:"output,omitempty" yaml:"output,omitempty"`
	OutputDirectory  string            `json:"output_directory,omitempty" yaml:"output_directory,omitempty"`
	OutputFiles      []string          `json:"output_files,omitempty" yaml:"output_files,omitempty"`
	DependsOn        []string          `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Env              map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	BuildImage       string            `json:"build_image,omitempty" yaml:"build_image,omitempty"`
	Privileged       bool              `json:"privileged,omitempty" yaml:"privileged,omitempty"`

	// Deploy nodes only.
	DeploymentGroup *DeploymentGroupRef `json:"deployment_group,omitempty" yaml:"deployment_group,omitempty"`
	Timeouts        *DeployTimeouts     `json:"timeouts,omitempty" yaml:"timeouts,omitempty"`
}

// Clone returns a deep copy of the node.
func (n StepNode) Clone() StepNode {
	c := n
	c.Commands = slices.Clone(n.Commands)
	c.InstallCommands = slices.Clone(n.InstallCommands)
	c.Inputs = slices.Clone(n.Inputs)
	c.DependsOn = slices.Clone(n.DependsOn)
	c.OutputFiles = slices.Clone(n.OutputFiles)
	c.AdditionalInputs = maps.Clone(n.AdditionalInputs)
	c.Env = maps.Clone(n.Env)
	if n.DeploymentGroup != nil {
		ref := *n.DeploymentGroup
		c.DeploymentGroup = &ref
	}
	if n.Timeouts != nil {
		t := *n.Timeouts
		c.Timeouts = &t
	}
	return c
}

// Consumes reports whether the node declares key among its inputs.
func (n StepNode) Consumes(key ArtifactKey) bool {
	return slices.Contains(n.Inputs, key)
}
