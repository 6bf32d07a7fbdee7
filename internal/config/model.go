package config

import "time"

// Model is the unified, format-agnostic representation of a pipeline file.
type Model struct {
	Pipeline  *Pipeline
	Synth     *Synth
	Build     *Build
	Configure *Configure
	Stages    []*Stage
}

// Pipeline is the representation of the `pipeline` block.
type Pipeline struct {
	Name           string
	Repository     string
	Branch         string
	Account        string
	Region         string
	Application    string
	BootstrapRoles []string
}

// Synth is the representation of the optional `synth` block.
type Synth struct {
	InstallCommands []string
	Commands        []string
	OutputDirectory string
}

// Build is the representation of the `build` block.
type Build struct {
	RegistryRepository string
	Region             string
	BuildImage         string
	Privileged         *bool
	Commands           []string
	OutputDirectory    string
	ImageDescriptor    string
	Environment        map[string]string
}

// Configure is the representation of the `configure` block.
type Configure struct {
	ExecutionRole       string
	TaskFamily          string
	Commands            []string
	OutputDirectory     string
	BuildInputDirectory string
	Environment         map[string]string
}

// Stage is the representation of a `stage` block.
type Stage struct {
	Name             string
	Account          string
	Region           string
	DeploymentPolicy string
	ApprovalWait     time.Duration
	TerminationWait  time.Duration
}
