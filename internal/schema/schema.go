// Package schema declares the HCL block structure of a pipeline file as
// gohcl-decodable structs.
package schema

import "github.com/hashicorp/hcl/v2"

// Pipeline represents the `pipeline` block. It is decoded before any other
// block so its attributes can be referenced as `pipeline.<attr>`.
type Pipeline struct {
	Name           string   `hcl:"name,label"`
	Repository     string   `hcl:"repository"`
	Branch         string   `hcl:"branch"`
	Account        string   `hcl:"account"`
	Region         string   `hcl:"region"`
	Application    string   `hcl:"application"`
	BootstrapRoles []string `hcl:"bootstrap_roles,optional"`
}

// Synth represents the optional `synth` block.
type Synth struct {
	InstallCommands []string `hcl:"install_commands,optional"`
	Commands        []string `hcl:"commands,optional"`
	OutputDirectory string   `hcl:"output_directory,optional"`
}

// Build represents the `build` block.
type Build struct {
	RegistryRepository string         `hcl:"registry_repository"`
	Region             string         `hcl:"region,optional"`
	BuildImage         string         `hcl:"build_image,optional"`
	Privileged         *bool          `hcl:"privileged,optional"`
	Commands           []string       `hcl:"commands,optional"`
	OutputDirectory    string         `hcl:"output_directory,optional"`
	ImageDescriptor    string         `hcl:"image_descriptor,optional"`
	Environment        hcl.Expression `hcl:"environment,optional"`
}

// Configure represents the `configure` block.
type Configure struct {
	ExecutionRole       string         `hcl:"execution_role"`
	TaskFamily          string         `hcl:"task_family"`
	Commands            []string       `hcl:"commands,optional"`
	OutputDirectory     string         `hcl:"output_directory,optional"`
	BuildInputDirectory string         `hcl:"build_input_directory,optional"`
	Environment         hcl.Expression `hcl:"environment,optional"`
}

// Stage represents a `stage` block. Block order is deployment order.
type Stage struct {
	Name             string `hcl:"name,label"`
	Account          string `hcl:"account"`
	Region           string `hcl:"region"`
	DeploymentPolicy string `hcl:"deployment_policy"`
	ApprovalWait     string `hcl:"approval_wait,optional"`
	TerminationWait  string `hcl:"termination_wait,optional"`
}

// PipelineFile is the first decoding pass over a file: only `pipeline`
// blocks, everything else is left in Remain.
type PipelineFile struct {
	Pipelines []*Pipeline `hcl:"pipeline,block"`
	Remain    hcl.Body    `hcl:",remain"`
}

// BodyFile is the second decoding pass, evaluated with the pipeline
// variables in scope.
type BodyFile struct {
	Synth     []*Synth     `hcl:"synth,block"`
	Build     []*Build     `hcl:"build,block"`
	Configure []*Configure `hcl:"configure,block"`
	Stages    []*Stage     `hcl:"stage,block"`
}
