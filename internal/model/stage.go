package model

// StageDescriptor is one target environment of the pipeline. It is a value
// type; once registered in a catalog it is never modified.
type StageDescriptor struct {
	Name        string           `json:"name" yaml:"name"`
	Environment Environment      `json:"environment" yaml:"environment"`
	Policy      DeploymentPolicy `json:"policy" yaml:"policy"`
	Timeouts    DeployTimeouts   `json:"timeouts" yaml:"timeouts"`
}

// Source is the repository location the pipeline synthesizes from.
type Source struct {
	Repository string `json:"repository" yaml:"repository"`
	Branch     string `json:"branch" yaml:"branch"`
}

// PipelineDefinition is the static input of a pipeline build.
type PipelineDefinition struct {
	Name        string            `json:"name" yaml:"name"`
	Source      Source            `json:"source" yaml:"source"`
	Environment Environment       `json:"environment" yaml:"environment"`
	Stages      []StageDescriptor `json:"stages" yaml:"stages"`
}
