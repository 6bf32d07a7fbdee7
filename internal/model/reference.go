package model

// DeploymentGroupRef points at a blue/green deployment group that already
// exists in a target account. It is never created by this module.
type DeploymentGroupRef struct {
	Application     string           `json:"application" yaml:"application"`
	DeploymentGroup string           `json:"deployment_group" yaml:"deployment_group"`
	ARN             string           `json:"arn" yaml:"arn"`
	Policy          DeploymentPolicy `json:"policy" yaml:"policy"`
}
