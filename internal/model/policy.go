package model

import (
	"fmt"
	"sort"
	"time"
)

// PolicyKind is the traffic-shifting strategy of a deployment policy.
type PolicyKind string

const (
	PolicyCanary    PolicyKind = "canary"
	PolicyLinear    PolicyKind = "linear"
	PolicyAllAtOnce PolicyKind = "all-at-once"
)

// DeploymentPolicy describes how traffic moves from the blue pool to the
// green pool. Percentage and Interval are zero for PolicyAllAtOnce.
type DeploymentPolicy struct {
	Name       string        `json:"name" yaml:"name"`
	Kind       PolicyKind    `json:"kind" yaml:"kind"`
	Percentage int           `json:"percentage,omitempty" yaml:"percentage,omitempty"`
	Interval   time.Duration `json:"interval,omitempty" yaml:"interval,omitempty"`
}

// Predefined ECS deployment configurations.
var (
	Canary10Percent5Minutes = DeploymentPolicy{
		Name: "CodeDeployDefault.ECSCanary10Percent5Minutes", Kind: PolicyCanary, Percentage: 10, Interval: 5 * time.Minute,
	}
	Canary10Percent15Minutes = DeploymentPolicy{
		Name: "CodeDeployDefault.ECSCanary10Percent15Minutes", Kind: PolicyCanary, Percentage: 10, Interval: 15 * time.Minute,
	}
	Linear10PercentEvery1Minute = DeploymentPolicy{
		Name: "CodeDeployDefault.ECSLinear10PercentEvery1Minutes", Kind: PolicyLinear, Percentage: 10, Interval: time.Minute,
	}
	Linear10PercentEvery3Minutes = DeploymentPolicy{
		Name: "CodeDeployDefault.ECSLinear10PercentEvery3Minutes", Kind: PolicyLinear, Percentage: 10, Interval: 3 * time.Minute,
	}
	AllAtOnce = DeploymentPolicy{
		Name: "CodeDeployDefault.ECSAllAtOnce", Kind: PolicyAllAtOnce,
	}
)

// policiesByAlias maps the short configuration names to predefined policies.
var policiesByAlias = map[string]DeploymentPolicy{
	"Canary10Percent5Minutes":      Canary10Percent5Minutes,
	"Canary10Percent15Minutes":     Canary10Percent15Minutes,
	"Linear10PercentEvery1Minute":  Linear10PercentEvery1Minute,
	"Linear10PercentEvery3Minutes": Linear10PercentEvery3Minutes,
	"AllAtOnce":                    AllAtOnce,
}

// ParsePolicy looks up a predefined policy by its short alias or by its
// fully-qualified CodeDeploy configuration name.
func ParsePolicy(name string) (DeploymentPolicy, error) {
	if p, ok := policiesByAlias[name]; ok {
		return p, nil
	}
	for _, p := range policiesByAlias {
		if p.Name == name {
			return p, nil
		}
	}
	return DeploymentPolicy{}, &ValidationError{
		Field:  "deployment_policy",
		Value:  name,
		Reason: fmt.Sprintf("unknown policy, expected one of %v", PolicyAliases()),
	}
}

// PolicyAliases returns the sorted short names accepted by ParsePolicy.
func PolicyAliases() []string {
	aliases := make([]string, 0, len(policiesByAlias))
	for alias := range policiesByAlias {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// Validate checks the internal consistency of a policy.
func (p DeploymentPolicy) Validate() error {
	switch p.Kind {
	case PolicyAllAtOnce:
		return nil
	case PolicyCanary, PolicyLinear:
		if p.Percentage <= 0 || p.Percentage > 100 {
			return &ValidationError{Field: "percentage", Value: fmt.Sprint(p.Percentage), Reason: "must be within 1..100"}
		}
		if p.Interval <= 0 {
			return &ValidationError{Field: "interval", Value: p.Interval.String(), Reason: "must be positive"}
		}
		return nil
	default:
		return &ValidationError{Field: "kind", Value: string(p.Kind), Reason: "unknown policy kind"}
	}
}
