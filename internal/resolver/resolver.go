// Package resolver synthesizes references to blue/green deployment groups
// that already exist in target accounts. It never creates or mutates them.
package resolver

import (
	"context"

	"github.com/vk/crossdeploy/internal/ctxlog"
	"github.com/vk/crossdeploy/internal/model"
)

const (
	// DefaultPartition is used when a Resolver is created without one.
	DefaultPartition = "aws"

	serviceCodeDeploy   = "codedeploy"
	resourceApplication = "application"
)

// Resolver builds DeploymentGroupRefs for a single partition.
type Resolver struct {
	partition string
}

// New returns a Resolver for the given partition, defaulting to "aws".
func New(partition string) *Resolver {
	if partition == "" {
		partition = DefaultPartition
	}
	return &Resolver{partition: partition}
}

// Partition returns the partition references are built in.
func (r *Resolver) Partition() string {
	return r.partition
}

// Resolve returns a reference to the deployment group named after
// application in env. The deployment group shares the application's name.
func (r *Resolver) Resolve(ctx context.Context, env model.Environment, application string, policy model.DeploymentPolicy) (model.DeploymentGroupRef, error) {
	logger := ctxlog.FromContext(ctx).With("application", application)

	switch {
	case env.Account == "":
		return model.DeploymentGroupRef{}, &model.ReferenceResolutionError{Application: application, Missing: "account"}
	case env.Region == "":
		return model.DeploymentGroupRef{}, &model.ReferenceResolutionError{Application: application, Missing: "region"}
	case application == "":
		return model.DeploymentGroupRef{}, &model.ReferenceResolutionError{Application: application, Missing: "application name"}
	}

	arn := ARN{
		Partition:    r.partition,
		Service:      serviceCodeDeploy,
		Region:       env.Region,
		Account:      env.Account,
		ResourceType: resourceApplication,
		ResourceName: application,
	}
	logger.Debug("Resolved deployment group reference.", "arn", arn.String())

	return model.DeploymentGroupRef{
		Application:     application,
		DeploymentGroup: application,
		ARN:             arn.String(),
		Policy:          policy,
	}, nil
}
