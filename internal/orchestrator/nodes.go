package orchestrator

import (
	"context"
	"slices"

	"github.com/vk/crossdeploy/internal/ctxlog"
	"github.com/vk/crossdeploy/internal/model"
	"github.com/vk/crossdeploy/internal/nodeid"
)

// stepSpec is a node under construction together with its declared
// explicit dependencies.
type stepSpec struct {
	node      model.StepNode
	dependsOn []string
}

// stepID returns the canonical ID of a step in a stage.
func stepID(stage string, kind model.StepKind) string {
	return nodeid.Step(stage, string(kind)).String()
}

// createNodes performs the first pass of stage construction: one spec per
// step, in Build, Configure, Deploy order.
func (o *Orchestrator) createNodes(ctx context.Context, d model.StageDescriptor, synthOutput model.ArtifactKey, ref model.DeploymentGroupRef) []*stepSpec {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting node creation pass.")

	buildID := stepID(d.Name, model.StepBuild)
	configureID := stepID(d.Name, model.StepConfigure)
	deployID := stepID(d.Name, model.StepDeploy)

	build := &stepSpec{node: model.StepNode{
		ID:              buildID,
		Kind:            model.StepBuild,
		Commands:        slices.Clone(o.settings.Build.Commands),
		Inputs:          []model.ArtifactKey{synthOutput},
		Output:          model.OutputKey(buildID),
		OutputDirectory: o.settings.Build.OutputDirectory,
		OutputFiles:     []string{o.settings.Build.ImageDescriptor},
		Env:             o.settings.buildEnv(),
		BuildImage:      o.settings.Build.BuildImage,
		Privileged:      o.settings.Build.Privileged,
	}}

	configure := &stepSpec{node: model.StepNode{
		ID:       configureID,
		Kind:     model.StepConfigure,
		Commands: append([]string{o.settings.copyDescriptorCommand()}, o.settings.Configure.Commands...),
		Inputs:   []model.ArtifactKey{synthOutput, build.node.Output},
		AdditionalInputs: map[string]string{
			o.settings.Configure.BuildInputDirectory: string(build.node.Output),
		},
		Output:          model.OutputKey(configureID),
		OutputDirectory: o.settings.Configure.OutputDirectory,
		Env:             o.settings.configureEnv(),
	}}

	timeouts := d.Timeouts
	if timeouts.ApprovalWait <= 0 {
		timeouts.ApprovalWait = model.DefaultDeployTimeouts.ApprovalWait
	}
	if timeouts.TerminationWait <= 0 {
		timeouts.TerminationWait = model.DefaultDeployTimeouts.TerminationWait
	}
	deploy := &stepSpec{
		node: model.StepNode{
			ID:              deployID,
			Kind:            model.StepDeploy,
			Inputs:          []model.ArtifactKey{configure.node.Output},
			DeploymentGroup: &ref,
			Timeouts:        &timeouts,
		},
		dependsOn: []string{configureID},
	}

	specs := []*stepSpec{build, configure, deploy}
	logger.Debug("Finished node creation pass.", "node_count", len(specs))
	return specs
}
