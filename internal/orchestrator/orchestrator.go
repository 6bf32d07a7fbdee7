package orchestrator

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/crossdeploy/internal/ctxlog"
	"github.com/vk/crossdeploy/internal/model"
	"github.com/vk/crossdeploy/internal/resolver"
)

// Orchestrator builds per-stage step graphs from shared Settings.
type Orchestrator struct {
	settings Settings
	resolver *resolver.Resolver
}

// New validates the settings and returns an Orchestrator.
func New(settings Settings, r *resolver.Resolver) (*Orchestrator, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = resolver.New("")
	}
	return &Orchestrator{settings: settings, resolver: r}, nil
}

// Settings returns the templates the orchestrator was created with.
func (o *Orchestrator) Settings() Settings {
	return o.settings
}

// BuildStage constructs the Build, Configure, Deploy graph of one stage.
// synthOutput is the artifact key of the pipeline's synth step.
func (o *Orchestrator) BuildStage(ctx context.Context, d model.StageDescriptor, synthOutput model.ArtifactKey) (*StageGraph, error) {
	ctx = ctxlog.With(ctx, "stage", d.Name)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting stage graph construction.")

	ref, err := o.resolver.Resolve(ctx, d.Environment, o.settings.Application, d.Policy)
	if err != nil {
		return nil, fmt.Errorf("stage %q: %w", d.Name, err)
	}

	g := newStageGraph(d)
	g.deployment = ref

	// First pass: create all step nodes.
	specs := o.createNodes(ctx, d, synthOutput, ref)
	producers := make(map[model.ArtifactKey]string, len(specs))
	for _, spec := range specs {
		g.dag.AddNode(spec.node.ID)
		if spec.node.Output != "" {
			producers[spec.node.Output] = spec.node.ID
		}
	}

	// Second pass: link explicit and implicit dependencies.
	for _, spec := range specs {
		if err := g.linkExplicitDeps(ctx, spec); err != nil {
			return nil, err
		}
		if err := g.linkImplicitDeps(ctx, spec, producers, synthOutput); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Node linking complete.", "edge_count", len(g.edges))

	// Final validation: cycles and ordering.
	if err := g.dag.DetectCycles(); err != nil {
		return nil, &model.DependencyOrderingError{Node: d.Name, Reason: err.Error()}
	}
	order, err := g.dag.TopologicalSort()
	if err != nil {
		return nil, &model.DependencyOrderingError{Node: d.Name, Reason: err.Error()}
	}
	g.order = order

	for _, spec := range specs {
		deps, err := g.dag.Dependencies(spec.node.ID)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", d.Name, err)
		}
		spec.node.DependsOn = deps
		g.nodes[spec.node.ID] = spec.node
	}

	if err := g.verify(); err != nil {
		return nil, err
	}

	logger.Info("Build: Stage graph constructed.", "nodes", len(g.order), "deployment_group", ref.ARN)
	return g, nil
}

// verify checks the ordering contract every stage must satisfy.
func (g *StageGraph) verify() error {
	build, _ := g.Step(model.StepBuild)
	configure, _ := g.Step(model.StepConfigure)
	deploy, _ := g.Step(model.StepDeploy)

	if !configure.Consumes(build.Output) {
		return &model.DependencyOrderingError{Node: configure.ID, Dependency: build.ID, Reason: "configure does not consume the build artifact"}
	}
	if !slices.Contains(deploy.DependsOn, configure.ID) {
		return &model.DependencyOrderingError{Node: deploy.ID, Dependency: configure.ID, Reason: "deploy is not ordered after configure"}
	}
	if deploy.DeploymentGroup == nil {
		return &model.DependencyOrderingError{Node: deploy.ID, Reason: "deploy has no deployment group"}
	}

	arn, err := resolver.ParseARN(deploy.DeploymentGroup.ARN)
	if err != nil {
		return &model.ReferenceResolutionError{Application: deploy.DeploymentGroup.Application, Missing: "valid ARN"}
	}
	if env := g.stage.Environment; arn.Account != env.Account || arn.Region != env.Region {
		return &model.DependencyOrderingError{Node: deploy.ID, Reason: fmt.Sprintf("deployment group %s is outside %s", arn, env)}
	}
	return nil
}
