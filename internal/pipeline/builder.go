package pipeline

import (
	"context"
	"fmt"

	"github.com/vk/crossdeploy/internal/catalog"
	"github.com/vk/crossdeploy/internal/ctxlog"
	"github.com/vk/crossdeploy/internal/model"
	"github.com/vk/crossdeploy/internal/orchestrator"
	"github.com/vk/crossdeploy/internal/resolver"
	"github.com/vk/crossdeploy/internal/trust"
)

// Builder accumulates stages of a pipeline that has not been finalized.
type Builder struct {
	opts     Options
	settings Settings
	synth    model.StepNode
	catalog  *catalog.Catalog
	orch     *orchestrator.Orchestrator
	trust    *trust.Manager

	// stages is append-only and follows catalog order.
	stages []*orchestrator.StageGraph
	sealed *Sealed
	err    error
}

// New creates a self-mutating pipeline sourced from opts.Source. Unset
// synth settings and the registry region default to DefaultSynthSettings and
// the pipeline's own region.
func New(ctx context.Context, opts Options) (*Builder, error) {
	logger := ctxlog.FromContext(ctx).With("pipeline", opts.Name)

	if len(opts.Synth.Commands) == 0 && len(opts.Synth.InstallCommands) == 0 && opts.Synth.OutputDirectory == "" {
		opts.Synth = DefaultSynthSettings()
	}
	if opts.Steps.Build.Region == "" {
		opts.Steps.Build.Region = opts.Environment.Region
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	orch, err := orchestrator.New(opts.Steps, resolver.New(opts.Partition))
	if err != nil {
		return nil, fmt.Errorf("invalid step settings: %w", err)
	}

	b := &Builder{
		opts:     opts,
		settings: defaultSettings,
		synth:    opts.synthNode(),
		catalog:  catalog.New(),
		orch:     orch,
		trust:    trust.New(opts.BootstrapRoles...),
	}
	logger.Debug("Pipeline created.",
		"repository", opts.Source.Repository,
		"branch", opts.Source.Branch,
		"environment", opts.Environment.String(),
	)
	return b, nil
}

// AddStage orchestrates the stage's step graph and registers it after the
// stages added before it. Any error leaves the Builder failed.
func (b *Builder) AddStage(ctx context.Context, d model.StageDescriptor) (*Builder, error) {
	if b.err != nil {
		return b, b.err
	}
	if b.sealed != nil {
		return b, &model.DependencyOrderingError{Node: d.Name, Reason: "stage added after the pipeline was finalized"}
	}

	logger := ctxlog.FromContext(ctx).With("pipeline", b.opts.Name, "stage", d.Name)
	logger.Debug("Adding stage.")

	if err := catalog.Validate(d); err != nil {
		return b, b.fail(err)
	}
	if _, exists := b.catalog.Lookup(d.Name); exists {
		return b, b.fail(&model.ValidationError{Stage: d.Name, Field: "name", Value: d.Name, Reason: "stage already registered"})
	}

	graph, err := b.orch.BuildStage(ctx, d, b.synth.Output)
	if err != nil {
		return b, b.fail(err)
	}
	if err := b.catalog.Add(ctx, d); err != nil {
		return b, b.fail(err)
	}
	b.stages = append(b.stages, graph)

	logger.Info("Stage added.", "position", len(b.stages), "environment", d.Environment.String())
	return b, nil
}

func (b *Builder) fail(err error) error {
	b.err = err
	return err
}

// Err returns the error that failed the Builder, if any.
func (b *Builder) Err() error {
	return b.err
}

// Finalize seals the stage set and materializes the pipeline's execution
// roles. Calling it again returns the same *Sealed.
func (b *Builder) Finalize(ctx context.Context) (*Sealed, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.sealed != nil {
		return b.sealed, nil
	}
	logger := ctxlog.FromContext(ctx).With("pipeline", b.opts.Name)

	stages := b.catalog.Stages()
	def := model.PipelineDefinition{
		Name:        b.opts.Name,
		Source:      b.opts.Source,
		Environment: b.opts.Environment,
		Stages:      stages,
	}

	steps := b.orch.Settings()
	b.sealed = &Sealed{
		definition: def,
		settings:   b.settings,
		synth:      b.synth.Clone(),
		roles: materializeRoles(
			b.opts.Name,
			resolver.New(b.opts.Partition).Partition(),
			b.opts.Environment,
			steps.Build.RegistryRepository,
			steps.Build.Region,
		),
		stages: append([]*orchestrator.StageGraph(nil), b.stages...),
		trust:  b.trust,
	}

	logger.Info("Pipeline finalized.", "stages", len(stages), "self_mutation_role", b.sealed.roles.SelfMutation.Name)
	return b.sealed, nil
}
