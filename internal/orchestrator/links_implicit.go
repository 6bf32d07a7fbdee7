package orchestrator

import (
	"context"

	"github.com/vk/crossdeploy/internal/ctxlog"
	"github.com/vk/crossdeploy/internal/model"
)

// linkImplicitDeps derives edges from artifact consumption: a step that
// consumes an artifact depends on the step producing it. Artifacts provided
// by the pipeline itself (external) create no edge inside the stage.
func (g *StageGraph) linkImplicitDeps(ctx context.Context, spec *stepSpec, producers map[model.ArtifactKey]string, external model.ArtifactKey) error {
	logger := ctxlog.FromContext(ctx).With("node_id", spec.node.ID)

	for _, key := range spec.node.Inputs {
		if key == external {
			logger.Debug("Input is provided by the pipeline, no edge required.", "artifact", key)
			continue
		}

		producer, ok := producers[key]
		if !ok {
			return &model.DependencyOrderingError{Node: spec.node.ID, Dependency: string(key), Reason: "consumes an artifact no step produces"}
		}

		logger.Debug("Linking implicit dependency.", "from", producer, "to", spec.node.ID, "artifact", key)
		if err := g.dag.AddEdge(producer, spec.node.ID); err != nil {
			return &model.DependencyOrderingError{Node: spec.node.ID, Dependency: producer, Reason: err.Error()}
		}
		g.recordEdge(producer, spec.node.ID, EdgeImplicit, key)
	}
	return nil
}
