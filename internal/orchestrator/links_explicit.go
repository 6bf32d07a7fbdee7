package orchestrator

import (
	"context"

	"github.com/vk/crossdeploy/internal/ctxlog"
	"github.com/vk/crossdeploy/internal/model"
)

// linkExplicitDeps turns a step's declared `depends_on` list into edges.
func (g *StageGraph) linkExplicitDeps(ctx context.Context, spec *stepSpec) error {
	logger := ctxlog.FromContext(ctx).With("node_id", spec.node.ID)

	for _, depID := range spec.dependsOn {
		if !g.dag.HasNode(depID) {
			return &model.DependencyOrderingError{Node: spec.node.ID, Dependency: depID, Reason: "depends on a step that is not in the graph"}
		}
		logger.Debug("Linking explicit dependency.", "from", depID, "to", spec.node.ID)
		if err := g.dag.AddEdge(depID, spec.node.ID); err != nil {
			return &model.DependencyOrderingError{Node: spec.node.ID, Dependency: depID, Reason: err.Error()}
		}
		g.recordEdge(depID, spec.node.ID, EdgeExplicit, "")
	}
	return nil
}
