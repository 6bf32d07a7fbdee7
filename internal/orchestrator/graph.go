package orchestrator

import (
	"github.com/vk/crossdeploy/internal/dag"
	"github.com/vk/crossdeploy/internal/model"
)

// EdgeKind tells how a dependency edge was derived.
type EdgeKind string

const (
	// EdgeExplicit edges come from a step's declared dependencies.
	EdgeExplicit EdgeKind = "explicit"
	// EdgeImplicit edges come from artifact consumption.
	EdgeImplicit EdgeKind = "implicit"
)

// Dependency is one edge of a stage graph: To depends on From.
type Dependency struct {
	From     string            `json:"from" yaml:"from"`
	To       string            `json:"to" yaml:"to"`
	Kind     EdgeKind          `json:"kind" yaml:"kind"`
	Artifact model.ArtifactKey `json:"artifact,omitempty" yaml:"artifact,omitempty"`
}

// StageGraph is the immutable step graph of one stage.
type StageGraph struct {
	stage      model.StageDescriptor
	dag        *dag.Graph
	nodes      map[string]model.StepNode
	order      []string
	edges      map[dag.Edge]Dependency
	deployment model.DeploymentGroupRef
}

func newStageGraph(d model.StageDescriptor) *StageGraph {
	return &StageGraph{
		stage: d,
		dag:   dag.New(),
		nodes: make(map[string]model.StepNode),
		edges: make(map[dag.Edge]Dependency),
	}
}

// recordEdge remembers how an edge was derived. An explicit declaration
// wins over an implicit one for the same pair of steps.
func (g *StageGraph) recordEdge(from, to string, kind EdgeKind, artifact model.ArtifactKey) {
	key := dagEdge(from, to)
	existing, ok := g.edges[key]
	switch {
	case !ok:
		g.edges[key] = Dependency{From: from, To: to, Kind: kind, Artifact: artifact}
	case existing.Kind == EdgeImplicit && kind == EdgeExplicit:
		existing.Kind = EdgeExplicit
		g.edges[key] = existing
	case existing.Artifact == "" && artifact != "":
		existing.Artifact = artifact
		g.edges[key] = existing
	}
}

// Stage returns the descriptor the graph was built from.
func (g *StageGraph) Stage() model.StageDescriptor {
	return g.stage
}

// Nodes returns copies of the stage's steps in topological order.
func (g *StageGraph) Nodes() []model.StepNode {
	out := make([]model.StepNode, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id].Clone())
	}
	return out
}

// Node returns a copy of the step with the given ID.
func (g *StageGraph) Node(id string) (model.StepNode, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return model.StepNode{}, false
	}
	return n.Clone(), true
}

// Step returns a copy of the stage's step of the given kind.
func (g *StageGraph) Step(kind model.StepKind) (model.StepNode, bool) {
	return g.Node(stepID(g.stage.Name, kind))
}

// Edges returns the dependency edges ordered by dependent step, then by
// dependency ID.
func (g *StageGraph) Edges() []Dependency {
	var out []Dependency
	for _, e := range g.dag.Edges() {
		out = append(out, g.edges[e])
	}
	return out
}

// DeploymentGroup returns the reference bound to the stage's Deploy step.
func (g *StageGraph) DeploymentGroup() model.DeploymentGroupRef {
	return g.deployment
}

func dagEdge(from, to string) dag.Edge {
	return dag.Edge{From: from, To: to}
}
