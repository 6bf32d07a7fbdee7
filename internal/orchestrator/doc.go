/*
Package orchestrator builds the step graph of a single pipeline stage.

Every stage gets three steps, always in the same order:

 1. Build: runs the container build against the pipeline's synth output and
    publishes an artifact directory holding the image descriptor
    (imageDetail.json, carrying the registry URI and image tag).

 2. Configure: consumes the synth output plus Build's artifact, copies the
    image descriptor into its working directory and renders the deployment
    descriptor directory.

 3. Deploy: explicitly depends on Configure, consumes its artifact and is
    bound to the stage's blue/green deployment group.

Graph construction is a multi-phase process:

 1. Node Creation: one model.StepNode per step, with commands, artifact keys
    and environment bindings filled in from Settings.

 2. Dependency Linking: explicit `depends_on` declarations and implicit
    dependencies derived from artifact consumption are turned into edges of
    a dag.Graph. A dependency on a step that does not exist, or an artifact
    nobody produces, is a model.DependencyOrderingError.

 3. Validation: the graph is checked for cycles, ordered topologically, and
    each node's dependency set is frozen from the final topology.

The resulting StageGraph is immutable; rebuilding from identical input
produces a structurally identical graph.
*/
package orchestrator
