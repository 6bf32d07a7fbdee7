/*
Package pipeline assembles a self-mutating, cross-account delivery pipeline.

The lifecycle is encoded in two handle types:

	b, err := pipeline.New(ctx, opts)         // createPipeline
	b, err = b.AddStage(ctx, uat)             // any number of stages, in deployment order
	sealed, err := b.Finalize(ctx)            // materializes execution roles
	grants, err := sealed.ComputeGrants(ctx)  // only reachable once sealed

Trust grants can only be computed from a *Sealed, so they are never attached
to a pipeline whose stage set may still change. A Builder that failed once
stays failed: no partial pipeline is ever finalized.
*/
package pipeline
