/*
Package nodeid provides a structured representation for step identifiers
within a pipeline.

The canonical format is a dot-separated path of two segments, the stage
name followed by the step kind, e.g. `UAT.build` or `Prod.deploy`. The
pipeline's own synth step uses the single-segment address `synth`.

Centralising the format here keeps the orchestrator, the renderer and the
HCL loader agreeing on which stage names are acceptable.
*/
package nodeid
