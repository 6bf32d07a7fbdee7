// Package model defines the immutable value types shared by the pipeline
// synthesizer: stage descriptors, step nodes, deployment-group references
// and cross-account trust grants.
//
// Types in this package carry no behaviour beyond validation and copying.
// Graph construction lives in the orchestrator and pipeline packages.
package model
