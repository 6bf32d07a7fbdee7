// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for all file parsing, expression evaluation
// and HCL-to-model translation.
//
// Files are decoded in two passes. The first pass reads only `pipeline`
// blocks; their attributes then become the `pipeline` variable of the
// evaluation context used for every other block, so a stage can say
// `region = pipeline.region`.
package hcl
