// Package config defines the format-agnostic configuration model of a
// pipeline file, along with the Loader interface implemented by concrete
// formats such as HCL.
//
// The `config.Model` is translated into pipeline options and stage
// descriptors by the app package; nothing downstream depends on the file
// format.
package config
