package model

import (
	"errors"
	"fmt"
)

// ValidationError reports invalid static input such as a duplicate stage
// name or an empty account.
type ValidationError struct {
	Stage  string
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	msg := "validation failed"
	if e.Stage != "" {
		msg += fmt.Sprintf(" for stage %q", e.Stage)
	}
	if e.Value != "" {
		return fmt.Sprintf("%s: %s %q: %s", msg, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", msg, e.Field, e.Reason)
}

// ReferenceResolutionError reports that a fully-qualified external reference
// could not be built.
type ReferenceResolutionError struct {
	Application string
	Missing     string
}

func (e *ReferenceResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve deployment group for application %q: %s is empty", e.Application, e.Missing)
}

// DependencyOrderingError reports a violated ordering contract: a step
// depending on an unknown step, a cycle, or a pipeline mutated after it was
// sealed.
type DependencyOrderingError struct {
	Node       string
	Dependency string
	Reason     string
}

func (e *DependencyOrderingError) Error() string {
	if e.Dependency != "" {
		return fmt.Sprintf("dependency ordering error: %s -> %s: %s", e.Node, e.Dependency, e.Reason)
	}
	if e.Node != "" {
		return fmt.Sprintf("dependency ordering error: %s: %s", e.Node, e.Reason)
	}
	return "dependency ordering error: " + e.Reason
}

// ErrNotFinalized is wrapped by errors raised when a sealed handle was not
// produced by Finalize.
var ErrNotFinalized = errors.New("pipeline has not been finalized")

// Is lets errors.Is match ErrNotFinalized through a DependencyOrderingError.
func (e *DependencyOrderingError) Is(target error) bool {
	return target == ErrNotFinalized && e.Reason == ErrNotFinalized.Error()
}

// ExecutionFailure describes a step whose commands exited non-zero. It is
// reported by the external executor and never produced by this module.
type ExecutionFailure struct {
	Step     string
	ExitCode int
}

func (e *ExecutionFailure) Error() string {
	return fmt.Sprintf("step %s failed with exit code %d", e.Step, e.ExitCode)
}
