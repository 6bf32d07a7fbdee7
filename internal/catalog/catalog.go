// Package catalog holds the ordered list of stages a pipeline deploys to.
package catalog

import (
	"context"

	"github.com/vk/crossdeploy/internal/ctxlog"
	"github.com/vk/crossdeploy/internal/model"
	"github.com/vk/crossdeploy/internal/nodeid"
)

// Catalog is an insertion-ordered set of stage descriptors keyed by name.
// Insertion order is deployment order.
type Catalog struct {
	stages []model.StageDescriptor
	index  map[string]int
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Add registers a stage. The catalog is left unchanged when the descriptor
// is rejected.
func (c *Catalog) Add(ctx context.Context, d model.StageDescriptor) error {
	logger := ctxlog.FromContext(ctx).With("stage", d.Name)

	if err := Validate(d); err != nil {
		logger.Debug("Stage rejected.", "error", err)
		return err
	}
	if _, exists := c.index[d.Name]; exists {
		return &model.ValidationError{Stage: d.Name, Field: "name", Value: d.Name, Reason: "stage already registered"}
	}

	c.index[d.Name] = len(c.stages)
	c.stages = append(c.stages, d)
	logger.Debug("Stage registered.", "environment", d.Environment.String(), "position", len(c.stages))
	return nil
}

// Validate checks a descriptor without registering it.
func Validate(d model.StageDescriptor) error {
	if err := nodeid.ValidateSegment(d.Name); err != nil {
		return &model.ValidationError{Stage: d.Name, Field: "name", Value: d.Name, Reason: err.Error()}
	}
	if err := d.Environment.Validate(); err != nil {
		if verr, ok := err.(*model.ValidationError); ok {
			verr.Stage = d.Name
		}
		return err
	}
	if err := d.Policy.Validate(); err != nil {
		if verr, ok := err.(*model.ValidationError); ok {
			verr.Stage = d.Name
		}
		return err
	}
	return nil
}

// Stages returns a copy of the registered descriptors in insertion order.
func (c *Catalog) Stages() []model.StageDescriptor {
	out := make([]model.StageDescriptor, len(c.stages))
	copy(out, c.stages)
	return out
}

// Lookup returns the descriptor registered under name.
func (c *Catalog) Lookup(name string) (model.StageDescriptor, bool) {
	i, ok := c.index[name]
	if !ok {
		return model.StageDescriptor{}, false
	}
	return c.stages[i], true
}

// Len returns the number of registered stages.
func (c *Catalog) Len() int {
	return len(c.stages)
}
