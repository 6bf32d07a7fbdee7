package pipeline

import (
	"context"
	"slices"

	"github.com/vk/crossdeploy/internal/ctxlog"
	"github.com/vk/crossdeploy/internal/model"
	"github.com/vk/crossdeploy/internal/orchestrator"
	"github.com/vk/crossdeploy/internal/trust"
)

// Sealed is a finalized pipeline. Its stage set no longer changes, which
// makes it the only place cross-account trust can be computed.
type Sealed struct {
	definition model.PipelineDefinition
	settings   Settings
	synth      model.StepNode
	roles      Roles
	stages     []*orchestrator.StageGraph
	trust      *trust.Manager

	grants []model.TrustGrant
}

// ComputeGrants computes the trust grants for every foreign stage account
// and attaches them to the self-mutation role, replacing any earlier
// result. A Sealed not produced by Finalize yields a DependencyOrderingError.
func (s *Sealed) ComputeGrants(ctx context.Context) ([]model.TrustGrant, error) {
	if s == nil || s.trust == nil {
		return nil, &model.DependencyOrderingError{Reason: model.ErrNotFinalized.Error()}
	}
	logger := ctxlog.FromContext(ctx).With("pipeline", s.definition.Name)

	grants := s.trust.ComputeGrants(ctx, s.definition.Environment.Account, s.definition.Stages)
	s.grants = grants
	s.roles.SelfMutation.TrustGrants = cloneGrants(grants)

	logger.Debug("Trust grants attached to self-mutation role.", "role", s.roles.SelfMutation.Name, "grants", len(grants))
	return cloneGrants(grants), nil
}

// Grants returns the last computed grants, or nil before ComputeGrants.
func (s *Sealed) Grants() []model.TrustGrant {
	return cloneGrants(s.grants)
}

// PolicyDocument renders the computed grants as an IAM policy document.
func (s *Sealed) PolicyDocument() trust.PolicyDocument {
	return s.trust.PolicyDocument(s.grants)
}

// Definition returns the pipeline definition with its final stage list.
func (s *Sealed) Definition() model.PipelineDefinition {
	def := s.definition
	def.Stages = slices.Clone(s.definition.Stages)
	return def
}

// Settings returns the pipeline-wide execution flags.
func (s *Sealed) Settings() Settings {
	return s.settings
}

// Synth returns the pipeline's synth step.
func (s *Sealed) Synth() model.StepNode {
	return s.synth.Clone()
}

// Roles returns the materialized execution identities.
func (s *Sealed) Roles() Roles {
	return s.roles.clone()
}

// Stages returns the stage graphs in deployment order.
func (s *Sealed) Stages() []*orchestrator.StageGraph {
	return slices.Clone(s.stages)
}

// ServiceStack returns the name of the service stack deployed by stage,
// "<pipeline>Service-<stage>".
func (s *Sealed) ServiceStack(stage string) string {
	return s.definition.Name + "Service-" + stage
}
