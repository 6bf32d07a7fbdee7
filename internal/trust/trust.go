// Package trust computes the cross-account permissions a self-mutating
// pipeline needs to deploy into foreign accounts.
//
// Trust is scoped to bootstrap roles only: a grant lets the pipeline assume a
// role in the foreign account only if that role is tagged as one of the
// allowed bootstrap-role kinds.
package trust

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/crossdeploy/internal/ctxlog"
	"github.com/vk/crossdeploy/internal/model"
)

const (
	EffectAllow      = "Allow"
	ActionAssumeRole = "sts:AssumeRole"

	// ConditionOperator matches when the role tag equals any allowed value.
	ConditionOperator = "ForAnyValue:StringEquals"
	// BootstrapRoleTag is the tag bootstrap roles carry.
	BootstrapRoleTag = "iam:ResourceTag/aws-cdk:bootstrap-role"
)

// DefaultBootstrapRoles is the allow-list of bootstrap-role kinds.
var DefaultBootstrapRoles = []string{"file-publishing", "deploy"}

// Manager emits trust grants for foreign accounts.
type Manager struct {
	allowedRoles []string
}

// New returns a Manager restricted to the given bootstrap-role kinds, or to
// DefaultBootstrapRoles when none are given.
func New(allowedRoles ...string) *Manager {
	if len(allowedRoles) == 0 {
		allowedRoles = DefaultBootstrapRoles
	}
	return &Manager{allowedRoles: slices.Clone(allowedRoles)}
}

// ComputeGrants returns one grant per distinct account among stages that
// differs from pipelineAccount, in the order accounts first appear. It
// returns an empty slice when every stage shares the pipeline's account.
func (m *Manager) ComputeGrants(ctx context.Context, pipelineAccount string, stages []model.StageDescriptor) []model.TrustGrant {
	logger := ctxlog.FromContext(ctx)

	grants := []model.TrustGrant{}
	seen := make(map[string]struct{})
	for _, s := range stages {
		account := s.Environment.Account
		if account == pipelineAccount {
			logger.Debug("Stage shares the pipeline account, no grant required.", "stage", s.Name)
			continue
		}
		if _, ok := seen[account]; ok {
			logger.Debug("Foreign account already granted.", "stage", s.Name, "account", account)
			continue
		}
		seen[account] = struct{}{}
		grants = append(grants, m.grantFor(account))
		logger.Debug("Granted assume-role into foreign account.", "stage", s.Name, "account", account)
	}

	logger.Info("Cross-account trust computed.", "stages", len(stages), "grants", len(grants))
	return grants
}

func (m *Manager) grantFor(account string) model.TrustGrant {
	return model.TrustGrant{
		Account:  account,
		Effect:   EffectAllow,
		Action:   ActionAssumeRole,
		Resource: fmt.Sprintf("arn:*:iam::%s:role/*", account),
		Condition: model.Condition{
			Operator: ConditionOperator,
			Key:      BootstrapRoleTag,
			Values:   slices.Clone(m.allowedRoles),
		},
	}
}
