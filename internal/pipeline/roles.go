package pipeline

import (
	"fmt"
	"slices"

	"github.com/vk/crossdeploy/internal/model"
)

// Permission is an identity-policy statement without conditions.
type Permission struct {
	Effect    string   `json:"effect" yaml:"effect"`
	Actions   []string `json:"actions" yaml:"actions"`
	Resources []string `json:"resources" yaml:"resources"`
}

// Role is an execution identity materialized by Finalize.
type Role struct {
	Name        string             `json:"name" yaml:"name"`
	AssumedBy   string             `json:"assumed_by" yaml:"assumed_by"`
	Permissions []Permission       `json:"permissions,omitempty" yaml:"permissions,omitempty"`
	TrustGrants []model.TrustGrant `json:"trust_grants,omitempty" yaml:"trust_grants,omitempty"`
}

// Roles are the pipeline's own execution identities.
type Roles struct {
	Pipeline        Role `json:"pipeline" yaml:"pipeline"`
	SelfMutation    Role `json:"self_mutation" yaml:"self_mutation"`
	AssetPublishing Role `json:"asset_publishing" yaml:"asset_publishing"`
	Build           Role `json:"build" yaml:"build"`
}

const (
	principalCodePipeline = "codepipeline.amazonaws.com"
	principalCodeBuild    = "codebuild.amazonaws.com"
)

// registryActions allow the build role to pull and push images.
var registryActions = []string{
	"ecr:BatchCheckLayerAvailability",
	"ecr:GetDownloadUrlForLayer",
	"ecr:BatchGetImage",
	"ecr:PutImage",
	"ecr:InitiateLayerUpload",
	"ecr:UploadLayerPart",
	"ecr:CompleteLayerUpload",
}

// materializeRoles derives the deterministic execution identities of a pipeline.
func materializeRoles(name, partition string, env model.Environment, repository, registryRegion string) Roles {
	repoARN := fmt.Sprintf("arn:%s:ecr:%s:%s:repository/%s", partition, registryRegion, env.Account, repository)
	return Roles{
		Pipeline: Role{
			Name:      name + "-PipelineRole",
			AssumedBy: principalCodePipeline,
		},
		SelfMutation: Role{
			Name:      name + "-SelfMutationRole",
			AssumedBy: principalCodeBuild,
		},
		AssetPublishing: Role{
			Name:      name + "-AssetPublishingRole",
			AssumedBy: principalCodeBuild,
		},
		Build: Role{
			Name:      name + "-BuildRole",
			AssumedBy: principalCodeBuild,
			Permissions: []Permission{
				{Effect: "Allow", Actions: slices.Clone(registryActions), Resources: []string{repoARN}},
				{Effect: "Allow", Actions: []string{"ecr:GetAuthorizationToken"}, Resources: []string{"*"}},
			},
		},
	}
}

func (r Role) clone() Role {
	c := r
	c.Permissions = make([]Permission, len(r.Permissions))
	for i, p := range r.Permissions {
		c.Permissions[i] = Permission{Effect: p.Effect, Actions: slices.Clone(p.Actions), Resources: slices.Clone(p.Resources)}
	}
	if len(r.Permissions) == 0 {
		c.Permissions = nil
	}
	c.TrustGrants = cloneGrants(r.TrustGrants)
	return c
}

func (r Roles) clone() Roles {
	return Roles{
		Pipeline:        r.Pipeline.clone(),
		SelfMutation:    r.SelfMutation.clone(),
		AssetPublishing: r.AssetPublishing.clone(),
		Build:           r.Build.clone(),
	}
}

func cloneGrants(grants []model.TrustGrant) []model.TrustGrant {
	if grants == nil {
		return nil
	}
	out := make([]model.TrustGrant, len(grants))
	for i, g := range grants {
		out[i] = g
		out[i].Condition.Values = slices.Clone(g.Condition.Values)
	}
	return out
}
