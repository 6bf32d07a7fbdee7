package trust

import "github.com/vk/crossdeploy/internal/model"

// PolicyVersion is the IAM policy language version.
const PolicyVersion = "2012-10-17"

// PolicyDocument is an IAM identity policy in its JSON shape.
type PolicyDocument struct {
	Version   string      `json:"Version" yaml:"Version"`
	Statement []Statement `json:"Statement" yaml:"Statement"`
}

// Statement is one statement of a PolicyDocument.
type Statement struct {
	Effect    string                         `json:"Effect" yaml:"Effect"`
	Action    []string                       `json:"Action" yaml:"Action"`
	Resource  []string                       `json:"Resource" yaml:"Resource"`
	Condition map[string]map[string][]string `json:"Condition,omitempty" yaml:"Condition,omitempty"`
}

// PolicyDocument renders grants as the policy attached to the pipeline's
// self-mutation role.
func (m *Manager) PolicyDocument(grants []model.TrustGrant) PolicyDocument {
	doc := PolicyDocument{Version: PolicyVersion, Statement: []Statement{}}
	for _, g := range grants {
		doc.Statement = append(doc.Statement, Statement{
			Effect:   g.Effect,
			Action:   []string{g.Action},
			Resource: []string{g.Resource},
			Condition: map[string]map[string][]string{
				g.Condition.Operator: {g.Condition.Key: g.Condition.Values},
			},
		})
	}
	return doc
}
