package model

// Condition restricts a grant to roles carrying one of Values under Key.
type Condition struct {
	Operator string   `json:"operator" yaml:"operator"`
	Key      string   `json:"key" yaml:"key"`
	Values   []string `json:"values" yaml:"values"`
}

// TrustGrant allows the pipeline's self-mutation identity to assume
// bootstrap roles in one foreign account.
type TrustGrant struct {
	Account   string    `json:"account" yaml:"account"`
	Effect    string    `json:"effect" yaml:"effect"`
	Action    string    `json:"action" yaml:"action"`
	Resource  string    `json:"resource" yaml:"resource"`
	Condition Condition `json:"condition" yaml:"condition"`
}
