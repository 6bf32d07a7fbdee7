package resolver

import (
	"fmt"
	"strings"

	awsarn "github.com/aws/aws-sdk-go-v2/aws/arn"
)

// ARN is a fully-qualified external reference whose resource section is
// split into a type and a name.
type ARN struct {
	Partition    string
	Service      string
	Region       string
	Account      string
	ResourceType string
	ResourceName string
}

// String formats the ARN with a colon between resource type and name, the
// layout CodeDeploy uses for applications.
func (a ARN) String() string {
	resource := a.ResourceType
	if a.ResourceName != "" {
		resource += ":" + a.ResourceName
	}
	return awsarn.ARN{
		Partition: a.Partition,
		Service:   a.Service,
		Region:    a.Region,
		AccountID: a.Account,
		Resource:  resource,
	}.String()
}

// ParseARN splits a reference into its components. Both the colon and the
// slash resource layouts are accepted.
func ParseARN(s string) (ARN, error) {
	parsed, err := awsarn.Parse(s)
	if err != nil {
		return ARN{}, fmt.Errorf("malformed ARN %q: %w", s, err)
	}
	a := ARN{
		Partition: parsed.Partition,
		Service:   parsed.Service,
		Region:    parsed.Region,
		Account:   parsed.AccountID,
	}
	if i := strings.IndexAny(parsed.Resource, ":/"); i >= 0 {
		a.ResourceType, a.ResourceName = parsed.Resource[:i], parsed.Resource[i+1:]
	} else {
		a.ResourceType = parsed.Resource
	}
	if a.Partition == "" || a.Service == "" || a.ResourceType == "" {
		return ARN{}, fmt.Errorf("malformed ARN %q: partition, service and resource type are required", s)
	}
	return a, nil
}
