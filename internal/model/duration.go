package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Durations are written in time.Duration's text form ("5m0s") so JSON and
// YAML output agree.

func formatDuration(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: s, Reason: fmt.Sprintf("not a duration: %v", err)}
	}
	return d, nil
}

type timeoutsJSON struct {
	ApprovalWait    string `json:"approval_wait"`
	TerminationWait string `json:"termination_wait"`
}

func (t DeployTimeouts) MarshalJSON() ([]byte, error) {
	return json.Marshal(timeoutsJSON{
		ApprovalWait:    formatDuration(t.ApprovalWait),
		TerminationWait: formatDuration(t.TerminationWait),
	})
}

func (t *DeployTimeouts) UnmarshalJSON(data []byte) error {
	var raw timeoutsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	approval, err := parseDuration("approval_wait", raw.ApprovalWait)
	if err != nil {
		return err
	}
	termination, err := parseDuration("termination_wait", raw.TerminationWait)
	if err != nil {
		return err
	}
	*t = DeployTimeouts{ApprovalWait: approval, TerminationWait: termination}
	return nil
}

type policyJSON struct {
	Name       string     `json:"name"`
	Kind       PolicyKind `json:"kind"`
	Percentage int        `json:"percentage,omitempty"`
	Interval   string     `json:"interval,omitempty"`
}

func (p DeploymentPolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(policyJSON{
		Name:       p.Name,
		Kind:       p.Kind,
		Percentage: p.Percentage,
		Interval:   formatDuration(p.Interval),
	})
}

func (p *DeploymentPolicy) UnmarshalJSON(data []byte) error {
	var raw policyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	interval, err := parseDuration("interval", raw.Interval)
	if err != nil {
		return err
	}
	*p = DeploymentPolicy{Name: raw.Name, Kind: raw.Kind, Percentage: raw.Percentage, Interval: interval}
	return nil
}
