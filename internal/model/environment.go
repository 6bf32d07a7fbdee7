package model

import "fmt"

// Environment identifies an isolated deployment target.
type Environment struct {
	Account string `json:"account" yaml:"account"`
	Region  string `json:"region" yaml:"region"`
}

// Validate reports a ValidationError when the account or region is empty.
func (e Environment) Validate() error {
	if e.Account == "" {
		return &ValidationError{Field: "account", Reason: "must not be empty"}
	}
	if e.Region == "" {
		return &ValidationError{Field: "region", Reason: "must not be empty"}
	}
	return nil
}

// String renders the environment as "account/region".
func (e Environment) String() string {
	return fmt.Sprintf("%s/%s", e.Account, e.Region)
}

// SameAccount reports whether both environments live in the same account.
func (e Environment) SameAccount(other Environment) bool {
	return e.Account == other.Account
}
