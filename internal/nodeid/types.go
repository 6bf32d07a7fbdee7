package nodeid

// Address is the structured representation of a step identifier.
type Address struct {
	Path []string
}

// Step builds the address of a step inside a stage.
func Step(stage, kind string) *Address {
	return &Address{Path: []string{stage, kind}}
}

// Stage returns the stage segment, or "" for a pipeline-level address.
func (a *Address) Stage() string {
	if a == nil || len(a.Path) < 2 {
		return ""
	}
	return a.Path[0]
}

// Kind returns the last segment of the address.
func (a *Address) Kind() string {
	if a == nil || len(a.Path) == 0 {
		return ""
	}
	return a.Path[len(a.Path)-1]
}
