package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex matches a single path segment. Dots are separators and are
// therefore never part of a segment.
var segmentRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateSegment checks that name can be used as one address segment, for
// example as a stage name.
func ValidateSegment(name string) error {
	if name == "" {
		return fmt.Errorf("segment cannot be empty")
	}
	if len(name) > 100 {
		return fmt.Errorf("segment %q is longer than 100 characters", name)
	}
	if !segmentRegex.MatchString(name) {
		return fmt.Errorf("invalid segment %q: only letters, digits, '_' and '-' are allowed and it must start with a letter or digit", name)
	}
	return nil
}

// Parse creates an Address from its canonical string representation.
func Parse(rawID string) (*Address, error) {
	if rawID == "" {
		return nil, fmt.Errorf("identifier cannot be empty")
	}

	segments := strings.Split(rawID, ".")
	if len(segments) > 2 {
		return nil, fmt.Errorf("identifier %q has %d segments, at most 2 are allowed", rawID, len(segments))
	}
	for _, s := range segments {
		if err := ValidateSegment(s); err != nil {
			return nil, fmt.Errorf("identifier %q: %w", rawID, err)
		}
	}
	return &Address{Path: segments}, nil
}
