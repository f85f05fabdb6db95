package deps

import (
	"fmt"
	"regexp"
	"strings"
)

var pipHeader = regexp.MustCompile(`^\s*Package\s+Version\s+Latest(\s+Type)?\s*$`)

// PipParser reads the table printed by `pip list --outdated`:
//
//	Package            Version         Latest          Type
//	------------------ --------------- --------------- -----
//	requests           2.32.4          2.32.5          wheel
//
// Every row is an update from Version to Latest.
type PipParser struct{}

// NewPipParser returns a pip output parser.
func NewPipParser() *PipParser {
	return &PipParser{}
}

func (p *PipParser) Name() string {
	return "pip"
}

// Validate accepts empty output (nothing is outdated) or output that
// contains the table header.
func (p *PipParser) Validate(output string) bool {
	if strings.TrimSpace(output) == "" {
		return true
	}
	for _, line := range strings.Split(output, "\n") {
		if pipHeader.MatchString(line) {
			return true
		}
	}
	return false
}

func (p *PipParser) Parse(output string) ([]DependencyChange, error) {
	changes := []DependencyChange{}
	inTable := false

	for n, line := range strings.Split(output, "\n") {
		if pipHeader.MatchString(line) {
			inTable = true
			continue
		}
		trimmed := strings.TrimSpace(line)
		if !inTable || trimmed == "" || strings.HasPrefix(trimmed, "---") {
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: expected package, version and latest columns, got %q", n+1, trimmed)
		}
		changes = append(changes, DependencyChange{
			Name:       fields[0],
			ChangeType: Updated,
			OldVersion: fields[1],
			NewVersion: fields[2],
		})
	}

	return changes, nil
}
