package deps

import (
	"regexp"
	"strings"
)

var (
	uvIndicators = regexp.MustCompile(`\b(Resolved|Prepared|Installed|Uninstalled|Audited)\b`)
	uvLine       = regexp.MustCompile(`^\s*([-+])\s*([A-Za-z0-9][A-Za-z0-9._\-]*)(?:\[[^\]]*\])?==(\S+)`)
)

// UVParser reads the package diff printed by `uv sync`, `uv lock` and
// `uv pip install`:
//
//	- requests==2.28.0
//	+ requests==2.29.0
//
// A removal and an addition of the same package merge into one update.
type UVParser struct{}

// NewUVParser returns a uv output parser.
func NewUVParser() *UVParser {
	return &UVParser{}
}

func (p *UVParser) Name() string {
	return "uv"
}

// Validate accepts output that carries uv's summary lines or at least one
// package diff line.
func (p *UVParser) Validate(output string) bool {
	if strings.TrimSpace(output) == "" {
		return false
	}
	if uvIndicators.MatchString(output) {
		return true
	}
	for _, line := range strings.Split(output, "\n") {
		if uvLine.MatchString(line) {
			return true
		}
	}
	return false
}

func (p *UVParser) Parse(output string) ([]DependencyChange, error) {
	changes := []DependencyChange{}
	index := make(map[string]int)

	for _, line := range strings.Split(output, "\n") {
		m := uvLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		op, name, version := m[1], m[2], m[3]
		key := NormalizeName(name)

		i, seen := index[key]
		if !seen {
			c := DependencyChange{Name: name}
			if op == "-" {
				c.ChangeType, c.OldVersion = Removed, version
			} else {
				c.ChangeType, c.NewVersion = Added, version
			}
			index[key] = len(changes)
			changes = append(changes, c)
			continue
		}

		c := &changes[i]
		if op == "-" {
			c.OldVersion = version
		} else {
			c.NewVersion = version
		}
		if c.OldVersion != "" && c.NewVersion != "" {
			c.ChangeType = Updated
		}
	}

	return changes, nil
}
