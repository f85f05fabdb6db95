// Package deps reads dependency diffs produced by Python package managers.
//
// Each supported tool has a Parser that first checks whether a blob of text
// looks like that tool's output and then turns it into DependencyChange
// values in order of first appearance.
package deps

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ChangeType describes what happened to a dependency.
type ChangeType string

const (
	Updated ChangeType = "updated"
	Added   ChangeType = "added"
	Removed ChangeType = "removed"
)

// DependencyChange is one package that was added, removed or moved between
// versions. OldVersion is empty for additions and NewVersion for removals.
type DependencyChange struct {
	Name       string     `json:"name" yaml:"name"`
	ChangeType ChangeType `json:"change_type" yaml:"change_type"`
	OldVersion string     `json:"old_version,omitempty" yaml:"old_version,omitempty"`
	NewVersion string     `json:"new_version,omitempty" yaml:"new_version,omitempty"`
}

func (c DependencyChange) String() string {
	switch c.ChangeType {
	case Added:
		return fmt.Sprintf("%s: added %s", c.Name, c.NewVersion)
	case Removed:
		return fmt.Sprintf("%s: removed %s", c.Name, c.OldVersion)
	default:
		return fmt.Sprintf("%s: %s -> %s", c.Name, c.OldVersion, c.NewVersion)
	}
}

// Parser turns package manager output into dependency changes.
type Parser interface {
	// Name is the package manager name, e.g. "uv".
	Name() string
	// Validate reports whether output looks like it came from this tool.
	Validate(output string) bool
	// Parse extracts the changes. Output that contains no changes yields an
	// empty slice.
	Parse(output string) ([]DependencyChange, error)
}

var registry = map[string]func() Parser{
	"uv":  func() Parser { return NewUVParser() },
	"pip": func() Parser { return NewPipParser() },
}

// UnknownParserError is returned by Lookup for an unsupported name.
type UnknownParserError struct {
	Name string
}

func (e *UnknownParserError) Error() string {
	return fmt.Sprintf("unknown parser %q (supported: %s)", e.Name, strings.Join(Names(), ", "))
}

// Lookup returns the parser registered under name.
func Lookup(name string) (Parser, error) {
	ctor, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, &UnknownParserError{Name: name}
	}
	return ctor(), nil
}

// Names returns the registered parser names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var normalizeRun = regexp.MustCompile(`[-_.]+`)

// NormalizeName applies PEP 503 name normalization so that
// "Foo_Bar", "foo-bar" and "foo.bar" refer to the same package.
func NormalizeName(name string) string {
	return strings.ToLower(normalizeRun.ReplaceAllString(name, "-"))
}
