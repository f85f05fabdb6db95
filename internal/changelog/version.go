package changelog

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidVersion is returned by ParseVersion for text that does not start
// with a dotted numeric release.
var ErrInvalidVersion = errors.New("invalid version")

// PreKind is a prerelease phase. Phases are ordered dev < alpha < beta < rc.
type PreKind int

const (
	PreDev PreKind = iota
	PreAlpha
	PreBeta
	PreRC
)

func (k PreKind) String() string {
	switch k {
	case PreDev:
		return "dev"
	case PreAlpha:
		return "a"
	case PreBeta:
		return "b"
	case PreRC:
		return "rc"
	default:
		return "unknown"
	}
}

// Prerelease is the optional prerelease marker of a Version.
type Prerelease struct {
	Kind   PreKind
	Number int
}

// Version is a parsed version. Release holds the dotted numeric segments;
// Pre is nil for final releases. Original keeps the text that was parsed.
type Version struct {
	Release  []int
	Pre      *Prerelease
	Original string
}

func (v Version) String() string {
	return v.Original
}

var versionPattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)*)(?:[-._]?(alpha|beta|preview|pre|rc|dev|a|b|c)[-._]?(\d*))?`)

// ParseVersion parses text such as "1.2.3", "v2.0", "1.4.0a0", "3.0.0.dev1"
// or "1.2.3.4". A leading "v" is ignored. Anything after the release and
// prerelease portion is ignored for ordering purposes.
func ParseVersion(text string) (Version, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")

	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, text)
	}

	parts := strings.Split(m[1], ".")
	release := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: segment %q out of range", ErrInvalidVersion, text, p)
		}
		release[i] = n
	}

	v := Version{Release: release, Original: strings.TrimSpace(text)}
	if m[2] != "" {
		pre := &Prerelease{Kind: preKind(m[2])}
		if m[3] != "" {
			n, err := strconv.Atoi(m[3])
			if err != nil {
				return Version{}, fmt.Errorf("%w: %q: prerelease number out of range", ErrInvalidVersion, text)
			}
			pre.Number = n
		}
		v.Pre = pre
	}

	return v, nil
}

func preKind(s string) PreKind {
	switch strings.ToLower(s) {
	case "dev":
		return PreDev
	case "a", "alpha":
		return PreAlpha
	case "b", "beta":
		return PreBeta
	default:
		return PreRC
	}
}

// Compare returns -1, 0 or 1 depending on whether a sorts before, equal to,
// or after b. Missing trailing release segments count as zero, and a
// prerelease sorts before the release it precedes.
func Compare(a, b Version) int {
	n := max(len(a.Release), len(b.Release))
	for i := 0; i < n; i++ {
		x, y := segment(a.Release, i), segment(b.Release, i)
		if x != y {
			return cmpInt(x, y)
		}
	}

	switch {
	case a.Pre == nil && b.Pre == nil:
		return 0
	case a.Pre == nil:
		return 1
	case b.Pre == nil:
		return -1
	}

	if a.Pre.Kind != b.Pre.Kind {
		return cmpInt(int(a.Pre.Kind), int(b.Pre.Kind))
	}
	return cmpInt(a.Pre.Number, b.Pre.Number)
}

func segment(release []int, i int) int {
	if i < len(release) {
		return release[i]
	}
	return 0
}

func cmpInt(x, y int) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// Bounds orders two parsed versions, returning the lower one first.
func Bounds(a, b Version) (low, high Version) {
	if Compare(a, b) <= 0 {
		return a, b
	}
	return b, a
}

// InRange reports whether candidate lies within the closed interval spanned
// by a and b. The bounds may be given in either order. Unparsable input
// yields false.
func InRange(candidate, a, b string) bool {
	c, err := ParseVersion(candidate)
	if err != nil {
		return false
	}
	va, err := ParseVersion(a)
	if err != nil {
		return false
	}
	vb, err := ParseVersion(b)
	if err != nil {
		return false
	}

	low, high := Bounds(va, vb)
	return Compare(low, c) <= 0 && Compare(c, high) <= 0
}
