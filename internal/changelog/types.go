package changelog

// Entry is one version's worth of release notes extracted from a changelog.
// Version holds the version token as written in the heading, without a
// leading "v". Content is the cleaned body text.
type Entry struct {
	Version string `json:"version" yaml:"version"`
	Content string `json:"content" yaml:"content"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
}

// HeadingKind identifies which recognizer rule produced a Heading.
type HeadingKind int

const (
	// KindBracketed is a Keep a Changelog heading such as "## [1.2.0] - 2024-01-01".
	KindBracketed HeadingKind = iota
	// KindPrefixed is a v-prefixed heading such as "**v1.2.3**" or "## v1.2.3".
	KindPrefixed
	// KindNamed is a heading where a keyword or package name precedes the
	// version, such as "Version 2.0.0" or "web3.py v7.12.1 (2025-07-14)".
	KindNamed
	// KindUnderlined is an RST section title confirmed by its underline.
	KindUnderlined
	// KindBare is a bare numeric release line or a "* Release X" bullet.
	KindBare
	// KindDirective is a Sphinx ":release:`X <date>`" bullet.
	KindDirective
)

func (k HeadingKind) String() string {
	switch k {
	case KindBracketed:
		return "bracketed"
	case KindPrefixed:
		return "prefixed"
	case KindNamed:
		return "named"
	case KindUnderlined:
		return "underlined"
	case KindBare:
		return "bare"
	case KindDirective:
		return "directive"
	default:
		return "unknown"
	}
}

// Heading is a recognized version heading.
//
// Start and End are byte offsets into the document after CRLF line endings
// have been folded to LF. Start is the beginning of the heading line; End
// is where the version's body begins, past any underline and, for
// directives, past the rest of the directive's line.
type Heading struct {
	Kind    HeadingKind
	Text    string
	Version string
	Date    string
	Line    int
	Start   int
	End     int
}

// Section pairs a heading with the raw, uncleaned text of its body.
type Section struct {
	Heading Heading
	Body    string
}
