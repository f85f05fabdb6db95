package output

import (
	"regexp"
	"strings"
)

// ContentFormat is the markup a changelog body appears to use.
type ContentFormat string

const (
	ContentMarkdown ContentFormat = "markdown"
	ContentRST      ContentFormat = "rst"
	ContentPlain    ContentFormat = "plain"
)

var (
	mdHeading   = regexp.MustCompile(`^#{1,6}\s+\S`)
	mdLink      = regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`)
	mdEmphasis  = regexp.MustCompile("\\*\\*[^*]+\\*\\*|__[^_]+__|`[^`]+`")
	rstLink     = regexp.MustCompile("`[^`<]+<[^>]+>`__?")
	rstRole     = regexp.MustCompile(":[a-z]+:`[^`]+`")
	rstLiteral  = regexp.MustCompile("``[^`]+``")
	rstUnderBar = regexp.MustCompile(`^(?:={3,}|-{3,}|~{3,}|\^{3,}|"{3,}|'{3,}|\+{3,}|\*{3,}|#{3,})\s*$`)
)

// DetectFormat guesses whether content is Markdown, reStructuredText or
// plain text by counting markers of each.
func DetectFormat(content string) ContentFormat {
	var md, rst int
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	prev := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "```"):
			md += 2
		case mdHeading.MatchString(trimmed):
			md += 2
		case rstUnderBar.MatchString(trimmed) && prev != "" && len(trimmed) >= len(prev)-3:
			rst += 2
		case strings.HasPrefix(trimmed, ".. "):
			rst += 2
		}

		if rstLink.MatchString(line) || rstRole.MatchString(line) || rstLiteral.MatchString(line) {
			rst++
		} else if mdLink.MatchString(line) || mdEmphasis.MatchString(line) {
			md++
		}
		prev = trimmed
	}

	switch {
	case rst > md:
		return ContentRST
	case md > 0:
		return ContentMarkdown
	default:
		return ContentPlain
	}
}
