package changelog

import "strings"

// Clean strips decoration from a section body. Lines that consist only of
// one character from "-=^~" repeated are removed, runs of three or more
// blank lines collapse to one, and the block is trimmed.
func Clean(body string) string {
	lines := strings.Split(normalizeNewlines(body), "\n")

	out := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isDecoration(trimmed) {
			continue
		}
		if trimmed == "" {
			blanks++
			continue
		}
		if len(out) > 0 {
			out = appendBlanks(out, blanks)
		}
		blanks = 0
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

func appendBlanks(out []string, n int) []string {
	if n >= 3 {
		n = 1
	}
	for i := 0; i < n; i++ {
		out = append(out, "")
	}
	return out
}

func isDecoration(s string) bool {
	return s != "" && strings.ContainsRune("-=^~", rune(s[0])) && repeats(s, s[0])
}
