package output

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var rstInlinePattern = regexp.MustCompile("``([^`]+)``" + // literal
	"|`([^`<]+?)\\s*<([^>]+)>`__?" + // external link
	"|:[a-z:]+:`([^`]+)`" + // role
	"|\\*\\*([^*]+)\\*\\*" + // strong
	"|\\*([^*\\s][^*]*)\\*") // emphasis

// rstHTML converts the reStructuredText subset found in changelogs: section
// titles, bullet lists, paragraphs and inline markup. Directives and
// comments are dropped.
func rstHTML(content string) string {
	lines := strings.Split(content, "\n")
	var b strings.Builder
	levels := map[byte]int{}
	inList := false
	var para []string

	flushPara := func() {
		if len(para) > 0 {
			b.WriteString("<p>" + rstInline(strings.Join(para, " ")) + "</p>\n")
			para = nil
		}
	}
	closeList := func() {
		if inList {
			b.WriteString("</ul>\n")
			inList = false
		}
	}

	for i := 0; i < len(lines); i++ {
		raw := lines[i]
		trimmed := strings.TrimSpace(raw)

		switch {
		case trimmed == "":
			flushPara()
			closeList()
		case strings.HasPrefix(trimmed, ".. "):
			flushPara()
			closeList()
			// Skip the directive's indented body.
			for i+1 < len(lines) && strings.HasPrefix(lines[i+1], " ") {
				i++
			}
		case i+1 < len(lines) && isUnderline(strings.TrimSpace(lines[i+1]), trimmed):
			flushPara()
			closeList()
			ch := strings.TrimSpace(lines[i+1])[0]
			if _, ok := levels[ch]; !ok {
				levels[ch] = len(levels)
			}
			level := min(3+levels[ch], 6)
			fmt.Fprintf(&b, "<h%d>%s</h%d>\n", level, rstInline(trimmed), level)
			i++
		case rstUnderBar.MatchString(trimmed):
			// Overline or stray rule.
		case isBulletLine(trimmed):
			flushPara()
			if !inList {
				b.WriteString("<ul>\n")
				inList = true
			}
			item := strings.TrimSpace(trimmed[2:])
			for i+1 < len(lines) && strings.HasPrefix(lines[i+1], "  ") && !isBulletLine(strings.TrimSpace(lines[i+1])) && strings.TrimSpace(lines[i+1]) != "" {
				i++
				item += " " + strings.TrimSpace(lines[i])
			}
			b.WriteString("<li>" + rstInline(item) + "</li>\n")
		default:
			closeList()
			para = append(para, trimmed)
		}
	}
	flushPara()
	closeList()
	return b.String()
}

// rstInline escapes text and converts inline markup to HTML.
func rstInline(s string) string {
	var b strings.Builder
	last := 0
	for _, m := range rstInlinePattern.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(html.EscapeString(s[last:m[0]]))
		last = m[1]

		group := func(n int) string {
			if m[2*n] < 0 {
				return ""
			}
			return s[m[2*n]:m[2*n+1]]
		}
		switch {
		case m[2] >= 0:
			b.WriteString("<code>" + html.EscapeString(group(1)) + "</code>")
		case m[4] >= 0:
			fmt.Fprintf(&b, `<a href="%s">%s</a>`, html.EscapeString(safeURL(group(3))), html.EscapeString(group(2)))
		case m[8] >= 0:
			b.WriteString("<code>" + html.EscapeString(group(4)) + "</code>")
		case m[10] >= 0:
			b.WriteString("<strong>" + html.EscapeString(group(5)) + "</strong>")
		default:
			b.WriteString("<em>" + html.EscapeString(group(6)) + "</em>")
		}
	}
	b.WriteString(html.EscapeString(s[last:]))
	return b.String()
}

// safeURL allows only http(s) and relative links.
func safeURL(u string) string {
	u = strings.TrimSpace(u)
	lower := strings.ToLower(u)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || !strings.Contains(lower, ":") {
		return u
	}
	return "#"
}
