package changelog

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// verNum matches a dotted release of two or more segments with an optional
// prerelease marker and local build suffix, e.g. 1.2, 1.2.3.4, 2.0.0b1,
// 3.0.0.dev1, 1.0.0-rc.1, 1.0.0+build.5.
const verNum = `\d+(?:\.\d+)+(?:[-._]?(?i:alpha|beta|preview|pre|rc|dev|a|b|c)[-._]?\d*)?(?:\+[0-9A-Za-z.]+)?`

var (
	bracketedPattern = regexp.MustCompile(`^(#{1,6}\s*)?\[[vV]?(` + verNum + `)\](?:\([^)]*\))?(.*)$`)
	prefixedPattern  = regexp.MustCompile(`^(#{1,6}\s*)?(?:\*\*|__|\*|_)?[vV](` + verNum + `)(?:\*\*|__|\*|_)?(.*)$`)
	barePattern      = regexp.MustCompile(`^(#{1,6}\s*)?(?:\*\*|__)?(` + verNum + `)(?:\*\*|__)?(.*)$`)
	releaseBullet    = regexp.MustCompile(`^[-*+]\s+(?i:release|version)\s+[vV]?(` + verNum + `)(.*)$`)
	datedBullet      = regexp.MustCompile(`^[-*+]\s+[vV]?(` + verNum + `)(\s*\(.*\)\s*)$`)
	directivePattern = regexp.MustCompile("^(?:[-*+]\\s+)?:release:`\\s*[vV]?(" + verNum + ")\\s*(?:<([^>]*)>)?\\s*`")
	versionToken     = regexp.MustCompile(`(^|[\s(\[])([vV]?)(` + verNum + `)`)
	atxPattern       = regexp.MustCompile(`^#{1,6}\s+`)
	packageName      = regexp.MustCompile(`^[A-Za-z][\w.\-]*$`)
	datePlaceholders = []string{"unreleased", "tbd", "upcoming", "yanked", "in development"}
)

type match struct {
	kind    HeadingKind
	version string
	date    string
}

// matcher inspects one trimmed line. underlined reports whether the
// following line is a valid RST underline for it.
type matcher func(title string, underlined bool) (match, bool)

// matchers are tried in order; the first hit claims the line.
var matchers = []matcher{
	matchBracketed,
	matchPrefixed,
	matchNamed,
	matchUnderlined,
	matchBare,
	matchDirective,
}

// Recognize scans content once and returns every version heading in
// document order. Lines inside fenced code blocks are never headings.
func Recognize(content string) []Heading {
	doc := newDocument(content)

	var headings []Heading
	inFence := false
	for i := 0; i < len(doc.lines); i++ {
		title := strings.TrimSpace(doc.lines[i])
		if strings.HasPrefix(title, "```") {
			inFence = !inFence
			continue
		}
		if inFence || title == "" || isRule(title) {
			continue
		}

		next := ""
		if i+1 < len(doc.lines) {
			next = doc.lines[i+1]
		}
		underlined := isUnderline(title, next)

		m, ok := recognizeLine(title, underlined)
		if !ok {
			continue
		}

		last := i
		if underlined && m.kind != KindDirective {
			last = i + 1
		}
		headings = append(headings, Heading{
			Kind:    m.kind,
			Text:    title,
			Version: m.version,
			Date:    m.date,
			Line:    i,
			Start:   doc.offsets[i],
			End:     doc.lineEnd(last),
		})
		i = last
	}

	return headings
}

func recognizeLine(title string, underlined bool) (match, bool) {
	for _, m := range matchers {
		if hit, ok := m(title, underlined); ok {
			return hit, true
		}
	}
	return match{}, false
}

func matchBracketed(title string, underlined bool) (match, bool) {
	m := bracketedPattern.FindStringSubmatch(title)
	if m == nil {
		return match{}, false
	}
	// "[1.2.0]: https://..." is a link reference definition, not a heading.
	if strings.HasPrefix(strings.TrimSpace(m[3]), ":") {
		return match{}, false
	}
	date, ok := trailer(m[3], m[1] != "" || underlined)
	if !ok {
		return match{}, false
	}
	return match{kind: KindBracketed, version: m[2], date: date}, true
}

func matchPrefixed(title string, underlined bool) (match, bool) {
	m := prefixedPattern.FindStringSubmatch(title)
	if m == nil {
		return match{}, false
	}
	date, ok := trailer(m[3], m[1] != "" || underlined)
	if !ok {
		return match{}, false
	}
	return match{kind: KindPrefixed, version: m[2], date: date}, true
}

func matchNamed(title string, underlined bool) (match, bool) {
	text, atx := stripATX(title)
	if isBullet(text) {
		return match{}, false
	}
	text = strings.TrimLeft(text, "*_")

	tok, ok := rightmostVersion(text, false)
	if !ok || tok.prefix == "" {
		return match{}, false
	}

	words := strings.Fields(tok.prefix)
	keyword := strings.ToLower(strings.Trim(words[len(words)-1], "*_:"))
	switch {
	case (keyword == "version" || keyword == "release" || keyword == "ver.") && len(words) <= 3:
	case atx:
	case len(words) == 1 && packageName.MatchString(words[0]) && (tok.prefixed || tok.date != "" || underlined):
	default:
		return match{}, false
	}

	return match{kind: KindNamed, version: tok.version, date: tok.date}, true
}

func matchUnderlined(title string, underlined bool) (match, bool) {
	if !underlined {
		return match{}, false
	}
	text, _ := stripATX(title)
	if isBullet(text) {
		return match{}, false
	}
	tok, ok := rightmostVersion(text, true)
	if !ok {
		return match{}, false
	}
	return match{kind: KindUnderlined, version: tok.version, date: tok.date}, true
}

func matchBare(title string, underlined bool) (match, bool) {
	if m := barePattern.FindStringSubmatch(title); m != nil {
		if date, ok := trailer(m[3], m[1] != "" || underlined); ok {
			return match{kind: KindBare, version: m[2], date: date}, true
		}
	}
	// Undated "- Version 1.2.0" bullets are body text.
	if m := releaseBullet.FindStringSubmatch(title); m != nil {
		if date, ok := dateSuffix(m[2]); ok && date != "" {
			return match{kind: KindBare, version: m[1], date: date}, true
		}
	}
	if m := datedBullet.FindStringSubmatch(title); m != nil {
		if date, ok := dateSuffix(m[2]); ok && date != "" {
			return match{kind: KindBare, version: m[1], date: date}, true
		}
	}
	return match{}, false
}

func matchDirective(title string, _ bool) (match, bool) {
	m := directivePattern.FindStringSubmatch(title)
	if m == nil {
		return match{}, false
	}
	return match{kind: KindDirective, version: m[1], date: strings.TrimSpace(m[2])}, true
}

type token struct {
	prefix   string
	version  string
	prefixed bool
	date     string
}

// rightmostVersion finds the right-most version token in text whose trailing
// text is empty or a date. With loose set, any trailing text is accepted.
func rightmostVersion(text string, loose bool) (token, bool) {
	all := versionToken.FindAllStringSubmatchIndex(text, -1)
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		rest := text[m[7]:]
		date, ok := trailer(rest, loose)
		if !ok {
			continue
		}
		return token{
			prefix:   strings.TrimSpace(text[:m[4]]),
			version:  text[m[6]:m[7]],
			prefixed: m[5] > m[4],
			date:     date,
		}, true
	}
	return token{}, false
}

// trailer validates the text following a version token. A date in any of
// the accepted shapes is returned. When strong is set the line is already
// known to be a heading, so non-date text is tolerated.
func trailer(rest string, strong bool) (string, bool) {
	if date, ok := dateSuffix(rest); ok {
		return date, true
	}
	if !strong {
		return "", false
	}
	r := strings.TrimSpace(rest)
	if r != "" && !strings.ContainsRune(" \t-–—(:|/", []rune(rest)[0]) {
		return "", false
	}
	return "", true
}

// dateSuffix accepts "", "(date)", "- date" and "(date) [TAG]" forms.
func dateSuffix(rest string) (string, bool) {
	r := strings.TrimSpace(strings.TrimLeft(rest, "*_"))
	if r == "" {
		return "", true
	}

	switch {
	case r[0] == '(':
		end := strings.IndexByte(r, ')')
		if end < 0 {
			return "", false
		}
		tail := strings.TrimSpace(r[end+1:])
		if tail != "" && !(strings.HasPrefix(tail, "[") && strings.HasSuffix(tail, "]")) {
			return "", false
		}
		r = r[1:end]
	case strings.HasPrefix(r, "-"), strings.HasPrefix(r, "–"), strings.HasPrefix(r, "—"), strings.HasPrefix(r, "/"), strings.HasPrefix(r, "|"):
		r = strings.TrimLeft(r, "-–—/| \t")
		r = strings.TrimSuffix(strings.TrimPrefix(r, "("), ")")
	default:
		return "", false
	}

	r = strings.Trim(strings.TrimSpace(r), "*_")
	if !looksLikeDate(r) {
		return "", false
	}
	return r, true
}

func looksLikeDate(s string) bool {
	if strings.ContainsAny(s, "0123456789") {
		return true
	}
	lower := strings.ToLower(s)
	for _, p := range datePlaceholders {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func stripATX(title string) (string, bool) {
	loc := atxPattern.FindStringIndex(title)
	if loc == nil {
		return title, false
	}
	return strings.TrimRight(title[loc[1]:], "# \t"), true
}

func isBullet(text string) bool {
	return len(text) > 1 && strings.ContainsRune("-*+", rune(text[0])) && (text[1] == ' ' || text[1] == '\t')
}

// isUnderline reports whether next underlines title: one character from
// "-=~^" repeated at least three times and no more than three characters
// shorter than the title.
func isUnderline(title, next string) bool {
	u := strings.TrimSpace(next)
	n := utf8.RuneCountInString(u)
	if n < 3 || !strings.ContainsRune("-=~^", rune(u[0])) || !repeats(u, u[0]) {
		return false
	}
	return n >= utf8.RuneCountInString(title)-3
}

// isRule reports whether a trimmed line is pure decoration: an RST
// underline or overline, or a horizontal rule such as "***" or "- - -".
func isRule(s string) bool {
	compact := strings.ReplaceAll(s, " ", "")
	if len(compact) < 3 || !strings.ContainsRune("-=~^*_#+", rune(compact[0])) {
		return false
	}
	return repeats(compact, compact[0])
}

func repeats(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			return false
		}
	}
	return true
}

// document is content with CRLF folded to LF, split into lines with the
// byte offset of each line start.
type document struct {
	text    string
	lines   []string
	offsets []int
}

func newDocument(content string) document {
	text := normalizeNewlines(content)
	lines := strings.Split(text, "\n")
	offsets := make([]int, len(lines))
	pos := 0
	for i, l := range lines {
		offsets[i] = pos
		pos += len(l) + 1
	}
	return document{text: text, lines: lines, offsets: offsets}
}

// lineEnd returns the offset just past line i and its newline.
func (d document) lineEnd(i int) int {
	return min(d.offsets[i]+len(d.lines[i])+1, len(d.text))
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
