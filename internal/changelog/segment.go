package changelog

import "strings"

// Segment slices content into one Section per heading. A body runs from the
// heading's End offset to the next heading's Start, or to the end of the
// document. Text before the first heading is dropped.
//
// Consecutive Sphinx release directives with nothing between them share the
// body that follows the last of them, so a bug-fix release published
// alongside another release keeps its notes.
func Segment(content string, headings []Heading) []Section {
	if len(headings) == 0 {
		return nil
	}

	text := normalizeNewlines(content)
	sections := make([]Section, len(headings))

	for i := len(headings) - 1; i >= 0; i-- {
		h := headings[i]

		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1].Start
		}
		start := min(max(h.End, 0), len(text))
		end = min(max(end, start), len(text))
		body := text[start:end]

		if h.Kind == KindDirective && i+1 < len(headings) && headings[i+1].Kind == KindDirective &&
			strings.TrimSpace(body) == "" {
			body = sections[i+1].Body
		}

		sections[i] = Section{Heading: h, Body: body}
	}

	return sections
}
