package changelog

import "strings"

// Extractor pulls release notes for a version range out of changelog text.
// The zero value is ready to use.
type Extractor struct {
	// IncludeOld keeps the section for the old version itself. By default
	// only versions newer than the installed one are reported.
	IncludeOld bool
}

// ParseChangelog returns the entries of content whose versions fall in the
// range spanned by oldVersion and newVersion, excluding oldVersion itself.
// Entries keep document order. The result is never nil.
func ParseChangelog(content, oldVersion, newVersion string) []Entry {
	return Extractor{}.Extract(content, oldVersion, newVersion)
}

// Extract implements ParseChangelog with the extractor's options. Bounds may
// be given in either order. Unparsable bounds or headings never match.
func (x Extractor) Extract(content, oldVersion, newVersion string) []Entry {
	entries := []Entry{}
	if strings.TrimSpace(content) == "" {
		return entries
	}

	old, err := ParseVersion(oldVersion)
	if err != nil {
		return entries
	}
	next, err := ParseVersion(newVersion)
	if err != nil {
		return entries
	}
	low, high := Bounds(old, next)

	for _, s := range Segment(content, Recognize(content)) {
		v, err := ParseVersion(s.Heading.Version)
		if err != nil {
			continue
		}
		if Compare(low, v) > 0 || Compare(v, high) > 0 {
			continue
		}
		if !x.IncludeOld && Compare(v, old) == 0 {
			continue
		}

		entries = append(entries, Entry{
			Version: s.Heading.Version,
			Content: Clean(s.Body),
			Date:    s.Heading.Date,
		})
	}

	return entries
}
