// Package changelog extracts per-version release notes from free-form
// changelog documents.
//
// This package implements:
//   - Version parsing and PEP 440 style ordering (prereleases sort before
//     their release)
//   - A prioritized heading recognizer covering Keep a Changelog brackets,
//     v-prefixed titles, package-name titles, RST underlined titles, bare
//     numeric releases and Sphinx :release: directives
//   - Segmentation of a document into per-version bodies
//   - Removal of RST decoration from extracted bodies
//   - Markdown and terminal rendering of extracted entries
//
// Everything in this package is pure. ParseChangelog performs no I/O and
// keeps no state between calls, so it is safe for concurrent use.
package changelog
