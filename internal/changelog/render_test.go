package changelog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	tests := map[string]struct {
		entries  []Entry
		expected string
	}{
		"no entries": {
			entries:  nil,
			expected: "",
		},
		"entry with date": {
			entries:  []Entry{{Version: "1.2.0", Date: "2024-01-15", Content: "- Fixed bug"}},
			expected: "## [1.2.0] - 2024-01-15\n\n- Fixed bug\n",
		},
		"entry without date": {
			entries:  []Entry{{Version: "1.9.0", Content: "- Bold version"}},
			expected: "## [1.9.0]\n\n- Bold version\n",
		},
		"empty content": {
			entries:  []Entry{{Version: "3.4.1", Date: "2024-08-11"}},
			expected: "## [3.4.1] - 2024-08-11\n",
		},
		"order preserved": {
			entries: []Entry{
				{Version: "1.3.0", Content: "- three"},
				{Version: "1.2.0", Content: "- two"},
			},
			expected: "## [1.3.0]\n\n- three\n\n## [1.2.0]\n\n- two\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderMarkdown(tt.entries, &buf))
			assert.Equal(t, tt.expected, buf.String())
			assert.Equal(t, tt.expected, RenderMarkdownString(tt.entries))
		})
	}
}

func TestRenderMarkdown_RoundTrip(t *testing.T) {
	// Rendered output is itself a changelog the engine can read back.
	entries := ParseChangelog(mixedFormats, "1.4.0", "2.0.0")
	rendered := RenderMarkdownString(entries)

	again := ParseChangelog(rendered, "1.4.0", "2.0.0")
	assert.Equal(t, entries, again)
}
