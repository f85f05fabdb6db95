package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	tests := map[string]struct {
		content string
		want    ContentFormat
	}{
		"markdown": {
			content: "\n# Version 1.2.3\n\n## Features\n- Added new feature\n- **Bold text** support\n\n## Bug Fixes\n- Fixed issue with [links](http://example.com)\n\n```python\ndef example():\n    pass\n```\n",
			want:    ContentMarkdown,
		},
		"rst": {
			content: "\nRelease Notes\n=============\n\npackage-name v1.2.3 (2024-01-15)\n---------------------------------\n\nFeatures\n~~~~~~~~\n\n- Added new feature\n- Another feature\n\nBug Fixes\n~~~~~~~~~\n\n- Fixed issue\n",
			want:    ContentRST,
		},
		"rst link": {
			content: "Check out `this link <https://example.com>`__ for more info.",
			want:    ContentRST,
		},
		"plain": {
			content: "\nVersion 1.2.3\nAdded new feature\nFixed bug\nUpdated documentation\n",
			want:    ContentPlain,
		},
		"plain bullets": {
			content: "- Fixed bug\n- Added feature",
			want:    ContentPlain,
		},
		"markdown heading and list": {
			content: "# Header\n- List item",
			want:    ContentMarkdown,
		},
		"empty": {
			content: "",
			want:    ContentPlain,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.content))
		})
	}
}

func TestDetectFormat_UnderlineCharacters(t *testing.T) {
	for _, bar := range []string{"=", "-", "~", "^", `"`, "'", "+", "*", "#"} {
		t.Run(bar, func(t *testing.T) {
			content := "Changes\n" + strings.Repeat(bar, 7) + "\n\nFixed a crash.\n"
			assert.Equal(t, ContentRST, DetectFormat(content))
		})
	}
}

func TestDetectFormat_MixedBarIsNotUnderline(t *testing.T) {
	assert.Equal(t, ContentPlain, DetectFormat("Changes\n=-=-=-=\n\nFixed a crash.\n"))
}
