package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipParser_Name(t *testing.T) {
	assert.Equal(t, "pip", NewPipParser().Name())
}

func TestPipParser_Validate(t *testing.T) {
	tests := map[string]struct {
		output string
		want   bool
	}{
		"empty":       {output: "", want: true},
		"header":      {output: "Package            Version         Latest          Type", want: true},
		"no type":     {output: "Package Version Latest\n------- ------- ------\n", want: true},
		"random text": {output: "Random text without pip header", want: false},
		"uv output":   {output: "Resolved 3 packages in 10ms\n - a==1.0\n", want: false},
	}

	p := NewPipParser()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Validate(tt.output))
		})
	}
}

func TestPipParser_Parse(t *testing.T) {
	tests := map[string]struct {
		output   string
		expected []DependencyChange
	}{
		"single update": {
			output: `
Package            Version         Latest          Type
------------------ --------------- --------------- -----
requests           2.32.4          2.32.5          wheel
`,
			expected: []DependencyChange{
				{Name: "requests", ChangeType: Updated, OldVersion: "2.32.4", NewVersion: "2.32.5"},
			},
		},
		"multiple updates": {
			output: `
Package            Version         Latest          Type
------------------ --------------- --------------- -----
certifi            2025.7.9        2025.8.3        wheel
charset-normalizer 3.4.2           3.4.3           wheel
coverage           7.9.2           7.10.4          wheel
distlib            0.3.9           0.4.0           wheel
`,
			expected: []DependencyChange{
				{Name: "certifi", ChangeType: Updated, OldVersion: "2025.7.9", NewVersion: "2025.8.3"},
				{Name: "charset-normalizer", ChangeType: Updated, OldVersion: "3.4.2", NewVersion: "3.4.3"},
				{Name: "coverage", ChangeType: Updated, OldVersion: "7.9.2", NewVersion: "7.10.4"},
				{Name: "distlib", ChangeType: Updated, OldVersion: "0.3.9", NewVersion: "0.4.0"},
			},
		},
		"empty output": {
			output:   "",
			expected: []DependencyChange{},
		},
	}

	p := NewPipParser()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			changes, err := p.Parse(tt.output)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, changes)
		})
	}
}

func TestPipParser_Parse_MalformedRow(t *testing.T) {
	output := "Package Version Latest Type\n------- ------- ------ ----\nbroken\n"

	_, err := NewPipParser().Parse(output)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}
