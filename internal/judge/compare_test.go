package judge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		actual   string
		expected string
		want     Comparison
	}{
		{"identical", "3\n7\n", "3\n7\n", ExactMatch},
		{"both empty", "", "", ExactMatch},
		{"internal whitespace", "3  7\n", "3 7\n", FormatMismatch},
		{"case difference", "Hello\n", "hello\n", FormatMismatch},
		{"missing final newline", "hello", "hello\n", FormatMismatch},
		{"trailing blank line", "hello\n\n", "hello\n", WrongAnswer},
		{"different content", "3\n", "4\n", WrongAnswer},
		{"actual shorter", "3\n", "3\n7\n", WrongAnswer},
		{"expected shorter", "3\n7\n", "3\n", WrongAnswer},
		{"wrong after format mismatch", "a B\nx\n", "ab\ny\n", WrongAnswer},
		{"format mismatch on several lines", "A\nB  C\n", "a\nb c\n", FormatMismatch},
		{"whitespace-only line vs empty line", " \n", "\n", FormatMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Compare(strings.NewReader(tc.actual), strings.NewReader(tc.expected))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeLine(t *testing.T) {
	assert.Equal(t, "37", normalizeLine("  3\t 7 \n"))
	assert.Equal(t, "abc", normalizeLine("A b C"))
	assert.Equal(t, "", normalizeLine(" \t\n"))
}
