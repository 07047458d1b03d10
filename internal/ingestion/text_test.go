package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"collapses spaces", "Line    with \t multiple    spaces", "Line with multiple spaces"},
		{"trims lines", "  first  \n   second   ", "first\nsecond"},
		{"limits blank lines", "Line 1\n\n\n\n\nLine 2", "Line 1\n\nLine 2"},
		{"normalizes line endings", "Line 1\r\nLine 2\rLine 3", "Line 1\nLine 2\nLine 3"},
		{"keeps headings and dashes", "# Title\n- Item 1", "# Title\n- Item 1"},
		{"drops bullets and symbols", "• Python ★ *Go* | AWS", "Python Go AWS"},
		{"keeps skill punctuation", "C++, C#, Node.js (backend) / email: a@b.io; 5+ years", "C++, C#, Node.js (backend) / email: a@b.io; 5+ years"},
		{"keeps non-ASCII letters", "Développeur Ingénieur München", "Développeur Ingénieur München"},
		{"only symbols", "★ ☆ ♥", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestCleanText_Idempotent(t *testing.T) {
	input := "Senior   Engineer\r\n\r\n\r\n• Go, Kubernetes ★\n\n\nLeadership"
	once := CleanText(input)
	assert.Equal(t, once, CleanText(once))
}
