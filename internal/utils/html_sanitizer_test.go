package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLSanitizer_Sanitize(t *testing.T) {
	s := NewHTMLSanitizer()

	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:        "script removed",
			input:       `<div class="p-2"><h3>Report</h3><script>alert(1)</script></div>`,
			contains:    []string{`<div class="p-2">`, "<h3>Report</h3>"},
			notContains: []string{"<script", "alert(1)"},
		},
		{
			name:        "event handlers removed",
			input:       `<p onclick="steal()">Pothole</p>`,
			contains:    []string{"<p>Pothole</p>"},
			notContains: []string{"onclick"},
		},
		{
			name:        "javascript links dropped",
			input:       `<a href="javascript:alert(1)">x</a>`,
			notContains: []string{"javascript:"},
		},
		{
			name:     "external links get rel",
			input:    `<a href="https://city.gov">city</a>`,
			contains: []string{"nofollow", "noreferrer", `target="_blank"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := s.Sanitize(tt.input)
			for _, c := range tt.contains {
				assert.Contains(t, out, c)
			}
			for _, c := range tt.notContains {
				assert.NotContains(t, out, c)
			}
		})
	}
}

func TestMarkdownToHTML(t *testing.T) {
	out := MarkdownToHTML("**URGENT:** report\n\n- one\n- two")
	assert.Contains(t, out, "<strong>URGENT:</strong>")
	assert.Contains(t, out, "<li>one</li>")

	raw := MarkdownToHTML("<script>alert(1)</script>")
	assert.NotContains(t, raw, "<script>")
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "bold text", strings.TrimSpace(StripHTML("<b>bold</b> text")))
	assert.Equal(t, "Roads & Transport", StripHTML("<p>Roads &amp; Transport</p>"))
}
