package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/timeclock/internal/app/system/htmlsanitize"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "Left early, dentist", "Left early, dentist"},
		{"script removed", "done<script>alert('xss')</script>", "done"},
		{"tags stripped", "<b>end</b> of <i>shift</i>", "end of shift"},
		{"ampersand kept", "A & B", "A & B"},
		{"whitespace collapsed", "  too \n\t many   spaces ", "too many spaces"},
		{"onclick dropped", `<span onclick="x()">ok</span>`, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.Text(tt.input); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextMax(t *testing.T) {
	if got := htmlsanitize.TextMax("héllo world", 5); got != "héllo" {
		t.Errorf("TextMax = %q, want %q", got, "héllo")
	}
	if got := htmlsanitize.TextMax("short", 0); got != "short" {
		t.Errorf("TextMax with no limit = %q", got)
	}
}

func TestIsPlainText(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"Hello, World!", true},
		{"<p>Hello</p>", false},
		{"5 < 10", true},
		{"5 > 3", true},
	}
	for _, tt := range tests {
		if got := htmlsanitize.IsPlainText(tt.input); got != tt.want {
			t.Errorf("IsPlainText(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
