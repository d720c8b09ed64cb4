package display

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestWrapRespectsWidth(t *testing.T) {
	text := "The wind carries fine grains of sand across the clearing, and somewhere beyond the dunes a bell rings twice before falling silent."
	for _, width := range []int{10, 20, 33, 80} {
		lines := Wrap(text, width)
		for _, line := range lines {
			if lipgloss.Width(line) > width {
				t.Errorf("width %d: line %q is %d cells", width, line, lipgloss.Width(line))
			}
		}
		if got := strings.Join(lines, " "); got != text {
			t.Errorf("width %d: words changed: %q", width, got)
		}
	}
}

func TestWrapCollapsesWhitespace(t *testing.T) {
	got := Wrap("  a   b\n\nc\t d  ", 80)
	if len(got) != 1 || got[0] != "a b c d" {
		t.Errorf("Wrap = %q", got)
	}
}

func TestWrapBreaksLongWords(t *testing.T) {
	got := Wrap("go aaaaaaaaaaaa", 5)
	want := []string{"go", "aaaaa", "aaaaa", "aa"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Wrap = %q, want %q", got, want)
	}
}

func TestWrapWideRunes(t *testing.T) {
	for _, line := range Wrap("砂漠の真ん中で休む", 6) {
		if lipgloss.Width(line) > 6 {
			t.Errorf("line %q exceeds 6 cells", line)
		}
	}
}

func TestWrapEdgeCases(t *testing.T) {
	if got := Wrap("", 80); len(got) != 0 {
		t.Errorf("empty text gave %q", got)
	}
	if got := Wrap("   ", 80); len(got) != 0 {
		t.Errorf("blank text gave %q", got)
	}
	if got := Wrap("no wrapping here at all", 0); len(got) != 1 {
		t.Errorf("width 0 gave %q", got)
	}
	if got := WrapString("one two three", 7); got != "one two\nthree" {
		t.Errorf("WrapString = %q", got)
	}
}

func TestHeader(t *testing.T) {
	if got := Header(-2, 5, "oasis"); got != "(-2, 5): oasis" {
		t.Errorf("Header = %q", got)
	}
}
