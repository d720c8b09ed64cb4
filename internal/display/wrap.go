// Package display formats narrator output for a fixed-width terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const DefaultWidth = 80

// Wrap greedily fills lines of at most width display cells with the
// whitespace-separated words of text. Words wider than a line are broken.
// A width of zero or less disables wrapping.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}
	}
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	var current strings.Builder
	currentWidth := 0

	flush := func() {
		if currentWidth > 0 {
			lines = append(lines, current.String())
			current.Reset()
			currentWidth = 0
		}
	}

	for _, word := range words {
		w := lipgloss.Width(word)

		if currentWidth > 0 && currentWidth+1+w <= width {
			current.WriteByte(' ')
			current.WriteString(word)
			currentWidth += 1 + w
			continue
		}

		flush()
		for w > width {
			head, rest := splitAt(word, width)
			lines = append(lines, head)
			word = rest
			w = lipgloss.Width(word)
		}
		current.WriteString(word)
		currentWidth = w
	}
	flush()

	return lines
}

// WrapString is Wrap joined with newlines.
func WrapString(text string, width int) string {
	return strings.Join(Wrap(text, width), "\n")
}

// Header renders the "(x, y): location" line shown before each reply.
func Header(x, y int, location string) string {
	return fmt.Sprintf("(%d, %d): %s", x, y, location)
}

// splitAt cuts word after the last rune that still fits in width cells.
func splitAt(word string, width int) (string, string) {
	used := 0
	for i, r := range word {
		rw := lipgloss.Width(string(r))
		if used+rw > width && used > 0 {
			return word[:i], word[i:]
		}
		used += rw
	}
	return word, ""
}
