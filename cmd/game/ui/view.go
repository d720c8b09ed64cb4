package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gridadventure/internal/display"
)

var (
	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Italic(true)

	debugStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// inputHeight covers the bordered input box and the help line.
const inputHeight = 4

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	chat := panelStyle.Width(m.width - 2).Render(m.viewport.View())
	input := panelStyle.Width(m.width - 2).Render(m.textInput.View())
	help := helpStyle.Render("n/s/e/w to move, exit to save and quit, pgup/pgdn to scroll, ctrl+c to quit without saving")

	return chat + "\n" + input + "\n" + help
}

// resize fits the viewport and input to a terminal of the given size.
func (m *Model) resize(width, height int) {
	if width <= 0 {
		width = display.DefaultWidth
	}
	m.width = width
	m.height = height

	chatHeight := height - inputHeight - 2
	if chatHeight < 3 {
		chatHeight = 10
	}
	m.viewport.Width = width - 4
	m.viewport.Height = chatHeight
	m.textInput.Width = width - 8
	m.refresh()
}

// refresh re-renders the message log into the viewport and scrolls to the
// newest line.
func (m *Model) refresh() {
	contentWidth := m.viewport.Width
	if m.wrapWidth > 0 && m.wrapWidth < contentWidth {
		contentWidth = m.wrapWidth
	}

	var lines []string
	for _, message := range m.messages {
		lines = append(lines, m.renderMessage(message, contentWidth)...)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) renderMessage(message string, width int) []string {
	var style lipgloss.Style
	text := message

	switch {
	case message == "":
		return []string{""}
	case message == loadingMarker:
		return []string{loadingStyle.Render(getLoadingAnimation(m.animationFrame))}
	case strings.HasPrefix(message, "> "):
		style = userStyle
	case strings.HasPrefix(message, "@"):
		style = locationStyle
		text = strings.TrimPrefix(message, "@")
	case strings.HasPrefix(message, "[DEBUG] "):
		style = debugStyle
	case strings.HasPrefix(message, "Error: "):
		style = errorStyle
	default:
		style = messageStyle
	}

	var rendered []string
	for _, line := range display.Wrap(text, width) {
		rendered = append(rendered, style.Render(line))
	}
	return rendered
}

func getLoadingAnimation(frame int) string {
	arc := []string{"◜", "◠", "◝", "◞", "◡", "◟"}
	return arc[frame%len(arc)]
}
