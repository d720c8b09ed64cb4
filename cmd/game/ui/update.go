package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case turnProcessedMsg:
		return m.handleTurnProcessed(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			m.refresh()
			return m, animationTimer()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		userInput := m.textInput.Value()
		if strings.TrimSpace(userInput) == "" || m.loading {
			return m, nil
		}
		m.textInput.Reset()
		m.messages = append(m.messages, "> "+userInput)
		m.loading = true
		m.animationFrame = 0
		m.messages = append(m.messages, loadingMarker)
		m.refresh()
		return m, tea.Batch(processTurn(m.game, userInput), animationTimer())

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.loading {
		return m, nil
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) handleTurnProcessed(msg turnProcessedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if n := len(m.messages); n > 0 && m.messages[n-1] == loadingMarker {
		m.messages = m.messages[:n-1]
	}

	if msg.err != nil {
		m.debug.Printf("Turn failed: %v", msg.err)
		m.messages = append(m.messages, fmt.Sprintf("Error: %v", msg.err), "")
		m.refresh()
		return m, nil
	}

	result := msg.result
	switch {
	case result.Skipped:
		m.refresh()
		return m, nil
	case result.Exited:
		m.savePath = result.SavePath
		m.quitting = true
		m.messages = append(m.messages, "Game saved to "+result.SavePath)
		return m, tea.Quit
	}

	if result.Input != strings.TrimSpace(m.lastInput()) {
		m.messages = append(m.messages, "> "+result.Input)
	}
	m.messages = append(m.messages,
		headerLine(result.Position.X, result.Position.Y, result.Location),
		result.Reply.Content,
		"",
	)
	m.refresh()
	return m, nil
}

// lastInput returns the most recent line the player typed.
func (m Model) lastInput() string {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if strings.HasPrefix(m.messages[i], "> ") {
			return strings.TrimPrefix(m.messages[i], "> ")
		}
	}
	return ""
}
