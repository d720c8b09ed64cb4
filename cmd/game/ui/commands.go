package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gridadventure/internal/game"
)

func animationTimer() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

func processTurn(g *game.Game, input string) tea.Cmd {
	return func() tea.Msg {
		result, err := g.Turn(context.Background(), input)
		return turnProcessedMsg{result: result, err: err}
	}
}
