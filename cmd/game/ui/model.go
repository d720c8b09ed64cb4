package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"gridadventure/internal/debug"
	"gridadventure/internal/display"
	"gridadventure/internal/game"
)

const loadingMarker = "LOADING_ANIMATION"

// Model is the full-screen turn view. Setup happens beforehand on the plain
// terminal; the model only plays turns against an already started game.
type Model struct {
	game           *game.Game
	debug          *debug.Logger
	messages       []string
	textInput      textinput.Model
	viewport       viewport.Model
	width          int
	height         int
	wrapWidth      int
	loading        bool
	animationFrame int
	savePath       string
	quitting       bool
}

func NewModel(g *game.Game, wrapWidth int, debugLogger *debug.Logger) Model {
	s := g.Session()
	pos := s.Position()
	transcript := s.Messages()

	messages := []string{
		headerLine(pos.X, pos.Y, s.Location()),
		"",
	}
	if len(transcript) > 1 {
		messages = append(messages, transcript[len(transcript)-1].Content, "")
	}
	if debugLogger.IsEnabled() {
		messages = append(messages, "[DEBUG] session "+g.SessionID(), "")
	}

	ti := textinput.New()
	ti.Placeholder = "n, s, e, w or anything you want to do..."
	ti.Prompt = "> "
	ti.CharLimit = 500
	ti.Focus()

	m := Model{
		game:      g,
		debug:     debugLogger,
		messages:  messages,
		textInput: ti,
		viewport:  viewport.New(display.DefaultWidth, 20),
		wrapWidth: wrapWidth,
	}
	m.resize(display.DefaultWidth, 24)
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SavePath is the file written by the exit command, if any.
func (m Model) SavePath() string {
	return m.savePath
}

type animationTickMsg struct{}

type turnProcessedMsg struct {
	result game.TurnResult
	err    error
}

func headerLine(x, y int, location string) string {
	return "@" + display.Header(x, y, location)
}

func Run(g *game.Game, wrapWidth int, debugLogger *debug.Logger) error {
	p := tea.NewProgram(NewModel(g, wrapWidth, debugLogger), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.savePath != "" {
		fmt.Println("Game saved to " + m.savePath)
	}
	return nil
}
