package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gridadventure/internal/display"
)

// Terminal is the line-oriented surface the game loop talks to. Ask returns
// io.EOF when input is exhausted.
type Terminal interface {
	Ask(prompt string) (string, error)
	Say(text string)
}

type PlayOptions struct {
	// LoadName skips the load prompt and resumes the named save.
	LoadName string
	Width    int
}

const (
	promptLoad        = "Do you wish to load a previous saved game? (y/n): "
	promptLoadFile    = "Which file do you want to load? (blank for a new game, 'latest' for the newest save): "
	promptCreateWorld = "Do you wish to create a new, specific game world? (y/n): "
	promptSetting     = "What type of setting would you like to interact with (desert, rainforest, etc). Be as specific as you'd like. "
	promptInhabitants = "What type of people/animals would be in this setting? Describe a few different personalities. "
	promptGoal        = "Is there any kind of conflict or goal you'd like to see in this environment? "
	promptTurn        = "What would you like to do (use n, s, e, w for movement)?\n"
)

// Play runs setup followed by turns until the player exits or input ends.
// Ending input without the exit command discards the session.
func Play(ctx context.Context, g *Game, saves *SaveStore, term Terminal, opts PlayOptions) error {
	if opts.Width <= 0 {
		opts.Width = display.DefaultWidth
	}
	if err := Setup(g, saves, term, opts); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return RunTurns(ctx, g, term, opts.Width)
}

// Setup either resumes a save or starts a new world.
func Setup(g *Game, saves *SaveStore, term Terminal, opts PlayOptions) error {
	if opts.LoadName != "" {
		loaded, err := saves.Load(opts.LoadName)
		if err != nil {
			return err
		}
		resume(g, loaded, term, opts.Width)
		return nil
	}

	answer, err := term.Ask(promptLoad)
	if err != nil {
		return err
	}
	if yes(answer) {
		for {
			name, err := term.Ask(promptLoadFile)
			if err != nil {
				return err
			}
			if strings.TrimSpace(name) == "" {
				break
			}
			loaded, err := saves.Load(name)
			if err != nil {
				term.Say("Error: " + err.Error())
				continue
			}
			resume(g, loaded, term, opts.Width)
			return nil
		}
	}

	answer, err = term.Ask(promptCreateWorld)
	if err != nil {
		return err
	}
	var prefs *WorldPreferences
	if yes(answer) {
		prefs = &WorldPreferences{}
		if prefs.Setting, err = term.Ask(promptSetting); err != nil {
			return err
		}
		if prefs.Inhabitants, err = term.Ask(promptInhabitants); err != nil {
			return err
		}
		if prefs.Goal, err = term.Ask(promptGoal); err != nil {
			return err
		}
	}
	return g.StartNew(prefs)
}

func RunTurns(ctx context.Context, g *Game, term Terminal, width int) error {
	for {
		line, err := term.Ask(promptTurn)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		result, err := g.Turn(ctx, line)
		if err != nil {
			term.Say("Error: " + err.Error())
			continue
		}
		switch {
		case result.Skipped:
			continue
		case result.Exited:
			term.Say(fmt.Sprintf("Game saved to %s", result.SavePath))
			return nil
		}

		term.Say(fmt.Sprintf("\nUser: %s\n", result.Input))
		term.Say("\n" + display.Header(result.Position.X, result.Position.Y, result.Location))
		term.Say(display.WrapString(result.Reply.Content, width))
	}
}

func resume(g *Game, loaded *LoadedGame, term Terminal, width int) {
	g.Resume(loaded)

	s := g.Session()
	pos := s.Position()
	term.Say(fmt.Sprintf("\n%s\n", display.Header(pos.X, pos.Y, s.Location())))
	messages := s.Messages()
	term.Say(display.WrapString(messages[len(messages)-1].Content, width))
}

func yes(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	return a == "y" || a == "yes"
}
