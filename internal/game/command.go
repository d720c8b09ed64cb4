package game

import "strings"

// Command is the parsed form of one line of player input.
type Command interface {
	command()
}

type MoveCommand struct {
	Direction Direction
}

// Sentence is the first-person text sent to the narrator for the move.
func (c MoveCommand) Sentence() string {
	return "I move " + c.Direction.String()
}

type ExitCommand struct{}

type FreeTextCommand struct {
	Text string
}

// EmptyCommand is a blank line. It does not start a turn.
type EmptyCommand struct{}

func (MoveCommand) command()     {}
func (ExitCommand) command()     {}
func (FreeTextCommand) command() {}
func (EmptyCommand) command()    {}

const exitToken = "exit"

var directionTokens = map[string]Direction{
	"n":     North,
	"north": North,
	"s":     South,
	"south": South,
	"e":     East,
	"east":  East,
	"w":     West,
	"west":  West,
}

func ParseCommand(line string) Command {
	text := strings.TrimSpace(line)
	if text == "" {
		return EmptyCommand{}
	}

	token := strings.ToLower(text)
	if token == exitToken {
		return ExitCommand{}
	}
	if d, ok := directionTokens[token]; ok {
		return MoveCommand{Direction: d}
	}
	return FreeTextCommand{Text: text}
}
