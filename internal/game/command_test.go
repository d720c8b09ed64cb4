package game

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"n", MoveCommand{North}},
		{"N", MoveCommand{North}},
		{"  s ", MoveCommand{South}},
		{"East", MoveCommand{East}},
		{"WEST", MoveCommand{West}},
		{"exit", ExitCommand{}},
		{"EXIT", ExitCommand{}},
		{" Exit\n", ExitCommand{}},
		{"", EmptyCommand{}},
		{"   ", EmptyCommand{}},
		{"look around", FreeTextCommand{"look around"}},
		{"go north", FreeTextCommand{"go north"}},
		{"exit the cave", FreeTextCommand{"exit the cave"}},
	}
	for _, tt := range tests {
		got := ParseCommand(tt.line)
		if got != tt.want {
			t.Errorf("ParseCommand(%q) = %#v, want %#v", tt.line, got, tt.want)
		}
	}
}

func TestMoveSentence(t *testing.T) {
	tests := map[Direction]string{
		North: "I move north",
		South: "I move south",
		East:  "I move east",
		West:  "I move west",
	}
	for d, want := range tests {
		if got := (MoveCommand{Direction: d}).Sentence(); got != want {
			t.Errorf("Sentence(%v) = %q, want %q", d, got, want)
		}
	}
}
