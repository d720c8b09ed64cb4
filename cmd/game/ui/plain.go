package ui

import (
	"bufio"
	"fmt"
	"io"
)

// PlainTerminal reads answers line by line and prints output unstyled.
type PlainTerminal struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewPlainTerminal(in io.Reader, out io.Writer) *PlainTerminal {
	s := bufio.NewScanner(in)
	s.Buffer(make([]byte, 1024*1024), 1024*1024)
	return &PlainTerminal{scanner: s, out: out}
}

func (p *PlainTerminal) Ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

func (p *PlainTerminal) Say(text string) {
	fmt.Fprintln(p.out, text)
}
