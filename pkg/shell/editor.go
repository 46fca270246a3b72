package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// This type is the interface that the line editor has to satisfy.
type editor interface {
	// ReadLine reads one physical line. It returns io.EOF at the end of
	// input and errInterrupted when the user aborts the line.
	ReadLine(prompt string) (string, error)
	AddHistory(line string)
	Close() error
}

var errInterrupted = errors.New("interrupted")

// Line editor backed by liner, used when stdin is a terminal.
type linerEditor struct {
	state *liner.State
}

func newLinerEditor(history []string, complete func(string) []string) *linerEditor {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetMultiLineMode(true)
	state.SetCompleter(complete)
	for _, line := range history {
		state.AppendHistory(line)
	}
	return &linerEditor{state}
}

func (ed *linerEditor) ReadLine(prompt string) (string, error) {
	line, err := ed.state.Prompt(prompt)
	if err == liner.ErrPromptAborted {
		return "", errInterrupted
	}
	return line, err
}

func (ed *linerEditor) AddHistory(line string) { ed.state.AppendHistory(line) }

func (ed *linerEditor) Close() error { return ed.state.Close() }

// Minimal editor used when stdin is not a terminal.
type minEditor struct {
	in  *bufio.Reader
	out io.Writer
}

func newMinEditor(in, out *os.File) *minEditor {
	return &minEditor{bufio.NewReader(in), out}
}

func (ed *minEditor) ReadLine(prompt string) (string, error) {
	fmt.Fprint(ed.out, prompt)
	line, err := ed.in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

func (ed *minEditor) AddHistory(string) {}

func (ed *minEditor) Close() error { return nil }
