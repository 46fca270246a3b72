package shell

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/sys"
)

const defaultWidth = 80

var commandHelp = []struct{ name, help string }{
	{":help", "show this help"},
	{":ops", "list registered operations"},
	{":quit", "leave the REPL"},
	{":reset", "forget all definitions"},
	{":vars", "list defined variables"},
}

// Runs a REPL command. It returns whether the REPL should quit.
func runCommand(ev *eval.Evaler, fds [3]*os.File, cmd string) bool {
	switch cmd {
	case ":quit", ":q":
		return true
	case ":vars":
		names := ev.Scope.Names()
		sort.Strings(names)
		for _, name := range names {
			v, _ := ev.Lookup(name)
			fmt.Fprintf(fds[1], "%s = %s\n", name, ev.Render(v))
		}
	case ":ops":
		names := ev.Scope.Registry().Names()
		sort.Strings(names)
		_, width := sys.WinSize(fds[1])
		if width <= 0 {
			width = defaultWidth
		}
		printColumns(fds[1], names, width)
	case ":reset":
		ev.Scope.RestoreDefault()
	case ":help":
		for _, c := range commandHelp {
			fmt.Fprintf(fds[1], "%-8s %s\n", c.name, c.help)
		}
	default:
		fmt.Fprintf(fds[2], "unknown command %s; try :help\n", cmd)
	}
	return false
}

// Prints words in as many columns as fit in width, filling down each column
// first.
func printColumns(w io.Writer, words []string, width int) {
	if len(words) == 0 {
		return
	}
	colWidth := 0
	for _, word := range words {
		colWidth = max(colWidth, utf8.RuneCountInString(word))
	}
	colWidth += 2
	cols := max(1, width/colWidth)
	rows := (len(words) + cols - 1) / cols
	for r := 0; r < rows; r++ {
		var sb strings.Builder
		for c := 0; c < cols; c++ {
			i := c*rows + r
			if i >= len(words) {
				break
			}
			sb.WriteString(words[i])
			if c < cols-1 && i+rows < len(words) {
				sb.WriteString(strings.Repeat(" ", colWidth-utf8.RuneCountInString(words[i])))
			}
		}
		fmt.Fprintln(w, sb.String())
	}
}
