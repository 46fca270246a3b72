package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"src.sigma.sh/pkg/compile"
	"src.sigma.sh/pkg/diag"
	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/sys"
)

const (
	prompt     = "sigma> "
	contPrompt = "  ...> "
)

// Configuration for the interactive mode.
type interactCfg struct {
	// Path of the history database. Empty disables history.
	HistoryDB string
	// Number of history entries loaded into the line editor.
	HistorySize int
}

// Runs an interactive session until the end of input or :quit.
func interact(ev *eval.Evaler, fds [3]*os.File, cfg *interactCfg) {
	hist := openHistory(cfg.HistoryDB, fds[2])
	defer hist.Close()

	var ed editor
	if sys.IsATTY(fds[0].Fd()) {
		ed = newLinerEditor(hist.Recent(cfg.HistorySize), completer(ev))
	} else {
		ed = newMinEditor(fds[0], fds[2])
	}
	defer ed.Close()

	ev.OnResult = func(r eval.Result) { showResult(ev, fds[1], r) }
	defer func() { ev.OnResult = nil }()

	for cmdNum := 1; ; cmdNum++ {
		code, err := readCode(ed)
		if err == io.EOF {
			break
		} else if err == errInterrupted {
			continue
		} else if err != nil {
			fmt.Fprintln(fds[2], "Editor error:", err)
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ed.AddHistory(code)
		hist.Add(code)

		if cmd := strings.TrimSpace(code); strings.HasPrefix(cmd, ":") {
			if quit := runCommand(ev, fds, cmd); quit {
				break
			}
			continue
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		_, err = ev.Eval(ctx, fmt.Sprintf("[tty %v]", cmdNum), code, eval.KeepAll)
		stop()
		if err != nil {
			diag.ShowError(fds[2], err)
		}
	}
}

// Reads one statement, asking for continuation lines while the input is
// incomplete.
func readCode(ed editor) (string, error) {
	var lines []string
	p := prompt
	for {
		line, err := ed.ReadLine(p)
		if err != nil {
			if err == io.EOF && len(lines) > 0 {
				return strings.Join(lines, "\n"), nil
			}
			return "", err
		}
		lines = append(lines, line)
		code := strings.Join(lines, "\n")
		if !compile.NeedsMore(code) {
			return code, nil
		}
		p = contPrompt
	}
}

// Returns the registered names and variables starting with the word under
// the cursor.
func completer(ev *eval.Evaler) func(string) []string {
	return func(line string) []string {
		i := strings.LastIndexFunc(line, func(r rune) bool {
			return !(r == '_' || r == '$' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
		})
		head, word := line[:i+1], line[i+1:]
		if word == "" {
			return nil
		}
		var candidates []string
		for _, name := range completionNames(ev) {
			if strings.HasPrefix(name, word) {
				candidates = append(candidates, head+name)
			}
		}
		return candidates
	}
}

func completionNames(ev *eval.Evaler) []string {
	names := append(ev.Scope.Names(), ev.Scope.Registry().Names()...)
	sort.Strings(names)
	return names
}
