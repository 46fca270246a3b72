package shell

import (
	"io"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"src.sigma.sh/pkg/config"
	"src.sigma.sh/pkg/must"
	"src.sigma.sh/pkg/node"
	. "src.sigma.sh/pkg/prog/progtest"
	"src.sigma.sh/pkg/store"
	"src.sigma.sh/pkg/tt"
)

func TestInteract(t *testing.T) {
	setupCleanHome(t)

	Test(t, Program{},
		ThatSigma().WithStdin("1 + 2\n").WritesStdout("3\n").
			WritesStderrContaining("sigma> "),
		ThatSigma().WithStdin("x := 2\nx * 3\n").WritesStdout("2\n6\n").
			WritesStderrContaining("sigma> "),
		// continuation lines
		ThatSigma().WithStdin("f(x) := {\nx + 1\n}\nf(1)\n").WritesStdout("2\n").
			WritesStderrContaining("  ...> "),
		// errors do not end the session
		ThatSigma().WithStdin("1/0\n7\n").WritesStdout("7\n").
			WritesStderrContaining("domain error"),
		// a missing final newline
		ThatSigma().WithStdin("4").WritesStdout("4\n").
			WritesStderrContaining("sigma> "),
	)
}

func TestInteract_Commands(t *testing.T) {
	setupCleanHome(t)

	Test(t, Program{},
		ThatSigma().WithStdin("1\n:quit\n2\n").WritesStdout("1\n").
			WritesStderrContaining("sigma> "),
		ThatSigma().WithStdin("b := 2\na := 1\n:vars\n").
			WritesStdout("2\n1\na = 1\nb = 2\n").
			WritesStderrContaining("sigma> "),
		ThatSigma().WithStdin("a := 1\n:reset\na\n").WritesStdout("1\na\n").
			WritesStderrContaining("sigma> "),
		ThatSigma().WithStdin(":help\n").WritesStdoutContaining(":reset").
			WritesStderrContaining("sigma> "),
		ThatSigma().WithStdin(":ops\n").WritesStdoutContaining("deriv").
			WritesStderrContaining("sigma> "),
		ThatSigma().WithStdin(":nope\n").
			WritesStderrContaining("unknown command :nope"),
	)
}

func TestInteract_History(t *testing.T) {
	dir := setupCleanHome(t)

	Run(Program{}, "1 + 1\n\n:vars\n", "sigma")
	db := filepath.Join(dir, "state", "sigma", "history.db")
	st := must.OK1(store.NewStore(db))
	cmds, err := st.Cmds(0)
	st.Close()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.Join(cmds, "|"), "1 + 1|:vars"; got != want {
		t.Errorf("got history %q, want %q", got, want)
	}

	Run(Program{}, "2\n", "sigma", "-nohistory")
	st = must.OK1(store.NewStore(db))
	cmds, _ = st.Cmds(0)
	st.Close()
	if len(cmds) != 2 {
		t.Errorf("-nohistory still recorded history: %q", cmds)
	}
}

func TestReadCode(t *testing.T) {
	tt.Test(t, func(lines []string) (string, error) {
		return readCode(&fakeEditor{lines: lines})
	},
		tt.Args([]string{"1 + 2"}).Rets("1 + 2", nil),
		tt.Args([]string{"f(", "1)"}).Rets("f(\n1)", nil),
		tt.Args([]string{`"a`, `b"`}).Rets("\"a\nb\"", nil),
		// end of input in the middle of a statement
		tt.Args([]string{"{1,"}).Rets("{1,", nil),
	)
}

func TestPrintColumns(t *testing.T) {
	tt.Test(t, func(words []string, width int) string {
		var sb strings.Builder
		printColumns(&sb, words, width)
		return sb.String()
	},
		tt.Args([]string{"a", "b", "c", "d"}, 80).Rets("a  b  c  d\n"),
		tt.Args([]string{"a", "b", "c", "d"}, 6).Rets("a  c\nb  d\n"),
		tt.Args([]string{"abc", "d", "e"}, 10).Rets("abc  e\nd\n"),
		tt.Args([]string{"abc"}, 1).Rets("abc\n"),
		tt.Args([]string(nil), 80).Rets(""),
	)
}

func TestCompleter(t *testing.T) {
	ev := InitEvaler(config.Default(), io.Discard)
	ev.Define("derived", node.String{V: "d"})
	complete := completer(ev)
	got := complete("1 + deri")
	for _, want := range []string{"1 + deriv", "1 + derived"} {
		if !slices.Contains(got, want) {
			t.Errorf("completion of %q lacks %q: %q", "1 + deri", want, got)
		}
	}
	if got := complete("1 + "); got != nil {
		t.Errorf("completion of empty word: %q", got)
	}
}

type fakeEditor struct{ lines []string }

func (ed *fakeEditor) ReadLine(string) (string, error) {
	if len(ed.lines) == 0 {
		return "", io.EOF
	}
	line := ed.lines[0]
	ed.lines = ed.lines[1:]
	return line, nil
}

func (ed *fakeEditor) AddHistory(string) {}
func (ed *fakeEditor) Close() error      { return nil }
