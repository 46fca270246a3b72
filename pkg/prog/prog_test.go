package prog_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	. "src.sigma.sh/pkg/prog"
	"src.sigma.sh/pkg/prog/progtest"
	"src.sigma.sh/pkg/testutil"
)

var (
	Test      = progtest.Test
	ThatSigma = progtest.ThatSigma
)

func TestCommonFlagHandling(t *testing.T) {
	Test(t, testProgram{},
		ThatSigma("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		ThatSigma("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		ThatSigma("-help").
			WritesStdoutContaining("Usage: sigma [flags] [script]"),
	)
}

func TestLogFlag(t *testing.T) {
	logPath := filepath.Join(testutil.TempDir(t), "log")
	Test(t, testProgram{},
		ThatSigma("-log", logPath).DoesNothing(),
	)
	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("log file does not exist: %v", err)
	}
}

func TestFlagsPassedToProgram(t *testing.T) {
	var got *Flags
	Test(t, flagsProgram{&got},
		ThatSigma("-c", "-retention", "restore", "-config", "c.yaml", "-nohistory", "1+1").
			WritesStdout("[1+1]"),
	)
	if got == nil || !got.CodeInArg || got.Retention != "restore" ||
		got.Config != "c.yaml" || !got.NoHistory || got.LSP {
		t.Errorf("got flags %+v", got)
	}
}

func TestNoSuitableSubprogram(t *testing.T) {
	Test(t, testProgram{notSuitable: true},
		ThatSigma().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{writeOut: "program 2"}),
		ThatSigma().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{notSuitable: true}),
		ThatSigma().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	Test(t,
		Composite(
			testProgram{writeOut: "program 1"}, testProgram{writeOut: "program 2"}),
		ThatSigma().WritesStdout("program 1"),
	)
}

func TestBadUsageError(t *testing.T) {
	Test(t,
		testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatSigma().ExitsWith(2).WritesStderrContaining("lorem ipsum\n"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(3)},
		ThatSigma().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(0)},
		ThatSigma().ExitsWith(0),
	)
}

type testProgram struct {
	notSuitable bool
	writeOut    string
	returnErr   error
}

func (p testProgram) Run(fds [3]*os.File, _ *Flags, args []string) error {
	if p.notSuitable {
		return ErrNotSuitable
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}

type flagsProgram struct{ got **Flags }

func (p flagsProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	*p.got = f
	fmt.Fprint(fds[1], args)
	return nil
}
