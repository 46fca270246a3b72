// Package progtest contains utilities for testing [prog.Program]
// implementations by running them with pipes in place of the standard files.
package progtest

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"src.sigma.sh/pkg/must"
	"src.sigma.sh/pkg/prog"
)

// Case is a test case for Test.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exit           int
	stdout, stderr outputMatcher
}

type outputMatcher struct {
	text     string
	contains bool
	set      bool
}

func (m outputMatcher) match(got string) bool {
	switch {
	case !m.set:
		return got == ""
	case m.contains:
		return strings.Contains(got, m.text)
	}
	return got == m.text
}

func (m outputMatcher) String() string {
	switch {
	case !m.set:
		return "empty"
	case m.contains:
		return "containing " + m.text
	}
	return m.text
}

// ThatSigma returns a Case that runs the program with the given arguments,
// not including the program name. By default the Case requires the program
// to exit with 0 without writing anything.
func ThatSigma(args ...string) Case {
	return Case{args: append([]string{"sigma"}, args...)}
}

// WithStdin returns an altered Case that feeds the given text to the
// standard input.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c unchanged. It is useful to mark cases that expect no
// output.
func (c Case) DoesNothing() Case { return c }

// ExitsWith returns an altered Case that requires the given exit status.
func (c Case) ExitsWith(exit int) Case {
	c.want.exit = exit
	return c
}

// WritesStdout returns an altered Case that requires the exact standard
// output.
func (c Case) WritesStdout(s string) Case {
	c.want.stdout = outputMatcher{s, false, true}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the standard
// output to contain the given text.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.stdout = outputMatcher{s, true, true}
	return c
}

// WritesStderr returns an altered Case that requires the exact standard
// error.
func (c Case) WritesStderr(s string) Case {
	c.want.stderr = outputMatcher{s, false, true}
	return c
}

// WritesStderrContaining returns an altered Case that requires the standard
// error to contain the given text.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.stderr = outputMatcher{s, true, true}
	return c
}

// Test runs test cases against a program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			exit, stdout, stderr := Run(p, c.stdin, c.args...)
			if exit != c.want.exit {
				t.Errorf("got exit %d, want %d", exit, c.want.exit)
			}
			if !c.want.stdout.match(stdout) {
				t.Errorf("got stdout %q, want %s", stdout, c.want.stdout)
			}
			if !c.want.stderr.match(stderr) {
				t.Errorf("got stderr %q, want %s", stderr, c.want.stderr)
			}
		})
	}
}

// Run runs a program with the given stdin and arguments, including the
// program name, and returns its exit status and outputs.
func Run(p prog.Program, stdin string, args ...string) (exit int, stdout, stderr string) {
	r0, w0 := must.OK2(os.Pipe())
	r1, w1 := must.OK2(os.Pipe())
	r2, w2 := must.OK2(os.Pipe())
	defer r0.Close()

	go func() {
		io.WriteString(w0, stdin)
		w0.Close()
	}()
	var wg sync.WaitGroup
	var out, errOut bytes.Buffer
	wg.Add(2)
	go func() { io.Copy(&out, r1); wg.Done() }()
	go func() { io.Copy(&errOut, r2); wg.Done() }()

	exit = prog.Run([3]*os.File{r0, w1, w2}, args, p)
	w1.Close()
	w2.Close()
	wg.Wait()
	r1.Close()
	r2.Close()
	return exit, out.String(), errOut.String()
}
