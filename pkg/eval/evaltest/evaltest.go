// Package evaltest provides a framework for testing sigma programs.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T and any number of test cases.
//
// Test cases are constructed using the That function, followed by method calls
// that add additional information to it.
//
// Example:
//
//	Test(t,
//	    That("3+4*5").Puts(23),
//	    That(`print("x")`).Prints("x\n"))
//
// If some setup is needed, use the TestWithSetup function instead.
package evaltest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.sigma.sh/pkg/compile"
	"src.sigma.sh/pkg/diag"
	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/mods"
	"src.sigma.sh/pkg/node"
)

// Case is a test case that can be used in Test.
type Case struct {
	codes  []string
	setup  func(ev *eval.Evaler)
	verify func(t *testing.T, ev *eval.Evaler)
	want   result
}

type result struct {
	ValueOut []any
	BytesOut []byte

	CompilationError error
	Exception        error
}

// That returns a new Case with the specified source code. Multiple arguments
// are joined with newlines. To specify multiple pieces of code that are
// executed separately, use the Then method to append code pieces.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "x+x" simplifies to "2*x" reads:
//
//	That("x+x").Puts("2*x")
func That(lines ...string) Case {
	return Case{codes: []string{strings.Join(lines, "\n")}}
}

// Then returns a new Case that executes the given code in addition. Multiple
// arguments are joined with newlines. Code pieces share the same Evaler and
// keep their definitions.
func (c Case) Then(lines ...string) Case {
	c.codes = append(c.codes, strings.Join(lines, "\n"))
	return c
}

// WithSetup returns a new Case with the given setup function executed on the
// Evaler before the code is executed.
func (c Case) WithSetup(f func(*eval.Evaler)) Case {
	c.setup = f
	return c
}

// DoesNothing returns c unchanged. It is useful to mark tests that don't have
// any visible effect, for example:
//
//	That("x := 1").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// Passes returns an altered Case that runs an additional verification
// function on the Evaler after the code has run.
func (c Case) Passes(f func(t *testing.T, ev *eval.Evaler)) Case {
	c.verify = f
	return c
}

// Puts returns an altered Case that requires the code to produce the
// specified statement values, skipping void ones.
//
// Go ints, float64s and bools are compared with the corresponding leaves; Go
// strings are compared with the rendered form of the value; nodes are
// compared structurally. ValueMatcher values have their own semantics.
func (c Case) Puts(vs ...any) Case {
	c.want.ValueOut = vs
	return c
}

// Prints returns an altered Case that requires the code to produce the
// specified output with print.
func (c Case) Prints(s string) Case {
	c.want.BytesOut = []byte(s)
	return c
}

// Throws returns an altered Case that requires the code to fail with an
// exception with the given reason. The reason supports special matcher values
// constructed by functions like ErrorWithKind.
//
// If at least one stacktrace string is given, the exception must also have a
// stacktrace matching the given source fragments, frame by frame (innermost
// frame first). If no stacktrace string is given, the stack trace of the
// exception is not checked.
func (c Case) Throws(reason error, stacks ...string) Case {
	c.want.Exception = exc{reason, stacks}
	return c
}

// DoesNotCompile returns an altered Case that requires the code to fail
// compilation with the given messages, or with any messages if none is given.
func (c Case) DoesNotCompile(msgs ...string) Case {
	if len(msgs) == 0 {
		c.want.CompilationError = anyError{}
	} else {
		c.want.CompilationError = compilationError{msgs}
	}
	return c
}

// Test runs test cases. For each test case, a new Evaler is created with
// eval.NewEvaler and all the standard modules.
func Test(t *testing.T, tests ...Case) {
	t.Helper()
	TestWithSetup(t, func(*eval.Evaler) {}, tests...)
}

// TestWithSetup runs test cases. For each test case, a new Evaler is created
// with eval.NewEvaler and passed to the setup function.
func TestWithSetup(t *testing.T, setup func(*eval.Evaler), tests ...Case) {
	t.Helper()
	for _, tc := range tests {
		t.Run(strings.Join(tc.codes, "\n"), func(t *testing.T) {
			t.Helper()
			ev := eval.NewEvaler(mods.All...)
			setup(ev)
			if tc.setup != nil {
				tc.setup(ev)
			}

			r := evalAndCollect(ev, tc.codes)

			if tc.verify != nil {
				tc.verify(t, ev)
			}
			if !matchOut(tc.want.ValueOut, r.ValueOut) {
				t.Errorf("got value out (-want +got):\n%s",
					cmp.Diff(describe(ev, tc.want.ValueOut), describe(ev, r.ValueOut)))
			}
			if !bytes.Equal(tc.want.BytesOut, r.BytesOut) {
				t.Errorf("got bytes out %q, want %q", r.BytesOut, tc.want.BytesOut)
			}
			if !matchErr(tc.want.CompilationError, r.CompilationError) {
				t.Errorf("got compilation error %v, want %v",
					r.CompilationError, tc.want.CompilationError)
			}
			if !matchErr(tc.want.Exception, r.Exception) {
				t.Errorf("unexpected exception")
				if exc, ok := r.Exception.(eval.Exception); ok {
					// For an eval.Exception report the type of the underlying error.
					t.Logf("got: %T: %v", exc.Reason(), exc)
					t.Logf("stack trace: %#v", getStackTexts(exc.StackTrace()))
				} else {
					t.Logf("got: %T: %v", r.Exception, r.Exception)
				}
				t.Errorf("want: %v", tc.want.Exception)
			}
		})
	}
}

func evalAndCollect(ev *eval.Evaler, texts []string) result {
	var r result
	var out bytes.Buffer
	ev.Out = &out

	for _, text := range texts {
		results, err := ev.Eval(context.Background(), "[test]", text, eval.KeepAll)
		for _, res := range results {
			if _, void := res.Value.(node.Void); !void {
				r.ValueOut = append(r.ValueOut, rendered{res.Value, ev.Render(res.Value)})
			}
		}
		if len(diag.UnpackErrors[compile.ErrorTag](err)) > 0 {
			// NOTE: If multiple code pieces have compilation errors, only the
			// last one is saved.
			r.CompilationError = err
		} else if err != nil {
			// NOTE: If multiple code pieces throw exceptions, only the last one
			// is saved.
			r.Exception = err
		}
	}

	r.BytesOut = out.Bytes()
	return r
}

// A value produced by a program, together with its rendered form.
type rendered struct {
	n    node.Node
	text string
}

func describe(ev *eval.Evaler, vs []any) []string {
	texts := make([]string, len(vs))
	for i, v := range vs {
		switch v := v.(type) {
		case rendered:
			texts[i] = v.text
		case node.Node:
			texts[i] = ev.Render(v)
		default:
			texts[i] = fmt.Sprintf("%T %v", v, v)
		}
	}
	return texts
}

func matchOut(want, got []any) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !match(got[i].(rendered), want[i]) {
			return false
		}
	}
	return true
}

func match(got rendered, want any) bool {
	switch want := want.(type) {
	case ValueMatcher:
		return want.matchValue(got.n)
	case node.Node:
		return want.Equal(got.n)
	case string:
		return want == got.text
	case int:
		return node.IntOf(int64(want)).Equal(got.n)
	case float64:
		f, ok := got.n.(node.Float)
		return ok && matchFloat64(f.V, want, 0)
	case bool:
		return node.Bool{V: want}.Equal(got.n)
	}
	return false
}

func matchErr(want, got error) bool {
	if want == nil {
		return got == nil
	}
	if matcher, ok := want.(errorMatcher); ok {
		return matcher.matchError(got)
	}
	return errors.Is(got, want) || reflect.DeepEqual(want, got)
}
