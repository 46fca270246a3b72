package eval_test

import (
	"errors"
	"strings"
	"testing"

	"src.sigma.sh/pkg/diag"
	. "src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/tt"
)

func makeException(cause error, entries ...*diag.Context) Exception {
	var st *StackTrace
	for i := len(entries) - 1; i >= 0; i-- {
		st = &StackTrace{Head: entries[i], Next: st}
	}
	return NewException(cause, st)
}

func TestReason(t *testing.T) {
	err := errors.New("ordinary error")
	tt.Test(t, Reason,
		tt.Args(err).Rets(err),
		tt.Args(makeException(err)).Rets(err),
	)
}

func TestKindOf(t *testing.T) {
	tt.Test(t, KindOf,
		tt.Args(Errorf(Index, "x")).Rets(Index),
		tt.Args(makeException(Errorf(Dimension, "x"))).Rets(Dimension),
		tt.Args(errors.New("x")).Rets(General),
	)
}

func TestError_Is(t *testing.T) {
	err := makeException(Errorf(Index, "out of range"))
	if !errors.Is(err, &Error{Kind: Index}) {
		t.Errorf("exception should match an empty Error of the same kind")
	}
	if !errors.Is(err, &Error{Kind: Index, Message: "out of range"}) {
		t.Errorf("exception should match an Error with the same message")
	}
	if errors.Is(err, &Error{Kind: Domain}) {
		t.Errorf("exception should not match an Error of another kind")
	}
}

func TestErrorMethods(t *testing.T) {
	tt.Test(t, error.Error,
		tt.Args(makeException(errors.New("err"))).Rets("err"),
		tt.Args(Errorf(Domain, "log of %d", -1)).Rets("domain error: log of -1"),
		tt.Args(&Error{Kind: StackLimit}).Rets("stack limit exceeded"),
		tt.Args(Break).Rets("break"),
		tt.Args(Continue).Rets("continue"),
		tt.Args(ReturnValue{}).Rets("return"),
	)
}

func TestIsFlow(t *testing.T) {
	tt.Test(t, IsFlow,
		tt.Args(Break).Rets(true),
		tt.Args(ReturnValue{}).Rets(true),
		tt.Args(Errorf(General, "")).Rets(false),
	)
}

func TestException_Show(t *testing.T) {
	src := "a\n1/0"
	exc := makeException(Errorf(Domain, "division by zero"),
		diag.NewContext("[expr]", "div(1,0)", diag.Ranging{From: 0, To: 8}),
		&diag.Context{Name: "[test]", Source: src, Ranging: diag.Ranging{From: 2, To: 5}, LineOffset: 0})
	shown := exc.Show("")
	for _, want := range []string{"Exception: ", "domain error: division by zero", "Traceback:", "[test]"} {
		if !strings.Contains(shown, want) {
			t.Errorf("Show() = %q, want it to contain %q", shown, want)
		}
	}
}
