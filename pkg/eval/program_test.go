package eval_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	. "src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/mods"
	"src.sigma.sh/pkg/tt"
)

func newEvaler() *Evaler {
	ev := NewEvaler(mods.All...)
	ev.Out = io.Discard
	return ev
}

var retentionTests = []struct {
	policy    Policy
	wantA     bool // defined before the program
	wantX     bool // defined by the program
	wantFn    bool // function defined by the program
	wantDepth int
}{
	{RestorePrior, true, false, false, 0},
	{RestoreDefaults, false, false, false, 0},
	{KeepAll, true, true, true, 0},
}

func TestRun_Retention(t *testing.T) {
	for _, test := range retentionTests {
		t.Run(test.policy.String(), func(t *testing.T) {
			ev := newEvaler()
			ctx := context.Background()
			if _, err := ev.Eval(ctx, "[setup]", "a := 1", KeepAll); err != nil {
				t.Fatal(err)
			}
			_, err := ev.Eval(ctx, "[test]", "x := 2\nf(y) := y + 1", test.policy)
			if err != nil {
				t.Fatal(err)
			}
			if _, ok := ev.Lookup("a"); ok != test.wantA {
				t.Errorf("a defined = %v, want %v", ok, test.wantA)
			}
			if _, ok := ev.Lookup("x"); ok != test.wantX {
				t.Errorf("x defined = %v, want %v", ok, test.wantX)
			}
			if ok := ev.Scope.Registry().Has("f"); ok != test.wantFn {
				t.Errorf("f defined = %v, want %v", ok, test.wantFn)
			}
			if ok := ev.Scope.Registry().Has("add"); !ok {
				t.Errorf("built-in add lost")
			}
			if d := ev.Scope.Depth(); d != test.wantDepth {
				t.Errorf("scope depth = %d, want %d", d, test.wantDepth)
			}
		})
	}
}

func TestRun_RetentionAfterError(t *testing.T) {
	ev := newEvaler()
	results, err := ev.Eval(context.Background(), "[test]", "x := 2\n1/0\nx := 3", RestorePrior)
	if KindOf(err) != Domain {
		t.Errorf("got error %v, want domain error", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
	if _, ok := ev.Lookup("x"); ok {
		t.Errorf("x survived RestorePrior")
	}
}

func TestRun_ResultLines(t *testing.T) {
	ev := newEvaler()
	results, err := ev.Eval(context.Background(), "[test]", "# comment\n1\n\nf(\n2)", KeepAll)
	if err != nil {
		t.Fatal(err)
	}
	var lines []int
	for _, r := range results {
		lines = append(lines, r.Line)
	}
	if len(lines) != 2 || lines[0] != 2 || lines[1] != 4 {
		t.Errorf("got lines %v, want [2 4]", lines)
	}
}

func TestRun_OnResult(t *testing.T) {
	ev := newEvaler()
	var streamed []int
	ev.OnResult = func(r Result) { streamed = append(streamed, r.Line) }
	results, err := ev.Eval(context.Background(), "[test]", "1\n2\n1/0", KeepAll)
	if err == nil {
		t.Fatal("got nil error, want domain error")
	}
	if len(streamed) != 2 || len(results) != 2 {
		t.Errorf("streamed %v, returned %d results, want 2 each", streamed, len(results))
	}
}

func TestRun_Cancelled(t *testing.T) {
	ev := newEvaler()
	prog, err := ev.Compiler.Document(context.Background(), "[test]", "1\n2")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := ev.Run(ctx, prog, KeepAll)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got error %v, want context.Canceled", err)
	}
	if len(results) != 0 {
		t.Errorf("got results %v, want none", results)
	}
}

func TestRun_LoopTimeout(t *testing.T) {
	ev := newEvaler()
	prog, err := ev.Compiler.Document(context.Background(), "[test]", "while(true) {}")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = ev.Run(ctx, prog, KeepAll)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got error %v, want context.DeadlineExceeded", err)
	}
}

func TestErrorLine(t *testing.T) {
	ev := newEvaler()
	_, runErr := ev.Eval(context.Background(), "[test]", "1\n2\n1/0", KeepAll)
	_, compileErr := ev.Eval(context.Background(), "[test]", "1\n2+", KeepAll)
	tt.Test(t, ErrorLine,
		tt.Args(runErr).Rets(3),
		tt.Args(compileErr).Rets(2),
		tt.Args(errors.New("plain")).Rets(0),
	)
}

func TestParsePolicy(t *testing.T) {
	tt.Test(t, ParsePolicy,
		tt.Args("restore").Rets(RestorePrior, nil),
		tt.Args("default").Rets(RestoreDefaults, nil),
		tt.Args("keep").Rets(KeepAll, nil),
		tt.Args("forever").Rets(Policy(0), tt.ErrorWithMessage("unknown retention policy")),
	)
}
