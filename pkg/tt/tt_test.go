package tt

import (
	"errors"
	"fmt"
	"testing"
)

// testT implements the T interface and is used to verify the Test function's
// interaction with T.
type testT []string

func (t *testT) Helper() {}

func (t *testT) Errorf(format string, args ...any) {
	*t = append(*t, fmt.Sprintf(format, args...))
}

func add(x, y int) int { return x + y }

func addWithCarry(x, y int) (int, bool) {
	if x+y > 9 {
		return x + y - 10, true
	}
	return x + y, false
}

func fail(msg string) error { return errors.New(msg) }

func TestTTPass(t *testing.T) {
	var testT testT
	Test(&testT, add,
		Args(1, 10).Rets(11),
		Args(5, 7).Rets(Any),
	)
	Test(&testT, addWithCarry,
		Args(3, 8).Rets(1, true),
	)
	Test(&testT, fail,
		Args("bad thing").Rets(ErrorWithMessage("bad")),
	)
	if len(testT) > 0 {
		t.Errorf("Test errors when test should pass: %v", testT)
	}
}

func TestTTFail(t *testing.T) {
	var testT testT
	Test(&testT, add,
		Args(1, 10).Rets(12),
	)
	if len(testT) != 1 {
		t.Fatalf("got %d errors, want 1", len(testT))
	}
	want := "tt.add(1, 10) -> 11, want 12"
	if testT[0] != want {
		t.Errorf("got message %q, want %q", testT[0], want)
	}
}
