// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.sigma.sh/pkg/store/storedefs"
)

var (
	cmds     = []string{"x := 1", "f(x) := x^2", "f(3)", "x + 1"}
	searches = []struct {
		next      bool
		seq       int
		prefix    string
		wantedSeq int
		wantedCmd string
		wantedErr error
	}{
		{false, 5, "x", 4, "x + 1", nil},
		{false, 5, "f", 3, "f(3)", nil},
		{false, 4, "x", 1, "x := 1", nil},
		{false, 3, "g", 0, "", storedefs.ErrNoMatchingCmd},

		{true, 1, "x", 1, "x := 1", nil},
		{true, 1, "f", 2, "f(x) := x^2", nil},
		{true, 2, "x", 4, "x + 1", nil},
		{true, 4, "f", 0, "", storedefs.ErrNoMatchingCmd},
	}
)

// TestCmd tests the command history functionality of a Store.
func TestCmd(t *testing.T, store storedefs.Store) {
	startSeq, err := store.NextCmdSeq()
	if startSeq != 1 || err != nil {
		t.Errorf("store.NextCmdSeq() -> (%v, %v), want (1, nil)", startSeq, err)
	}
	for _, cmd := range cmds {
		if _, err := store.AddCmd(cmd); err != nil {
			t.Errorf("store.AddCmd(%v) -> %v, want nil", cmd, err)
		}
	}
	if seq, err := store.AddCmd("  "); seq != 0 || err != nil {
		t.Errorf("store.AddCmd(blank) -> (%v, %v), want (0, nil)", seq, err)
	}
	endSeq, err := store.NextCmdSeq()
	wantedEndSeq := startSeq + len(cmds)
	if endSeq != wantedEndSeq || err != nil {
		t.Errorf("store.NextCmdSeq() -> (%v, %v), want (%v, nil)",
			endSeq, err, wantedEndSeq)
	}
	for i, wantedCmd := range cmds {
		seq := i + startSeq
		cmd, err := store.Cmd(seq)
		if cmd != wantedCmd || err != nil {
			t.Errorf("store.Cmd(%v) -> (%v, %v), want (%v, nil)",
				seq, cmd, err, wantedCmd)
		}
	}
	for _, tc := range searches {
		f, fname := store.PrevCmd, "store.PrevCmd"
		if tc.next {
			f, fname = store.NextCmd, "store.NextCmd"
		}
		cmd, err := f(tc.seq, tc.prefix)
		wantedCmd := storedefs.Cmd{Text: tc.wantedCmd, Seq: tc.wantedSeq}
		if cmd != wantedCmd || err != tc.wantedErr {
			t.Errorf("%s(%v, %v) -> (%v, %v), want (%v, %v)",
				fname, tc.seq, tc.prefix, cmd, err, wantedCmd, tc.wantedErr)
		}
	}

	last, err := store.Cmds(2)
	if diff := cmp.Diff(cmds[2:], last); diff != "" || err != nil {
		t.Errorf("store.Cmds(2) -> err %v, diff (-want +got):\n%s", err, diff)
	}
	all, err := store.Cmds(0)
	if diff := cmp.Diff(cmds, all); diff != "" || err != nil {
		t.Errorf("store.Cmds(0) -> err %v, diff (-want +got):\n%s", err, diff)
	}
	withSeq, err := store.CmdsWithSeq(2, 4)
	wantWithSeq := []storedefs.Cmd{{Text: cmds[1], Seq: 2}, {Text: cmds[2], Seq: 3}}
	if diff := cmp.Diff(wantWithSeq, withSeq); diff != "" || err != nil {
		t.Errorf("store.CmdsWithSeq(2, 4) -> err %v, diff (-want +got):\n%s", err, diff)
	}

	if err := store.DelCmd(1); err != nil {
		t.Errorf("store.DelCmd(1) -> %v", err)
	}
	if cmd, err := store.Cmd(1); err != storedefs.ErrNoMatchingCmd {
		t.Errorf("store.Cmd(1) -> (%v, %v), want (\"\", ErrNoMatchingCmd)", cmd, err)
	}
}
