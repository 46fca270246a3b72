//go:build unix

package sys_test

import (
	"os"
	"testing"

	"github.com/creack/pty"

	"src.sigma.sh/pkg/must"
	. "src.sigma.sh/pkg/sys"
)

func TestIsATTY(t *testing.T) {
	ptm, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	defer ptm.Close()
	defer tty.Close()
	if !IsATTY(tty.Fd()) {
		t.Errorf("IsATTY(pty) = false, want true")
	}

	r, w := must.OK2(os.Pipe())
	defer r.Close()
	defer w.Close()
	if IsATTY(r.Fd()) {
		t.Errorf("IsATTY(pipe) = true, want false")
	}
}

func TestWinSize(t *testing.T) {
	ptm, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	defer ptm.Close()
	defer tty.Close()

	must.OK(pty.Setsize(ptm, &pty.Winsize{Rows: 30, Cols: 100}))
	if row, col := WinSize(tty); row != 30 || col != 100 {
		t.Errorf("WinSize(pty) = (%d, %d), want (30, 100)", row, col)
	}

	r, w := must.OK2(os.Pipe())
	defer r.Close()
	defer w.Close()
	if row, col := WinSize(r); row != -1 || col != -1 {
		t.Errorf("WinSize(pipe) = (%d, %d), want (-1, -1)", row, col)
	}
}
