package shell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"src.sigma.sh/pkg/store"
)

// REPL history backed by a store. A nil *history drops everything.
type history struct {
	store store.DBStore
}

// Opens the history database at path, creating its directory. Problems are
// reported to w and result in a nil history.
func openHistory(path string, w io.Writer) *history {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		fmt.Fprintln(w, "Warning: cannot create history directory:", err)
		return nil
	}
	st, err := store.NewStore(path)
	if err != nil {
		fmt.Fprintln(w, "Warning: cannot open history:", err)
		return nil
	}
	return &history{st}
}

// Recent returns the last n entries, oldest first.
func (h *history) Recent(n int) []string {
	if h == nil || n == 0 {
		return nil
	}
	cmds, err := h.store.Cmds(n)
	if err != nil {
		logger.Println("cannot read history:", err)
		return nil
	}
	return cmds
}

func (h *history) Add(code string) {
	if h == nil {
		return
	}
	if _, err := h.store.AddCmd(code); err != nil {
		logger.Println("cannot add history:", err)
	}
}

func (h *history) Close() {
	if h == nil {
		return
	}
	if err := h.store.Close(); err != nil {
		logger.Println("cannot close history:", err)
	}
}
