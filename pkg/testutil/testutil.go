// Package testutil contains common test utilities.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Cleanuper wraps the Cleanup method. It is a subset of [testing.TB], thus
// satisfied by [*testing.T] and [*testing.B].
type Cleanuper interface {
	Cleanup(func())
}

// TB is the subset of [testing.TB] used by helpers that can fail.
type TB interface {
	Cleanuper
	Helper()
	Fatal(args ...any)
}

// Set sets *p to v for the duration of a test.
func Set[T any](c Cleanuper, p *T, v T) {
	old := *p
	*p = v
	c.Cleanup(func() { *p = old })
}

// TempDir creates a temporary directory that is removed when the test
// finishes. Symlinks in the path are resolved.
func TempDir(t TB) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "sigmatest")
	if err != nil {
		t.Fatal(err)
	}
	dir, err = filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// InTempDir is like TempDir, but also changes into the directory. The
// original working directory is restored when the test finishes.
func InTempDir(t TB) string {
	t.Helper()
	dir := TempDir(t)
	pwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(pwd) })
	return dir
}

// Dedent removes the common leading indentation of all non-blank lines. A
// leading newline is dropped, so that raw strings can start on the line
// after the opening backtick.
func Dedent(text string) string {
	text = strings.TrimPrefix(text, "\n")
	lines := strings.Split(text, "\n")
	margin := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		if indent := len(line) - len(trimmed); margin == -1 || indent < margin {
			margin = indent
		}
	}
	for i, line := range lines {
		if len(line) >= margin && margin > 0 {
			lines[i] = line[margin:]
		} else if strings.TrimLeft(line, " \t") == "" {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}
