package store

import (
	"path/filepath"

	"src.sigma.sh/pkg/testutil"
)

// MustGetTempStore returns a Store backed by a file in a temporary directory.
// The store is closed when the test finishes.
func MustGetTempStore(c testutil.TB) DBStore {
	st, err := NewStore(filepath.Join(testutil.TempDir(c), "db"))
	if err != nil {
		panic(err)
	}
	c.Cleanup(func() { st.Close() })
	return st
}
