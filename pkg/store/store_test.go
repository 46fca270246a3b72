package store_test

import (
	"path/filepath"
	"testing"

	"src.sigma.sh/pkg/store"
	"src.sigma.sh/pkg/store/storetest"
	"src.sigma.sh/pkg/testutil"
)

func TestCmd(t *testing.T) {
	storetest.TestCmd(t, store.MustGetTempStore(t))
}

func TestNewStore_Reopen(t *testing.T) {
	name := filepath.Join(testutil.TempDir(t), "db")
	st, err := store.NewStore(name)
	if err != nil {
		t.Fatal(err)
	}
	st.AddCmd("1 + 1")
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	st, err = store.NewStore(name)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if cmd, err := st.Cmd(1); cmd != "1 + 1" || err != nil {
		t.Errorf("Cmd(1) after reopening -> (%q, %v), want (\"1 + 1\", nil)", cmd, err)
	}
	if seq, _ := st.NextCmdSeq(); seq != 2 {
		t.Errorf("NextCmdSeq() after reopening -> %d, want 2", seq)
	}
}

func TestNewStore_BadPath(t *testing.T) {
	_, err := store.NewStore(filepath.Join(testutil.TempDir(t), "no", "such", "db"))
	if err == nil {
		t.Errorf("NewStore in a missing directory should fail")
	}
}
