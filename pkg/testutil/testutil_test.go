package testutil

import (
	"os"
	"testing"
)

func TestDedent(t *testing.T) {
	got := Dedent(`
		a := 1
		  f(a)
		b`)
	want := "a := 1\n  f(a)\nb"
	if got != want {
		t.Errorf("Dedent -> %q, want %q", got, want)
	}
}

func TestSet(t *testing.T) {
	x := 1
	t.Run("inner", func(t *testing.T) {
		Set(t, &x, 2)
		if x != 2 {
			t.Errorf("x = %d, want 2", x)
		}
	})
	if x != 1 {
		t.Errorf("x = %d after cleanup, want 1", x)
	}
}

func TestTempDir(t *testing.T) {
	var dir string
	t.Run("inner", func(t *testing.T) {
		dir = TempDir(t)
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			t.Errorf("TempDir %q is not a directory: %v", dir, err)
		}
	})
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("TempDir %q not removed after test", dir)
	}
}

func TestInTempDir(t *testing.T) {
	pwd, _ := os.Getwd()
	t.Run("inner", func(t *testing.T) {
		dir := InTempDir(t)
		if got, _ := os.Getwd(); got != dir {
			t.Errorf("working directory is %q, want %q", got, dir)
		}
	})
	if got, _ := os.Getwd(); got != pwd {
		t.Errorf("working directory not restored: %q, want %q", got, pwd)
	}
}
