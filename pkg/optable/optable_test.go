package optable

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault_Ambiguous(t *testing.T) {
	table := Default()
	ops := table.Ambiguous("!")
	var got []string
	for _, op := range ops {
		got = append(got, op.Name+"/"+op.Assoc.String())
	}
	want := []string{"factorial/postfix", "not/prefix"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Ambiguous(\"!\") (-want +got):\n%s", diff)
	}
}

func TestDefine_RejectsConflicts(t *testing.T) {
	table := Default()
	var cfgErr *ConfigError

	_, err := table.Define("plus", Infix, 80, "+")
	if !errors.As(err, &cfgErr) {
		t.Errorf("same symbol and assoc: got %v, want ConfigError", err)
	}
	_, err = table.Define("add", Infix, 80, "++")
	if !errors.As(err, &cfgErr) {
		t.Errorf("same name and assoc: got %v, want ConfigError", err)
	}
	op, _ := table.ByName("add")
	_, err = table.DefineEncoded("plus2", Infix, 80, "+++", op.Encoding)
	if !errors.As(err, &cfgErr) {
		t.Errorf("same encoding: got %v, want ConfigError", err)
	}
	_, err = table.Define("weird", Infix, 80, "a+")
	if !errors.As(err, &cfgErr) {
		t.Errorf("mixed symbol: got %v, want ConfigError", err)
	}

	// Same symbol with a different associativity is fine.
	if _, err := table.Define("pos", Prefix, PrecUnary, "+"); err != nil {
		t.Errorf("prefix +: got %v", err)
	}
}

func TestSymbols_LongestFirst(t *testing.T) {
	symbols := Default().Symbols()
	index := make(map[string]int)
	for i, s := range symbols {
		index[s] = i
	}
	for _, pair := range [][2]string{{">=", ">"}, {"<=", "<"}, {"|?", "|"}, {"::", "!"}, {":=", "="}} {
		if index[pair[0]] > index[pair[1]] {
			t.Errorf("%q should come before %q", pair[0], pair[1])
		}
	}
}

func TestCompilationPriority(t *testing.T) {
	table := Default()
	ge, _ := table.ByName("ge")
	gt, _ := table.ByName("gt")
	if ge.CompilationPriority() <= gt.CompilationPriority() {
		t.Errorf("priority of >= should exceed that of >")
	}
}

func TestEncoder(t *testing.T) {
	var e Encoder
	a, b := e.Next(), e.Next()
	if a == b {
		t.Errorf("Next returned %U twice", a)
	}
	if e.Reserve(a) {
		t.Errorf("Reserve(%U) should report it was in use", a)
	}
	if x1, x2 := e.Fresh("x"), e.Fresh("x"); x1 == x2 || !IsFresh(x1) {
		t.Errorf("Fresh returned %q and %q", x1, x2)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	table := Default()
	clone := table.Clone()
	if _, err := clone.Define("dot", Infix, 90, "<>"); err != nil {
		t.Fatal(err)
	}
	if _, ok := table.ByName("dot"); ok {
		t.Errorf("defining in clone changed original")
	}
	if ops := clone.Ambiguous("-"); len(ops) != 2 {
		t.Errorf("clone lost ambiguous operators: %v", ops)
	}
}

func TestWordOperatorsArePadded(t *testing.T) {
	table := Default()
	at, _ := table.ByName("at")
	mul, _ := table.ByName("mul")
	if !at.IsWord() || !at.Padded {
		t.Errorf("at should be a padded word operator")
	}
	if mul.Padded {
		t.Errorf("mul should not be padded")
	}
}
