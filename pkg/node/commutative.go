package node

// Names of calls whose arguments are kept in canonical order. The set is
// fixed; engines that rewrite other calls commutatively track that
// themselves.
var commutative = map[string]bool{
	"add": true, "mul": true, "and": true, "or": true,
}

// IsCommutative reports whether calls with the given name are commutative.
func IsCommutative(name string) bool { return commutative[name] }
