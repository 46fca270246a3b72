package eval

import (
	"errors"
	"fmt"

	"src.sigma.sh/pkg/node"
	"src.sigma.sh/pkg/num"
)

// ErrorKind classifies execution errors.
type ErrorKind uint8

// Possible values of ErrorKind.
const (
	General ErrorKind = iota
	TypeMismatch
	Domain
	Range
	Index
	Dimension
	InvalidSubscript
	CircularDefinition
	NonSquareMatrix
	UndefinedVariable
	StackLimit
)

var errorKindNames = [...]string{
	General:            "error",
	TypeMismatch:       "type mismatch",
	Domain:             "domain error",
	Range:              "range error",
	Index:              "index error",
	Dimension:          "dimension mismatch",
	InvalidSubscript:   "invalid subscript",
	CircularDefinition: "circular definition",
	NonSquareMatrix:    "non-square matrix",
	UndefinedVariable:  "undefined variable",
	StackLimit:         "stack limit exceeded",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("!(BAD ERROR KIND: %d)", k)
}

// Error is an execution error.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Errorf returns an *Error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{kind, fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

// Is reports whether target is an *Error of the same kind with no message or
// the same message. It supports errors.Is(err, &Error{Kind: Index}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// KindOf returns the kind of the *Error wrapped in err, and General for other
// errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(Reason(err), &e) {
		return e.Kind
	}
	return General
}

// NumError converts an error from the num package into an *Error.
func NumError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, num.ErrDivideByZero), errors.Is(err, num.ErrDomain):
		return &Error{Domain, err.Error()}
	case errors.Is(err, num.ErrNotNumber):
		return &Error{TypeMismatch, err.Error()}
	}
	return err
}

// WrongType returns a type mismatch error about a node, where want describes
// what was expected, like "a boolean".
func WrongType(want string, n node.Node) *Error {
	return Errorf(TypeMismatch, "want %s, got %s %s", want, n.Kind(), n)
}
