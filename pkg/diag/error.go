package diag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorTag is used to parameterize [Error] into different concrete types.
type ErrorTag interface {
	ErrorTag() string
}

// Error represents an error with context that can be showed.
type Error[T ErrorTag] struct {
	Message string
	Context Context
	// Indicates whether the error may be caused by partial input. More
	// input can fix this error.
	Partial bool
}

// Error returns a plain text representation of the error.
func (e *Error[T]) Error() string {
	return errorTag[T]() + ": " + e.Context.Describe() + ": " + e.Message
}

// Range returns the range of the error.
func (e *Error[T]) Range() Ranging {
	return e.Context.Range()
}

// Line returns the 1-based line the error starts on.
func (e *Error[T]) Line() int {
	return e.Context.Begin().Line
}

var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)

// Show shows the error.
func (e *Error[T]) Show(indent string) string {
	return fmt.Sprintf("%s: %s%s%s\n%s%s", title(errorTag[T]()),
		messageStart, e.Message, messageEnd,
		indent+"  ", e.Context.ShowCompact(indent+"  "))
}

func errorTag[T ErrorTag]() string {
	var t T
	return t.ErrorTag()
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// MultiError packs multiple errors of the same tag into one error.
type MultiError[T ErrorTag] struct {
	Entries []*Error[T]
}

// PackErrors packs multiple instances of [Error] with the same tag into one
// error. It returns nil when given no entries, and the only entry when given
// one.
func PackErrors[T ErrorTag](entries []*Error[T]) error {
	switch len(entries) {
	case 0:
		return nil
	case 1:
		return entries[0]
	default:
		return &MultiError[T]{entries}
	}
}

// Error returns a plain text representation of the error.
func (me *MultiError[T]) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "multiple %ss:", errorTag[T]())
	for i, e := range me.Entries {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(" " + e.Context.Describe() + ": " + e.Message)
	}
	return sb.String()
}

// Show shows the error.
func (me *MultiError[T]) Show(indent string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Multiple %ss:", errorTag[T]())
	for _, e := range me.Entries {
		sb.WriteString("\n" + indent + "  ")
		sb.WriteString(messageStart + e.Message + messageEnd + "\n")
		sb.WriteString(indent + "    " + e.Context.ShowCompact(indent+"    "))
	}
	return sb.String()
}

// UnpackErrors returns the constituent [Error] instances in an error if it is
// built from [PackErrors]. Otherwise it returns nil.
func UnpackErrors[T ErrorTag](err error) []*Error[T] {
	var single *Error[T]
	var multi *MultiError[T]
	switch {
	case errors.As(err, &multi):
		return append([]*Error[T](nil), multi.Entries...)
	case errors.As(err, &single):
		return []*Error[T]{single}
	}
	return nil
}
