package eval

import (
	"bytes"
	"errors"
	"fmt"

	"src.sigma.sh/pkg/diag"
	"src.sigma.sh/pkg/node"
)

// Exception is an execution error together with where it happened. It is
// returned by (*Evaler).Run and (*Evaler).Simplify.
type Exception interface {
	error
	diag.Shower
	Reason() error
	StackTrace() *StackTrace
	// Makes sure that there is only one implementation of Exception.
	isException()
}

// NewException creates a new Exception.
func NewException(reason error, stackTrace *StackTrace) Exception {
	exc := &exception{reason: reason, stackTrace: stackTrace}
	exc.tail = stackTrace
	for exc.tail != nil && exc.tail.Next != nil {
		exc.tail = exc.tail.Next
	}
	return exc
}

type exception struct {
	reason     error
	stackTrace *StackTrace
	// Last frame of stackTrace, where outer frames are added.
	tail *StackTrace
}

// StackTrace represents a stack trace as a linked list of diag.Context. The
// head is the innermost frame.
type StackTrace struct {
	Head *diag.Context
	Next *StackTrace
}

// Reason returns the Reason field if err is an Exception. Otherwise it returns
// err itself.
func Reason(err error) error {
	if exc, ok := err.(*exception); ok {
		return exc.reason
	}
	return err
}

func (exc *exception) isException() {}

func (exc *exception) Reason() error { return exc.reason }

func (exc *exception) StackTrace() *StackTrace { return exc.stackTrace }

func (exc *exception) Unwrap() error { return exc.reason }

// Error returns the message of the cause of the exception.
func (exc *exception) Error() string { return exc.reason.Error() }

// Show shows the exception.
func (exc *exception) Show(indent string) string {
	buf := new(bytes.Buffer)

	var causeDescription string
	if shower, ok := exc.reason.(diag.Shower); ok {
		causeDescription = shower.Show(indent)
	} else {
		causeDescription = diag.Styled(exc.reason.Error())
	}
	fmt.Fprintf(buf, "Exception: %s", causeDescription)

	if exc.stackTrace != nil {
		buf.WriteString("\n")
		if exc.stackTrace.Next == nil {
			buf.WriteString(indent + exc.stackTrace.Head.ShowCompact(indent))
		} else {
			buf.WriteString(indent + "Traceback:")
			for tb := exc.stackTrace; tb != nil; tb = tb.Next {
				buf.WriteString("\n" + indent + "  ")
				buf.WriteString(tb.Head.Show(indent + "    "))
			}
		}
	}
	return buf.String()
}

// addFrame adds an outer frame to the stack trace.
func (exc *exception) addFrame(ctx *diag.Context) {
	frame := &StackTrace{Head: ctx}
	if exc.tail == nil {
		exc.stackTrace = frame
	} else {
		exc.tail.Next = frame
	}
	exc.tail = frame
}

// Name of the contexts of frames that point to a node rather than a source
// line.
const nodeFrameName = "[expr]"

func nodeContext(n node.Node) *diag.Context {
	src := n.String()
	return &diag.Context{Name: nodeFrameName, Source: src, Ranging: diag.Ranging{From: 0, To: len(src)}}
}

// tag adds n as the next outer frame of err, turning it into an Exception if
// it is not one yet. Flow signals are returned unchanged.
func tag(err error, n node.Node) error {
	if err == nil || IsFlow(err) {
		return err
	}
	exc, ok := err.(*exception)
	if !ok {
		exc = &exception{reason: err}
	}
	exc.addFrame(nodeContext(n))
	return exc
}

// Flow is a special type of error used for the control flows break and
// continue.
type Flow uint

// Control flows.
const (
	Break Flow = iota
	Continue
)

var flowNames = [...]string{"break", "continue"}

func (f Flow) Error() string {
	if f >= Flow(len(flowNames)) {
		return fmt.Sprintf("!(BAD FLOW: %d)", f)
	}
	return flowNames[f]
}

// Show shows the flow "error".
func (f Flow) Show(string) string {
	return "\033[33;1m" + f.Error() + "\033[m"
}

// ReturnValue is the control flow raised by return. It is captured by the
// innermost function call.
type ReturnValue struct {
	Value node.Node
}

func (r ReturnValue) Error() string { return "return" }

// Show shows the flow "error".
func (r ReturnValue) Show(string) string {
	return "\033[33;1mreturn\033[m"
}

// IsFlow reports whether err is a control flow signal. Control flows are
// never caught by try.
func IsFlow(err error) bool {
	var f Flow
	var r ReturnValue
	return errors.As(err, &f) || errors.As(err, &r)
}
