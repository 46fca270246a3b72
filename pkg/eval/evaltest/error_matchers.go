package evaltest

import (
	"fmt"
	"reflect"
	"strings"

	"src.sigma.sh/pkg/compile"
	"src.sigma.sh/pkg/diag"
	"src.sigma.sh/pkg/eval"
)

type errorMatcher interface{ matchError(error) bool }

// An errorMatcher for any error.
type anyError struct{}

func (anyError) Error() string           { return "any error" }
func (anyError) matchError(e error) bool { return e != nil }

// An errorMatcher for compilation errors.
type compilationError struct {
	msgs []string
}

func (e compilationError) Error() string {
	return fmt.Sprintf("compilation errors with messages: %v", e.msgs)
}

func (e compilationError) matchError(e2 error) bool {
	errs := diag.UnpackErrors[compile.ErrorTag](e2)
	if len(e.msgs) != len(errs) {
		return false
	}
	for i, msg := range e.msgs {
		if msg != errs[i].Message {
			return false
		}
	}
	return true
}

// An errorMatcher for exceptions.
type exc struct {
	reason error
	stacks []string
}

func (e exc) Error() string {
	if len(e.stacks) == 0 {
		return fmt.Sprintf("exception with reason %v", e.reason)
	}
	return fmt.Sprintf("exception with reason %v and stacks %v", e.reason, e.stacks)
}

func (e exc) matchError(e2 error) bool {
	if e2, ok := e2.(eval.Exception); ok {
		return matchErr(e.reason, e2.Reason()) &&
			(len(e.stacks) == 0 ||
				reflect.DeepEqual(e.stacks, getStackTexts(e2.StackTrace())))
	}
	return false
}

func getStackTexts(tb *eval.StackTrace) []string {
	texts := []string{}
	for tb != nil {
		ctx := tb.Head
		texts = append(texts, ctx.Source[ctx.From:ctx.To])
		tb = tb.Next
	}
	return texts
}

// AnyError is an error that can be passed to Case.Throws to match any
// reason.
var AnyError error = anyError{}

// ErrorWithKind returns an error that can be passed to Case.Throws to match
// any *eval.Error of the given kind.
func ErrorWithKind(k eval.ErrorKind) error { return errWithKind{k} }

type errWithKind struct{ kind eval.ErrorKind }

func (e errWithKind) Error() string { return "error of kind " + e.kind.String() }

func (e errWithKind) matchError(e2 error) bool {
	_, ok := e2.(*eval.Error)
	return ok && eval.KindOf(e2) == e.kind
}

// ErrorWithType returns an error that can be passed to Case.Throws to match
// any error with the same type as the argument.
func ErrorWithType(v error) error { return errWithType{v} }

// An errorMatcher for any error with the given type.
type errWithType struct{ v error }

func (e errWithType) Error() string { return fmt.Sprintf("error with type %T", e.v) }

func (e errWithType) matchError(e2 error) bool {
	return reflect.TypeOf(e.v) == reflect.TypeOf(e2)
}

// ErrorWithMessage returns an error that can be passed to Case.Throws to match
// any error with the given message.
func ErrorWithMessage(msg string) error { return errWithMessage{msg} }

// An errorMatcher for any error with the given message.
type errWithMessage struct{ msg string }

func (e errWithMessage) Error() string { return "error with message " + e.msg }

func (e errWithMessage) matchError(e2 error) bool {
	return e2 != nil && e.msg == e2.Error()
}

// ErrorContaining returns an error that can be passed to Case.Throws to match
// any error whose message contains the given text.
func ErrorContaining(part string) error { return errContaining{part} }

type errContaining struct{ part string }

func (e errContaining) Error() string { return "error containing " + e.part }

func (e errContaining) matchError(e2 error) bool {
	return e2 != nil && strings.Contains(e2.Error(), e.part)
}

type errOneOf struct{ errs []error }

// OneOfErrors returns an error that can be passed to Case.Throws to match
// any of the given errors.
func OneOfErrors(errs ...error) error { return errOneOf{errs} }

func (e errOneOf) Error() string { return fmt.Sprint("one of", e.errs) }

func (e errOneOf) matchError(gotError error) bool {
	for _, want := range e.errs {
		if matchErr(want, gotError) {
			return true
		}
	}
	return false
}
