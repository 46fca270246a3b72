package diag

import (
	"fmt"
	"io"
)

// ShowError shows an error. It uses the Show method if the error
// implements Shower, and uses Complain to print the error message otherwise.
func ShowError(w io.Writer, err error) {
	if shower, ok := err.(Shower); ok {
		fmt.Fprintln(w, shower.Show(""))
	} else {
		Complain(w, err.Error())
	}
}

// Complain prints a message to w in bold and red, adding a trailing newline.
func Complain(w io.Writer, msg string) {
	fmt.Fprintln(w, Styled(msg))
}

// Styled returns msg wrapped in the style of error messages.
func Styled(msg string) string { return messageStart + msg + messageEnd }

// Complainf is like Complain, but accepts a format string and arguments.
func Complainf(w io.Writer, format string, args ...any) {
	Complain(w, fmt.Sprintf(format, args...))
}

// SetColor turns the ANSI styling of culprits and messages on or off. The
// shell calls it once at startup depending on whether stderr is a terminal.
func SetColor(on bool) {
	if on {
		culpritStart, culpritEnd = "\033[1;4m", "\033[m"
		messageStart, messageEnd = "\033[31;1m", "\033[m"
	} else {
		culpritStart, culpritEnd = "", ""
		messageStart, messageEnd = "", ""
	}
}
