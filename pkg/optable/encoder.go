package optable

import (
	"strconv"
	"unicode"
)

// First code point of the Unicode private use area, from which operator
// encodings are issued.
const privateUseStart = 0xE000

// Encoder issues fresh code points and identifiers. The zero value is ready
// to use.
type Encoder struct {
	used    map[rune]bool
	next    rune
	counter int
}

// Next returns a code point that has not been issued or reserved before.
func (e *Encoder) Next() rune {
	if e.next < privateUseStart {
		e.next = privateUseStart
	}
	for e.used[e.next] {
		e.next++
	}
	r := e.next
	e.Reserve(r)
	return r
}

// Reserve marks r as used. It reports whether r was free.
func (e *Encoder) Reserve(r rune) bool {
	if e.used == nil {
		e.used = make(map[rune]bool)
	}
	if e.used[r] {
		return false
	}
	e.used[r] = true
	return true
}

// Fresh returns an identifier derived from base that cannot be written in
// source code and has not been returned before, like "$x_3".
func (e *Encoder) Fresh(base string) string {
	e.counter++
	return "$" + base + "_" + strconv.Itoa(e.counter)
}

// IsFresh reports whether name looks like an identifier returned by Fresh.
func IsFresh(name string) bool {
	return len(name) > 1 && name[0] == '$' && unicode.IsLetter([]rune(name[1:])[0])
}
