package diag

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Context is a range of text in a source code. It is typically used for
// errors that can be associated with a part of the source code, like compile
// errors and a traceback entry.
type Context struct {
	Name   string
	Source string
	Ranging
	// LineOffset is added to the line numbers computed from Source. It is
	// non-zero when Source is one logical statement cut out of a document.
	LineOffset int
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{Name: name, Source: source, Ranging: r.Range()}
}

// Position is a 1-based line and column pair.
type Position struct {
	Line, Col int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Variables controlling the style of the culprit.
var (
	culpritStart       = "\033[1;4m"
	culpritEnd         = "\033[m"
	culpritPlaceHolder = "^"
)

// Begin returns the position of the first character of the culprit.
func (c *Context) Begin() Position {
	idx := c.From
	if idx < 0 {
		idx = 0
	} else if idx > len(c.Source) {
		idx = len(c.Source)
	}
	before := c.Source[:idx]
	line := strings.Count(before, "\n") + 1 + c.LineOffset
	col := utf8.RuneCountInString(lastLine(before)) + 1
	return Position{line, col}
}

// Describe returns "name:line:col", or just the name when the position is
// unknown.
func (c *Context) Describe() string {
	if c.checkPosition() != nil {
		return c.Name
	}
	return c.Name + ":" + c.Begin().String()
}

// Show shows the Context, with the description on its own line followed by
// the relevant source excerpt.
func (c *Context) Show(sourceIndent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	return c.Describe() + ":\n" + sourceIndent + c.relevantSource(sourceIndent)
}

// ShowCompact shows the Context, with no line break between the description
// and the relevant source excerpt.
func (c *Context) ShowCompact(sourceIndent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	desc := c.Describe() + ": "
	// Extra indent so that following lines line up with the first line.
	descIndent := strings.Repeat(" ", utf8.RuneCountInString(desc))
	return desc + c.relevantSource(sourceIndent+descIndent)
}

func (c *Context) checkPosition() error {
	if c.From == -1 {
		return fmt.Errorf("%s, unknown position", c.Name)
	} else if c.From < 0 || c.To > len(c.Source) || c.From > c.To {
		return fmt.Errorf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	return nil
}

func (c *Context) relevantSource(sourceIndent string) string {
	before := c.Source[:c.From]
	culprit := c.Source[c.From:c.To]
	after := c.Source[c.To:]

	var sb strings.Builder
	sb.WriteString(lastLine(before))

	// If the culprit ends with a newline, strip it. Otherwise, the rest of the
	// line is shown after the culprit.
	tail := ""
	if strings.HasSuffix(culprit, "\n") {
		culprit = culprit[:len(culprit)-1]
	} else {
		tail = firstLine(after)
	}
	if culprit == "" {
		culprit = culpritPlaceHolder
	}
	for i, line := range strings.Split(culprit, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
			sb.WriteString(sourceIndent)
		}
		sb.WriteString(culpritStart + line + culpritEnd)
	}
	sb.WriteString(tail)
	return sb.String()
}

func firstLine(s string) string {
	i := strings.IndexByte(s, '\n')
	if i == -1 {
		return s
	}
	return s[:i]
}

func lastLine(s string) string {
	// When s does not contain '\n', LastIndexByte returns -1, which happens to
	// be what we want.
	return s[strings.LastIndexByte(s, '\n')+1:]
}
