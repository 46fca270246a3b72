package compile

import (
	"strings"
	"unicode/utf8"

	"src.sigma.sh/pkg/diag"
	"src.sigma.sh/pkg/optable"
)

type tokenType uint8

const (
	tokEOF tokenType = iota
	tokNumber
	tokString
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokComma
	tokSemicolon
	tokNewline
)

type token struct {
	typ  tokenType
	text string
	// Decoded value of string literals.
	value string
	diag.Ranging
}

// posError is an error at a position of the source, turned into an *Error by
// the Compiler.
type posError struct {
	msg string
	diag.Ranging
	// More input may fix the error.
	partial bool
}

func (e *posError) Error() string { return e.msg }

type lexer struct {
	src     string
	pos     int
	symbols []string
	words   map[string]bool
	toks    []token
}

func newLexer(src string, table *optable.Table) *lexer {
	lx := &lexer{src: src, words: make(map[string]bool)}
	for _, s := range table.Symbols() {
		r, _ := utf8.DecodeRuneInString(s)
		if optable.IsIdentRune(r, true) {
			lx.words[s] = true
		} else {
			lx.symbols = append(lx.symbols, s)
		}
	}
	return lx
}

func (lx *lexer) errorf(from, to int, msg string) *posError {
	return &posError{msg: msg, Ranging: diag.Ranging{From: from, To: to}}
}

func (lx *lexer) emit(typ tokenType, from int) {
	lx.toks = append(lx.toks, token{typ: typ, text: lx.src[from:lx.pos],
		Ranging: diag.Ranging{From: from, To: lx.pos}})
}

func (lx *lexer) lex() ([]token, *posError) {
	for lx.pos < len(lx.src) {
		from := lx.pos
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		switch {
		case r == ' ' || r == '\t' || r == '\r':
			lx.pos += size
		case r == '\n':
			lx.pos += size
			lx.emit(tokNewline, from)
		case r == '"':
			if err := lx.lexString(); err != nil {
				return nil, err
			}
		case r >= '0' && r <= '9':
			lx.lexNumber()
		case r == '#':
			// '#' only starts a closure literal inside code; comments are
			// removed before lexing.
			lx.pos += size
			lx.emit(tokIdent, from)
		case r == '$':
			// Closure arguments: "$", "$1", "$2"... Names starting with '$'
			// followed by a letter are reserved for internal use.
			lx.pos += size
			if next, _ := utf8.DecodeRuneInString(lx.src[lx.pos:]); optable.IsIdentRune(next, true) {
				return nil, lx.errorf(from, lx.pos, "unexpected character '$'")
			}
			lx.skipDigits()
			lx.emit(tokIdent, from)
		case r == '∞':
			lx.pos += size
			lx.emit(tokIdent, from)
		case optable.IsIdentRune(r, true):
			for lx.pos < len(lx.src) {
				r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
				if !optable.IsIdentRune(r, false) {
					break
				}
				lx.pos += size
			}
			if lx.words[lx.src[from:lx.pos]] {
				lx.emit(tokOp, from)
			} else {
				lx.emit(tokIdent, from)
			}
		default:
			if typ, ok := punctuation[r]; ok {
				lx.pos += size
				lx.emit(typ, from)
				continue
			}
			matched := false
			for _, s := range lx.symbols {
				if strings.HasPrefix(lx.src[lx.pos:], s) {
					lx.pos += len(s)
					lx.emit(tokOp, from)
					matched = true
					break
				}
			}
			if !matched {
				return nil, lx.errorf(from, from+size, "unexpected character "+quoteRune(r))
			}
		}
	}
	lx.toks = append(lx.toks, token{typ: tokEOF, Ranging: diag.PointRanging(len(lx.src))})
	return lx.toks, nil
}

var punctuation = map[rune]tokenType{
	'(': tokLParen, ')': tokRParen,
	'[': tokLBracket, ']': tokRBracket,
	'{': tokLBrace, '}': tokRBrace,
	',': tokComma, ';': tokSemicolon,
}

func quoteRune(r rune) string { return "'" + string(r) + "'" }

func (lx *lexer) lexNumber() {
	from := lx.pos
	lx.skipDigits()
	if lx.peekByte(0) == '.' && isDigit(lx.peekByte(1)) {
		lx.pos++
		lx.skipDigits()
	}
	if c := lx.peekByte(0); c == 'e' || c == 'E' {
		// Only consume the exponent if it is well-formed; "2e" is 2*e.
		n := 1
		if s := lx.peekByte(1); s == '+' || s == '-' {
			n = 2
		}
		if isDigit(lx.peekByte(n)) {
			lx.pos += n
			lx.skipDigits()
		}
	}
	lx.emit(tokNumber, from)
}

func (lx *lexer) skipDigits() {
	for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
		lx.pos++
	}
}

func (lx *lexer) peekByte(offset int) byte {
	if lx.pos+offset < len(lx.src) {
		return lx.src[lx.pos+offset]
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

var escapes = map[byte]byte{'n': '\n', 'r': '\r', 't': '\t', '"': '"', '\\': '\\'}

func (lx *lexer) lexString() *posError {
	from := lx.pos
	lx.pos++
	var sb strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch c {
		case '"':
			lx.pos++
			lx.toks = append(lx.toks, token{typ: tokString, text: lx.src[from:lx.pos],
				value: sb.String(), Ranging: diag.Ranging{From: from, To: lx.pos}})
			return nil
		case '\\':
			if lx.pos+1 < len(lx.src) {
				if e, ok := escapes[lx.src[lx.pos+1]]; ok {
					sb.WriteByte(e)
					lx.pos += 2
					continue
				}
			}
		}
		sb.WriteByte(c)
		lx.pos++
	}
	err := lx.errorf(from, len(lx.src), "unterminated string literal")
	err.partial = true
	return err
}

// joinLines replaces newline tokens by statement separators where a
// statement can end, and drops them where the expression obviously
// continues.
func joinLines(toks []token, table *optable.Table) []token {
	out := make([]token, 0, len(toks))
	for i, tok := range toks {
		if tok.typ != tokNewline {
			out = append(out, tok)
			continue
		}
		if len(out) == 0 || !canEnd(out[len(out)-1], table) {
			continue
		}
		next := nextNonNewline(toks, i)
		if !canBegin(next, table) {
			continue
		}
		tok.typ = tokSemicolon
		out = append(out, tok)
	}
	return out
}

func nextNonNewline(toks []token, i int) token {
	for _, tok := range toks[i+1:] {
		if tok.typ != tokNewline {
			return tok
		}
	}
	return toks[len(toks)-1]
}

func canEnd(tok token, table *optable.Table) bool {
	switch tok.typ {
	case tokNumber, tokString, tokIdent, tokRParen, tokRBracket, tokRBrace:
		return true
	case tokOp:
		return hasAssoc(table, tok.text, optable.Postfix)
	}
	return false
}

func canBegin(tok token, table *optable.Table) bool {
	switch tok.typ {
	case tokNumber, tokString, tokIdent, tokLParen, tokLBracket, tokLBrace:
		return true
	case tokOp:
		return hasAssoc(table, tok.text, optable.Prefix)
	}
	return false
}

func hasAssoc(table *optable.Table, symbol string, assoc optable.Assoc) bool {
	for _, op := range table.Ambiguous(symbol) {
		if op.Assoc == assoc {
			return true
		}
	}
	return false
}
