package text

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/bbscript/internal/script"
)

// tokenKind is the type of a lexer token.
type tokenKind uint8

const (
	tokError tokenKind = iota
	tokEOF
	tokNewline
	tokColon
	tokComma
	tokLParen
	tokRParen
	tokIdent  // Mem, Val, BadTag, enum members, variable names
	tokInt    // 42, -5
	tokHex    // 0xAABB
	tokString // s16'...' or s32'...'
)

func (k tokenKind) String() string {
	switch k {
	case tokError:
		return "invalid token"
	case tokEOF:
		return "end of input"
	case tokNewline:
		return "end of line"
	case tokColon:
		return "':'"
	case tokComma:
		return "','"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokIdent:
		return "identifier"
	case tokInt:
		return "integer"
	case tokHex:
		return "hex blob"
	case tokString:
		return "string literal"
	default:
		return "unknown token"
	}
}

// token is one lexeme. For strings, text holds the unescaped content and
// width the field width named by the prefix.
type token struct {
	kind  tokenKind
	text  string
	width int
	pos   hcl.Pos
}

func (t token) describe() string {
	switch t.kind {
	case tokIdent, tokInt, tokHex:
		return fmt.Sprintf("%s %q", t.kind, t.text)
	default:
		return t.kind.String()
	}
}

// lexer scans the text form one token at a time. Instruction names may hold
// inner spaces, so the parser asks for them explicitly with name().
type lexer struct {
	src  []byte
	pos  hcl.Pos
	last tokenKind // kind of the last token returned
}

func newLexer(src []byte) *lexer {
	return &lexer{src: src, pos: hcl.InitialPos}
}

func (l *lexer) eof() bool { return l.pos.Byte >= len(l.src) }

func (l *lexer) peek() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.pos.Byte]
}

func (l *lexer) peekAt(n int) byte {
	if l.pos.Byte+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos.Byte+n]
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}
	if l.src[l.pos.Byte] == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
	l.pos.Byte++
}

// line returns the source text of line n for diagnostics.
func (l *lexer) line(n int) string {
	rest := l.src
	for i := 1; i < n; i++ {
		idx := bytes.IndexByte(rest, '\n')
		if idx < 0 {
			return ""
		}
		rest = rest[idx+1:]
	}
	if idx := bytes.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimRight(string(rest), "\r")
}

func (l *lexer) errorf(pos hcl.Pos, err error, format string, args ...any) *script.ParseError {
	return &script.ParseError{
		Pos:     pos,
		Line:    l.line(pos.Line),
		Summary: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// skipSpace skips blanks and comments, and newlines too when newlines is set.
// Block comments count as blank space even when they span lines.
func (l *lexer) skipSpace(newlines bool) error {
	for !l.eof() {
		switch c := l.peek(); {
		case c == ' ' || c == '\t' || c == '\r':
			l.advance()
		case c == '\n' && newlines:
			l.advance()
		case c == '/' && l.peekAt(1) == '/':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}
		case c == '/' && l.peekAt(1) == '*':
			start := l.pos
			l.advance()
			l.advance()
			for !(l.peek() == '*' && l.peekAt(1) == '/') {
				if l.eof() {
					return l.errorf(start, nil, "unterminated block comment")
				}
				l.advance()
			}
			l.advance()
			l.advance()
		default:
			return nil
		}
	}
	return nil
}

// name scans an instruction name at the start of an entry. Trailing spaces
// are not part of the name.
func (l *lexer) name() (string, hcl.Pos) {
	for l.peek() == ' ' || l.peek() == '\t' {
		l.advance()
	}
	start := l.pos
	for !l.eof() && script.IsFunctionNameByte(l.peek()) {
		l.advance()
	}
	l.last = tokIdent
	return strings.TrimRight(string(l.src[start.Byte:l.pos.Byte]), " "), start
}

// next returns the next token on the current line.
func (l *lexer) next() (token, error) {
	if err := l.skipSpace(false); err != nil {
		l.last = tokError
		return token{}, err
	}
	tok, err := l.scan()
	l.last = tok.kind
	return tok, err
}

func (l *lexer) scan() (token, error) {
	start := l.pos
	if l.eof() {
		return token{kind: tokEOF, pos: start}, nil
	}

	single := func(k tokenKind) (token, error) {
		l.advance()
		return token{kind: k, text: string(l.src[start.Byte:l.pos.Byte]), pos: start}, nil
	}
	switch c := l.peek(); {
	case c == '\n':
		return single(tokNewline)
	case c == ':':
		return single(tokColon)
	case c == ',':
		return single(tokComma)
	case c == '(':
		return single(tokLParen)
	case c == ')':
		return single(tokRParen)
	case c == '-' || isDigit(c):
		return l.number(start)
	case c == '_' || isLetter(c):
		for !l.eof() && script.IsSymbolByte(l.peek()) {
			l.advance()
		}
		word := string(l.src[start.Byte:l.pos.Byte])
		if l.peek() == '\'' {
			switch word {
			case "s16":
				return l.str(start, script.String16Width)
			case "s32":
				return l.str(start, script.String32Width)
			}
		}
		return token{kind: tokIdent, text: word, pos: start}, nil
	default:
		return token{}, l.errorf(start, nil, "unexpected character %q", c)
	}
}

// number scans a decimal integer or a 0x-prefixed hex blob.
func (l *lexer) number(start hcl.Pos) (token, error) {
	kind := tokInt
	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		kind = tokHex
		l.advance()
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
	} else {
		if l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	text := string(l.src[start.Byte:l.pos.Byte])
	if script.IsSymbolByte(l.peek()) || text == "-" {
		for !l.eof() && script.IsSymbolByte(l.peek()) {
			l.advance()
		}
		return token{}, l.errorf(start, nil, "malformed number %q", l.src[start.Byte:l.pos.Byte])
	}
	return token{kind: kind, text: text, pos: start}, nil
}

// str scans a quoted string body. Only \' and \\ are escapes.
func (l *lexer) str(start hcl.Pos, width int) (token, error) {
	l.advance() // opening quote
	var b strings.Builder
	for {
		if l.eof() || l.peek() == '\n' {
			return token{}, l.errorf(start, nil, "unterminated string literal")
		}
		c := l.peek()
		switch {
		case c == '\'':
			l.advance()
			return token{kind: tokString, text: b.String(), width: width, pos: start}, nil
		case c == '\\':
			at := l.pos
			l.advance()
			e := l.peek()
			if e != '\'' && e != '\\' {
				return token{}, l.errorf(at, nil, "unknown escape sequence in string literal")
			}
			b.WriteByte(e)
			l.advance()
		case c < 0x20 || c > 0x7E:
			return token{}, l.errorf(l.pos, nil, "string literals hold printable ASCII only, found %q", c)
		default:
			b.WriteByte(c)
			l.advance()
		}
	}
}

// syncLine skips the rest of the current line after an error.
func (l *lexer) syncLine() {
	if l.last == tokNewline || l.last == tokEOF {
		return
	}
	for !l.eof() {
		c := l.peek()
		l.advance()
		if c == '\n' {
			break
		}
	}
	l.last = tokNewline
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isHexDigit(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
