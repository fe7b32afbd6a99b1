package lexer

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"unicode"

	"github.com/smasher164/xid"
)

// Ext is the extension every source file must carry.
const Ext = ".story"

type Lexer struct {
	ch    rune
	pos   int
	i     int // position in buffer
	err   error
	buf   []rune
	rdr   *bufio.Reader
	file  io.Closer
	lines []int // offset at which each line starts
}

const eof = -1

func (l *Lexer) lexWS() Token {
	startPos := l.pos
	for unicode.IsSpace(l.ch) {
		l.next()
	}
	return Token{Type: Whitespace, Span: l.spanOf(startPos, l.pos-1), Data: l.bufString()}
}

func isLetter(ch rune) bool {
	return ch == '_' || xid.Start(ch)
}

func (l *Lexer) lexIdentOrKeyword() Token {
	startPos := l.pos
	l.next()
	for xid.Continue(l.ch) {
		l.next()
	}
	ident := l.bufString()
	if ttyp, ok := Keywords[ident]; ok {
		return Token{Type: ttyp, Span: l.spanOf(startPos, l.pos-1)}
	}
	return Token{Type: Ident, Span: l.spanOf(startPos, l.pos-1), Data: ident}
}

func isDecimal(ch rune) bool { return '0' <= ch && ch <= '9' }
func isHex(ch rune) bool {
	return '0' <= ch && ch <= '9' || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
func isValidDigit(base int, ch rune) bool {
	switch base {
	case 2, 8, 10:
		return ch >= '0' && ch < rune('0'+base)
	default:
		return isHex(ch)
	}
}

// lexDigits consumes digits and '_' separators, recording the first problem
// in err.
func (l *Lexer) lexDigits(err *Token, _allowed bool, base int) (digitCount int) {
	setErr := func(pos int, msg string) {
		if err.Type != Illegal {
			*err = Token{Type: Illegal, Span: l.spanOf(pos, pos), Data: msg}
		}
	}
	for {
		if l.ch == '_' {
			if _allowed {
				_allowed = false
			} else {
				setErr(l.pos, "'_' must separate successive digits")
			}
		} else if isHex(l.ch) && (base == 16 || isDecimal(l.ch)) {
			_allowed = true
			digitCount++
			if !isValidDigit(base, l.ch) {
				setErr(l.pos, fmt.Sprintf("%q is not a valid digit in base %d", l.ch, base))
			}
		} else {
			if !_allowed {
				setErr(l.pos-1, "'_' must separate successive digits")
			}
			return digitCount
		}
		l.next()
	}
}

func (l *Lexer) lexNumber() Token {
	var (
		startPos   = l.pos
		base       = 10
		digitCount = 0
		tok        Token
		_allowed   = false
	)
	if l.ch == '0' {
		l.next()
		digitCount++
		_allowed = true
		switch l.ch {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			l.next()
			digitCount = 0
		}
	}
	digitCount += l.lexDigits(&tok, _allowed, base)
	if tok.Type == Illegal {
		return tok
	}
	if digitCount == 0 {
		return Token{Type: Illegal, Span: l.spanOf(startPos, l.pos-1), Data: "no digits in number"}
	}
	if l.ch == '.' {
		for l.ch == '.' || isDecimal(l.ch) {
			l.next()
		}
		return Token{Type: Illegal, Span: l.spanOf(startPos, l.pos-1), Data: "numbers cannot have a decimal point"}
	}
	return Token{Type: Number, Span: l.spanOf(startPos, l.pos-1), Data: l.bufString()}
}

func (l *Lexer) lexLineComment() Token {
	startPos := l.pos
	l.until('\n')
	return Token{Type: SingleLineComment, Span: l.spanOf(startPos, l.pos-1), Data: l.bufString()}
}

// lexEscape consumes the escape sequence following a backslash and returns
// a message describing why it is invalid, or "".
func (l *Lexer) lexEscape() string {
	var n int
	var base, max uint32
	switch l.ch {
	case 'a', 'b', 'f', 'n', 'r', 't', 'v', '\\', '"':
		l.next()
		return ""
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n, base, max = 3, 8, 255
	case 'x':
		l.next()
		n, base, max = 2, 16, 255
	case 'u':
		l.next()
		n, base, max = 4, 16, unicode.MaxRune
	case 'U':
		l.next()
		n, base, max = 8, 16, unicode.MaxRune
	default:
		if l.ch == eof {
			return "escape sequence not terminated"
		}
		l.next()
		return "unknown escape sequence"
	}

	var x uint32
	for n > 0 {
		d, err := strconv.ParseUint(string(l.ch), int(base), 8)
		if err != nil {
			if l.ch == eof {
				return "escape sequence not terminated"
			}
			msg := fmt.Sprintf("illegal character %#U in escape sequence", l.ch)
			l.next()
			return msg
		}
		x = x*base + uint32(d)
		l.next()
		n--
	}

	if x > max || 0xD800 <= x && x < 0xE000 {
		return "escape sequence is invalid Unicode code point"
	}

	return ""
}

func (l *Lexer) lexString() Token {
	startPos := l.pos
	var bad Token
	l.next()
	for {
		switch l.ch {
		case eof, '\n':
			return Token{Type: Illegal, Span: l.spanOf(startPos, l.pos-1), Data: "unterminated string"}
		case '"':
			l.next()
			if bad.Type == Illegal {
				return bad
			}
			return Token{Type: String, Span: l.spanOf(startPos, l.pos-1), Data: l.bufString()}
		case '\\':
			l.next()
			begPos := l.pos
			if msg := l.lexEscape(); msg != "" && bad.Type != Illegal {
				bad = Token{Type: Illegal, Span: l.spanOf(begPos, l.pos-1), Data: msg}
			}
		default:
			l.next()
		}
	}
}

func (l *Lexer) next() {
	if l.ch == eof {
		return
	}
	l.i++
	l.pos++
	if l.i < len(l.buf) {
		l.ch = l.buf[l.i]
	} else {
		r, _, err := l.rdr.ReadRune()
		if err != nil {
			l.ch = eof
			if err != io.EOF {
				l.err = err
			}
			if cerr := l.Close(); cerr != nil && l.err == nil {
				l.err = cerr
			}
		} else {
			l.ch = r
		}
		l.buf = append(l.buf, l.ch)
	}
	if l.ch == '\n' && l.lines[len(l.lines)-1] <= l.pos {
		l.lines = append(l.lines, l.pos+1)
	}
}

// Close releases the source file. The lexer closes it on its own at EOF;
// Close is for callers that stop reading early. It is safe to call twice.
func (l *Lexer) Close() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil
	return f.Close()
}

func (l *Lexer) backup() {
	if l.i > 0 {
		l.i--
		l.pos--
		l.ch = l.buf[l.i]
	}
}

func (l *Lexer) peek() rune {
	if l.ch == eof {
		return eof
	}
	l.next()
	ch := l.ch
	l.backup()
	return ch
}

func (l *Lexer) until(r rune) {
	for l.ch != r && l.ch != eof {
		l.next()
	}
}

func (l *Lexer) bufString() string {
	return string(l.buf[:l.i])
}

func (l *Lexer) lineIndex(offset int) int {
	line, found := sort.Find(len(l.lines), func(i int) int {
		v := l.lines[i]
		if offset == v {
			return 0
		}
		if offset < v {
			return -1
		}
		return 1
	})
	if found {
		return line
	}
	return line - 1
}

func (l *Lexer) posOf(offset int) Pos {
	line := l.lineIndex(offset)
	return Pos{Offset: offset, Line: line + 1, Column: offset - l.lines[line] + 1}
}

func (l *Lexer) spanOf(off1, off2 int) Span {
	if off2 < off1 {
		off2 = off1
	}
	start := l.posOf(off1)
	var end Pos
	if off1 == off2 {
		end = start
	} else {
		end = l.posOf(off2)
	}
	return Span{Start: start, End: end}
}

func (l *Lexer) resetPos() {
	l.buf = l.buf[l.i:]
	l.i = 0
	l.ch = l.buf[l.i]
}

// NextToken returns the next token, including whitespace and comments.
func (l *Lexer) NextToken() Token {
	defer l.resetPos()
	startPos := l.pos
	switch {
	case unicode.IsSpace(l.ch):
		return l.lexWS()
	case isLetter(l.ch):
		return l.lexIdentOrKeyword()
	case isDecimal(l.ch):
		return l.lexNumber()
	case l.ch == '#':
		return l.lexLineComment()
	case l.ch == '"':
		return l.lexString()
	}
	if ttyp, ok := DoubleCharTokens[[2]rune{l.ch, l.peek()}]; ok {
		l.next()
		l.next()
		return Token{Type: ttyp, Span: l.spanOf(startPos, l.pos-1)}
	}
	if ttyp, ok := SingleCharTokens[l.ch]; ok {
		l.next()
		return Token{Type: ttyp, Span: l.spanOf(startPos, startPos)}
	}
	ch := l.ch
	l.next()
	return Token{Type: Illegal, Span: l.spanOf(startPos, startPos), Data: fmt.Sprintf("unexpected character %q", ch)}
}

// Next returns the next significant token, with the whitespace and comments
// before it attached as LeadingTrivia.
func (l *Lexer) Next() Token {
	var t Token
	var trivia []Token
	for t = l.NextToken(); t.Type == Whitespace || t.Type == SingleLineComment; t = l.NextToken() {
		trivia = append(trivia, t)
	}
	t.LeadingTrivia = trivia
	return t
}

// Err returns the first read error other than io.EOF.
func (l *Lexer) Err() error {
	return l.err
}

func NewLexer(fsys fs.FS, filename string) (*Lexer, error) {
	if filepath.Ext(filename) != Ext {
		return nil, fmt.Errorf("invalid file extension %q, expected %q", filepath.Ext(filename), Ext)
	}
	f, err := fsys.Open(filename)
	if err != nil {
		return nil, err
	}
	l := &Lexer{
		rdr:   bufio.NewReader(f),
		file:  f,
		i:     -1,
		pos:   -1,
		lines: []int{0},
	}
	l.next()
	return l, nil
}
