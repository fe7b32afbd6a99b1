package lexer

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type TokenType int

const (
	EOF TokenType = iota
	Plus
	Minus
	Times
	Equals
	Colon
	Backslash
	LeftParen
	RightParen

	LogicalAnd
	LogicalOr
	LogicalEquals
	Concat
	RightArrow

	Def
	Let
	In
	If
	Then
	Else
	True
	False

	Ident
	Number
	String
	Whitespace
	SingleLineComment
	Illegal
)

var tokenNames = [...]string{
	EOF:               "EOF",
	Plus:              "Plus",
	Minus:             "Minus",
	Times:             "Times",
	Equals:            "Equals",
	Colon:             "Colon",
	Backslash:         "Backslash",
	LeftParen:         "LeftParen",
	RightParen:        "RightParen",
	LogicalAnd:        "LogicalAnd",
	LogicalOr:         "LogicalOr",
	LogicalEquals:     "LogicalEquals",
	Concat:            "Concat",
	RightArrow:        "RightArrow",
	Def:               "Def",
	Let:               "Let",
	In:                "In",
	If:                "If",
	Then:              "Then",
	Else:              "Else",
	True:              "True",
	False:             "False",
	Ident:             "Ident",
	Number:            "Number",
	String:            "String",
	Whitespace:        "Whitespace",
	SingleLineComment: "SingleLineComment",
	Illegal:           "Illegal",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var SingleCharTokens = map[rune]TokenType{
	'+':  Plus,
	'-':  Minus,
	'*':  Times,
	'=':  Equals,
	':':  Colon,
	'\\': Backslash,
	'(':  LeftParen,
	')':  RightParen,
	eof:  EOF,
}

var DoubleCharTokens = map[[2]rune]TokenType{
	{'-', '>'}: RightArrow,
	{'&', '&'}: LogicalAnd,
	{'|', '|'}: LogicalOr,
	{'=', '='}: LogicalEquals,
	{'+', '+'}: Concat,
}

var Keywords = map[string]TokenType{
	"def":   Def,
	"let":   Let,
	"in":    In,
	"if":    If,
	"then":  Then,
	"else":  Else,
	"true":  True,
	"false": False,
}

type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	if s.Start == s.End {
		return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
	}
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%d:%d-%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

type Token struct {
	LeadingTrivia []Token
	Type          TokenType
	Span          Span
	Data          string
}

func (t Token) String() string {
	if t.Data == "" {
		return fmt.Sprintf("%s:%s", t.Span, t.Type)
	}
	return fmt.Sprintf("%s:%s %q", t.Span, t.Type, t.Data)
}

func (a Token) Eq(b Token) bool {
	return a.Type == b.Type && a.Data == b.Data
}

func (a Token) ExactEq(b Token) bool {
	return a.Type == b.Type && a.Span == b.Span && a.Data == b.Data && slices.EqualFunc(a.LeadingTrivia, b.LeadingTrivia, Token.ExactEq)
}

func (t Token) IsBinaryOp() bool {
	return t.Prec() >= MinPrec
}

const MinPrec = 1

// Prec returns the binding strength of a binary operator, or 0 if t is not
// one. Every binary operator is left associative.
func (t Token) Prec() int {
	switch t.Type {
	case Times:
		return 6
	case Plus, Minus:
		return 5
	case Concat:
		return 4
	case LogicalEquals:
		return 3
	case LogicalAnd:
		return 2
	case LogicalOr:
		return 1
	}
	return 0
}

// BeginsArgument reports whether t can start an operand of an application.
func (t Token) BeginsArgument() bool {
	switch t.Type {
	case LeftParen, Ident, Number, String, True, False:
		return true
	}
	return false
}
