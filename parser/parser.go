// Package parser turns source files into programs.
//
//	prog     = { "def" ident ":" type "=" expr } expr EOF
//	type     = atomtype [ "->" type ]
//	atomtype = "Int" | "Bool" | "Text" | "(" type ")"
//	expr     = "\" ident ":" atomtype "->" expr
//	         | "let" ident "=" expr "in" expr
//	         | "if" expr "then" expr "else" expr
//	         | binary
//	binary   = app { binop app }
//	app      = atom { atom }
//	atom     = number | string | "true" | "false" | ident | "(" expr ")"
//
// A definition's body ends before the first token that starts a line in
// column 1, unless that token is inside parentheses. Continuation lines of a
// definition must otherwise be indented.
package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/smasher164/story/ast"
	"github.com/smasher164/story/lexer"
	"github.com/smasher164/story/types"
	"golang.org/x/exp/slices"
)

const debug = false

// Error is a syntax error at a position in a source file.
type Error struct {
	Filename string
	Pos      lexer.Pos
	Msg      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Pos.Line, e.Pos.Column, e.Msg)
}

type Lexer interface {
	Next() lexer.Token
	Err() error
}

type parser struct {
	filename string
	l        Lexer
	tok      lexer.Token
	indent   int
	inDef    bool
}

// bailout carries a syntax error up to ParseFile.
type bailout struct{ err *Error }

func (p *parser) trace(msg string) func() {
	if debug {
		fmt.Printf("%*s%s %s\n", p.indent*2, "", msg, p.tok)
		p.indent++
		return func() {
			p.indent--
		}
	}
	return func() {}
}

func (p *parser) errorf(pos lexer.Pos, format string, args ...any) {
	panic(bailout{&Error{Filename: p.filename, Pos: pos, Msg: fmt.Sprintf(format, args...)}})
}

func (p *parser) next() {
	p.tok = p.l.Next()
	if p.tok.Type == lexer.Illegal {
		p.errorf(p.tok.Span.Start, "%s", p.tok.Data)
	}
}

// endsDef reports whether the current token starts a line in column 1
// while a definition body is being parsed.
func (p *parser) endsDef() bool {
	return p.inDef && p.tok.Span.Start.Column == 1
}

func (p *parser) expect(ttyp lexer.TokenType, context string) lexer.Token {
	tok := p.tok
	if tok.Type != ttyp {
		p.errorf(tok.Span.Start, "expected %s %s, found %s", ttyp, context, describe(tok))
	}
	p.next()
	return tok
}

func describe(tok lexer.Token) string {
	if tok.Data != "" {
		return fmt.Sprintf("%s %q", tok.Type, tok.Data)
	}
	return tok.Type.String()
}

// ParseFile parses the program in filename. Syntax errors are reported as
// *Error values.
func ParseFile(fsys fs.FS, filename string) (*ast.Prog, error) {
	l, err := lexer.NewLexer(fsys, filename)
	if err != nil {
		return nil, err
	}
	defer l.Close()
	return Parse(l, filename)
}

func Parse(l Lexer, filename string) (prog *ast.Prog, err error) {
	p := &parser{filename: filename, l: l}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			prog, err = nil, errors.Join(b.err, l.Err())
		}
	}()
	p.next()
	prog = p.parseProg()
	if err := l.Err(); err != nil {
		return nil, err
	}
	if debug {
		ast.PrintAST(prog)
	}
	return prog, nil
}

func (p *parser) parseProg() *ast.Prog {
	defer p.trace("parseProg")()
	prog := &ast.Prog{}
	for p.tok.Type == lexer.Def {
		prog.Defs = append(prog.Defs, p.parseDef())
	}
	prog.Expr = p.parseExpr()
	p.expect(lexer.EOF, "at end of program")
	return prog
}

func (p *parser) parseDef() ast.Def {
	defer p.trace("parseDef")()
	p.next()
	name := p.expect(lexer.Ident, "after def")
	p.expect(lexer.Colon, "after definition name")
	typ := p.parseType()
	p.expect(lexer.Equals, "after definition type")
	p.inDef = true
	defer func() { p.inDef = false }()
	return ast.Def{Name: name.Data, Type: typ, Expr: p.parseExpr()}
}

func (p *parser) parseType() types.Type {
	defer p.trace("parseType")()
	arg := p.parseAtomType()
	if p.tok.Type == lexer.RightArrow {
		p.next()
		return types.Function{Arg: arg, Result: p.parseType()}
	}
	return arg
}

func (p *parser) parseAtomType() types.Type {
	defer p.trace("parseAtomType")()
	switch p.tok.Type {
	case lexer.Ident:
		if base, ok := types.BaseMap[p.tok.Data]; ok {
			p.next()
			return base
		}
		p.errorf(p.tok.Span.Start, "unknown type %s", p.tok.Data)
	case lexer.LeftParen:
		p.next()
		t := p.parseType()
		p.expect(lexer.RightParen, "after type")
		return t
	}
	names := lo.Keys(types.BaseMap)
	slices.Sort(names)
	p.errorf(p.tok.Span.Start, "expected type (one of %s), found %s", strings.Join(names, ", "), describe(p.tok))
	panic("unreachable")
}

func (p *parser) parseExpr() ast.Expr {
	defer p.trace("parseExpr")()
	switch p.tok.Type {
	case lexer.Backslash:
		return p.parseLambda()
	case lexer.Let:
		return p.parseLet()
	case lexer.If:
		return p.parseIf()
	}
	return p.parseBinaryExpr(lexer.MinPrec)
}

func (p *parser) parseLambda() ast.Expr {
	defer p.trace("parseLambda")()
	p.next()
	param := p.expect(lexer.Ident, "after \\")
	p.expect(lexer.Colon, "after lambda parameter")
	typ := p.parseAtomType()
	p.expect(lexer.RightArrow, "after lambda parameter type")
	return &ast.Lambda{Param: param.Data, ParamType: typ, Body: p.parseExpr()}
}

func (p *parser) parseLet() ast.Expr {
	defer p.trace("parseLet")()
	p.next()
	name := p.expect(lexer.Ident, "after let")
	p.expect(lexer.Equals, "after let name")
	bound := p.parseExpr()
	p.expect(lexer.In, "after let binding")
	return &ast.Let{Name: name.Data, Bound: bound, Body: p.parseExpr()}
}

func (p *parser) parseIf() ast.Expr {
	defer p.trace("parseIf")()
	p.next()
	cond := p.parseExpr()
	p.expect(lexer.Then, "after if condition")
	then := p.parseExpr()
	p.expect(lexer.Else, "after then branch")
	return &ast.If{Cond: cond, Then: then, Else: p.parseExpr()}
}

var binaryOps = map[lexer.TokenType]ast.Operator{
	lexer.Plus:          ast.Add,
	lexer.Minus:         ast.Sub,
	lexer.Times:         ast.Mul,
	lexer.LogicalEquals: ast.Eq,
	lexer.LogicalOr:     ast.Or,
	lexer.LogicalAnd:    ast.And,
	lexer.Concat:        ast.Concat,
}

// parseBinaryExpr climbs precedence. Every operator is left associative.
func (p *parser) parseBinaryExpr(minPrec int) ast.Expr {
	defer p.trace("parseBinaryExpr")()
	res := p.parseApp()
	for p.tok.IsBinaryOp() && p.tok.Prec() >= minPrec && !p.endsDef() {
		op := p.tok
		p.next()
		rhs := p.parseBinaryExpr(op.Prec() + 1)
		res = &ast.Binary{Left: res, Op: binaryOps[op.Type], Right: rhs}
	}
	return res
}

func (p *parser) parseApp() ast.Expr {
	defer p.trace("parseApp")()
	res := p.parseAtom()
	for p.tok.BeginsArgument() && !p.endsDef() {
		res = &ast.App{Func: res, Arg: p.parseAtom()}
	}
	return res
}

func (p *parser) parseAtom() ast.Expr {
	defer p.trace("parseAtom")()
	tok := p.tok
	switch tok.Type {
	case lexer.Number:
		p.next()
		return &ast.Literal{Value: p.parseInt(tok)}
	case lexer.String:
		s, err := strconv.Unquote(tok.Data)
		if err != nil {
			p.errorf(tok.Span.Start, "invalid string literal %s", tok.Data)
		}
		p.next()
		return &ast.Literal{Value: ast.Text(s)}
	case lexer.True, lexer.False:
		p.next()
		return &ast.Literal{Value: ast.Bool(tok.Type == lexer.True)}
	case lexer.Ident:
		p.next()
		return &ast.Variable{Name: tok.Data}
	case lexer.LeftParen:
		p.next()
		inDef := p.inDef
		p.inDef = false
		x := p.parseExpr()
		p.inDef = inDef
		p.expect(lexer.RightParen, "after parenthesized expression")
		return x
	}
	p.errorf(tok.Span.Start, "expected expression, found %s", describe(tok))
	panic("unreachable")
}

func (p *parser) parseInt(tok lexer.Token) ast.Int {
	s := tok.Data
	base := 10
	if len(s) > 1 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
		base = 0
	} else {
		s = strings.ReplaceAll(s, "_", "")
	}
	n, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		p.errorf(tok.Span.Start, "integer literal %s out of range", tok.Data)
	}
	return ast.Int(n)
}
