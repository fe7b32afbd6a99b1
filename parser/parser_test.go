package parser_test

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/sanity-io/litter"
	"github.com/smasher164/story/ast"
	"github.com/smasher164/story/parser"
	"github.com/smasher164/story/types"
)

func lit(v ast.Primitive) ast.Expr { return &ast.Literal{Value: v} }

func ref(name string) ast.Expr { return &ast.Variable{Name: name} }

func app(fn, arg ast.Expr) ast.Expr { return &ast.App{Func: fn, Arg: arg} }

func bin(left ast.Expr, op ast.Operator, right ast.Expr) ast.Expr {
	return &ast.Binary{Left: left, Op: op, Right: right}
}

func source(name, src string) fstest.MapFS {
	return fstest.MapFS{name: &fstest.MapFile{Data: []byte(src)}}
}

func parse(t *testing.T, src string) *ast.Prog {
	t.Helper()
	prog, err := parser.ParseFile(source("test.story", src), "test.story")
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

func TestParseExpr(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ast.Expr
	}{
		{"precedence", "1 + 2 * 3", bin(lit(ast.Int(1)), ast.Add, bin(lit(ast.Int(2)), ast.Mul, lit(ast.Int(3))))},
		{"left assoc", "1 - 2 - 3", bin(bin(lit(ast.Int(1)), ast.Sub, lit(ast.Int(2))), ast.Sub, lit(ast.Int(3)))},
		{"parens", "(1 - 2) * 3", bin(bin(lit(ast.Int(1)), ast.Sub, lit(ast.Int(2))), ast.Mul, lit(ast.Int(3)))},
		{
			"operator ladder",
			"a || b && c == d ++ e",
			bin(ref("a"), ast.Or, bin(ref("b"), ast.And, bin(ref("c"), ast.Eq, bin(ref("d"), ast.Concat, ref("e"))))),
		},
		{
			"application",
			"f x y + g z",
			bin(app(app(ref("f"), ref("x")), ref("y")), ast.Add, app(ref("g"), ref("z"))),
		},
		{
			"lambda",
			`\x : Int -> x + 1`,
			&ast.Lambda{Param: "x", ParamType: types.Int, Body: bin(ref("x"), ast.Add, lit(ast.Int(1)))},
		},
		{
			"higher order lambda",
			`\f : (Int -> Bool) -> f 1`,
			&ast.Lambda{Param: "f", ParamType: types.Func(types.Bool, types.Int), Body: app(ref("f"), lit(ast.Int(1)))},
		},
		{
			"applied lambda",
			`(\x : Text -> x) "hi"`,
			app(&ast.Lambda{Param: "x", ParamType: types.Text, Body: ref("x")}, lit(ast.Text("hi"))),
		},
		{
			"let if",
			`let x = 3 in if x == 3 then "y" else "n"`,
			&ast.Let{
				Name:  "x",
				Bound: lit(ast.Int(3)),
				Body: &ast.If{
					Cond: bin(ref("x"), ast.Eq, lit(ast.Int(3))),
					Then: lit(ast.Text("y")),
					Else: lit(ast.Text("n")),
				},
			},
		},
		{"hex", "0x10", lit(ast.Int(16))},
		{"separators", "1_000", lit(ast.Int(1000))},
		{"leading zero", "010", lit(ast.Int(10))},
		{"escapes", `"a\nb\x41"`, lit(ast.Text("a\nbA"))},
		{"booleans", "true && false", bin(lit(ast.Bool(true)), ast.And, lit(ast.Bool(false)))},
		{"comment", "# leading\n42 # trailing", lit(ast.Int(42))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := parse(t, tt.src)
			if len(prog.Defs) != 0 {
				t.Fatalf("unexpected definitions: %s", litter.Sdump(prog.Defs))
			}
			if got, want := prog.Expr.ASTString(0), tt.want.ASTString(0); got != want {
				t.Errorf("got\n%s\nwant\n%s\n%s", got, want, litter.Sdump(prog.Expr))
			}
		})
	}
}

func TestParseDefs(t *testing.T) {
	src := `def inc : Int -> Int = \n : Int -> n + 1
def apply : (Int -> Int) -> Int -> Int = \f : (Int -> Int) -> \x : Int -> f x
def two : Int = inc 1
apply inc two # done
`
	want := &ast.Prog{
		Defs: []ast.Def{
			{
				Name: "inc",
				Type: types.Func(types.Int, types.Int),
				Expr: &ast.Lambda{Param: "n", ParamType: types.Int, Body: bin(ref("n"), ast.Add, lit(ast.Int(1)))},
			},
			{
				Name: "apply",
				Type: types.Func(types.Int, types.Func(types.Int, types.Int), types.Int),
				Expr: &ast.Lambda{
					Param:     "f",
					ParamType: types.Func(types.Int, types.Int),
					Body:      &ast.Lambda{Param: "x", ParamType: types.Int, Body: app(ref("f"), ref("x"))},
				},
			},
			{Name: "two", Type: types.Int, Expr: app(ref("inc"), lit(ast.Int(1)))},
		},
		Expr: app(app(ref("apply"), ref("inc")), ref("two")),
	}
	got := parse(t, src)
	if got.ASTString(0) != want.ASTString(0) {
		t.Errorf("got\n%s\nwant\n%s", got.ASTString(0), want.ASTString(0))
	}
}

func TestParseDefBoundaries(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want *ast.Prog
	}{
		{
			"one line def",
			"def one : Int = 1\none",
			&ast.Prog{
				Defs: []ast.Def{{Name: "one", Type: types.Int, Expr: lit(ast.Int(1))}},
				Expr: ref("one"),
			},
		},
		{
			"indented continuation",
			"def f : Int -> Int = \\x : Int ->\n  g\n    x\n  + 1\nf 2",
			&ast.Prog{
				Defs: []ast.Def{{
					Name: "f",
					Type: types.Func(types.Int, types.Int),
					Expr: &ast.Lambda{Param: "x", ParamType: types.Int, Body: bin(app(ref("g"), ref("x")), ast.Add, lit(ast.Int(1)))},
				}},
				Expr: app(ref("f"), lit(ast.Int(2))),
			},
		},
		{
			"parentheses span column 1",
			"def two : Int = (1\n+ 1)\ntwo",
			&ast.Prog{
				Defs: []ast.Def{{Name: "two", Type: types.Int, Expr: bin(lit(ast.Int(1)), ast.Add, lit(ast.Int(1)))}},
				Expr: ref("two"),
			},
		},
		{
			"final expression may wrap",
			"def one : Int = 1\nf\none",
			&ast.Prog{
				Defs: []ast.Def{{Name: "one", Type: types.Int, Expr: lit(ast.Int(1))}},
				Expr: app(ref("f"), ref("one")),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(t, tt.src)
			if got.ASTString(0) != tt.want.ASTString(0) {
				t.Errorf("got\n%s\nwant\n%s", got.ASTString(0), tt.want.ASTString(0))
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 +", "test.story:1:4: expected expression, found EOF"},
		{"def x Int = 1\nx", `test.story:1:7: expected Colon after definition name, found Ident "Int"`},
		{`\x : Foo -> x`, "test.story:1:6: unknown type Foo"},
		{`\x : -> x`, "test.story:1:6: expected type (one of Bool, Int, Text), found RightArrow"},
		{"(1", "test.story:1:3: expected RightParen after parenthesized expression, found EOF"},
		{"1 2 )", "test.story:1:5: expected EOF at end of program, found RightParen"},
		{"let x 1 in x", `test.story:1:7: expected Equals after let name, found Number "1"`},
		{"if true then 1", "test.story:1:15: expected Else after then branch, found EOF"},
		{"\n  @", "test.story:2:3: unexpected character '@'"},
		{"def one : Int = 1\n+ 1", "test.story:2:1: expected expression, found Plus"},
		{"99999999999999999999", "test.story:1:1: integer literal 99999999999999999999 out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := parser.ParseFile(source("test.story", tt.src), "test.story")
			var perr *parser.Error
			if !errors.As(err, &perr) {
				t.Fatalf("got %v, want a *parser.Error", err)
			}
			if got := perr.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFileExtension(t *testing.T) {
	if _, err := parser.ParseFile(source("test.gf", "1"), "test.gf"); err == nil {
		t.Error("expected an error")
	}
}

type closeCounter struct {
	fs.File
	closes *int
}

func (f closeCounter) Close() error {
	*f.closes++
	return f.File.Close()
}

type countingFS struct {
	fs.FS
	closes int
}

func (c *countingFS) Open(name string) (fs.File, error) {
	f, err := c.FS.Open(name)
	if err != nil {
		return nil, err
	}
	return closeCounter{f, &c.closes}, nil
}

func TestParseFileCloses(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"stops early", "1 )\n2 3 4 5 6 7 8 9"},
		{"reads to EOF", "def one : Int = 1\none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := &countingFS{FS: source("test.story", tt.src)}
			parser.ParseFile(fsys, "test.story")
			if fsys.closes != 1 {
				t.Errorf("file closed %d times, want 1", fsys.closes)
			}
		})
	}
}
