package ast_test

import (
	"testing"

	"github.com/smasher164/story/ast"
	"github.com/smasher164/story/types"
)

func TestASTString(t *testing.T) {
	prog := &ast.Prog{
		Defs: []ast.Def{
			{Name: "x", Type: types.Int, Expr: &ast.Literal{Value: ast.Int(1)}},
		},
		Expr: &ast.Binary{
			Left:  &ast.Variable{Name: "x"},
			Op:    ast.Add,
			Right: &ast.Literal{Value: ast.Int(1)},
		},
	}
	want := `Prog
  Def
    Name: x
    Type: Int
    Expr: Literal 1
  Expr: Binary
    Left: Variable x
    Op: Add
    Right: Literal 1`
	if got := prog.ASTString(0); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestPrimitiveString(t *testing.T) {
	tests := []struct {
		p    ast.Primitive
		want string
	}{
		{ast.Int(-12), "-12"},
		{ast.Bool(false), "false"},
		{ast.Text("a\nb"), `"a\nb"`},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
	if got := ast.Operator(99).String(); got != "Operator(99)" {
		t.Errorf("got %q", got)
	}
}

func ExamplePrintAST() {
	ast.PrintAST(&ast.Prog{Expr: &ast.App{
		Func: &ast.Variable{Name: "int_to_string"},
		Arg:  &ast.Literal{Value: ast.Int(7)},
	}})
	// Output:
	// Prog
	//   Expr: App
	//     Func: Variable int_to_string
	//     Arg: Literal 7
}
