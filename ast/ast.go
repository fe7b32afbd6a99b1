package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smasher164/story/types"
)

type Expr interface {
	ASTString(depth int) string
	isExpr()
}

var (
	_ Expr = (*App)(nil)
	_ Expr = (*Lambda)(nil)
	_ Expr = (*Literal)(nil)
	_ Expr = (*Variable)(nil)
	_ Expr = (*Binary)(nil)
	_ Expr = (*If)(nil)
	_ Expr = (*Let)(nil)
	_ Expr = (*BuiltInFunction)(nil)
)

func indent(depth int) string {
	return fmt.Sprintf("%*s", depth*2, "")
}

type App struct {
	Func Expr
	Arg  Expr
}

func (*App) isExpr() {}

func (a *App) ASTString(depth int) string {
	return fmt.Sprintf(
		"App\n%sFunc: %s\n%sArg: %s",
		indent(depth+1), a.Func.ASTString(depth+1),
		indent(depth+1), a.Arg.ASTString(depth+1))
}

type Lambda struct {
	Param     string
	ParamType types.Type
	Body      Expr
}

func (*Lambda) isExpr() {}

func (l *Lambda) ASTString(depth int) string {
	return fmt.Sprintf(
		"Lambda\n%sParam: %s\n%sParamType: %s\n%sBody: %s",
		indent(depth+1), l.Param,
		indent(depth+1), l.ParamType,
		indent(depth+1), l.Body.ASTString(depth+1))
}

type Literal struct {
	Value Primitive
}

func (*Literal) isExpr() {}

func (l *Literal) ASTString(depth int) string {
	return fmt.Sprintf("Literal %s", l.Value)
}

type Variable struct {
	Name string
}

func (*Variable) isExpr() {}

func (v *Variable) ASTString(depth int) string {
	return fmt.Sprintf("Variable %s", v.Name)
}

type Binary struct {
	Left  Expr
	Op    Operator
	Right Expr
}

func (*Binary) isExpr() {}

func (b *Binary) ASTString(depth int) string {
	return fmt.Sprintf(
		"Binary\n%sLeft: %s\n%sOp: %s\n%sRight: %s",
		indent(depth+1), b.Left.ASTString(depth+1),
		indent(depth+1), b.Op,
		indent(depth+1), b.Right.ASTString(depth+1))
}

type If struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (*If) isExpr() {}

func (i *If) ASTString(depth int) string {
	return fmt.Sprintf(
		"If\n%sCond: %s\n%sThen: %s\n%sElse: %s",
		indent(depth+1), i.Cond.ASTString(depth+1),
		indent(depth+1), i.Then.ASTString(depth+1),
		indent(depth+1), i.Else.ASTString(depth+1))
}

type Let struct {
	Name  string
	Bound Expr
	Body  Expr
}

func (*Let) isExpr() {}

func (l *Let) ASTString(depth int) string {
	return fmt.Sprintf(
		"Let\n%sName: %s\n%sBound: %s\n%sBody: %s",
		indent(depth+1), l.Name,
		indent(depth+1), l.Bound.ASTString(depth+1),
		indent(depth+1), l.Body.ASTString(depth+1))
}

// BuiltInFunction marks the body of a curried built-in. The parser never
// produces it.
type BuiltInFunction struct {
	Name string
}

func (*BuiltInFunction) isExpr() {}

func (b *BuiltInFunction) ASTString(depth int) string {
	return fmt.Sprintf("BuiltInFunction %s", b.Name)
}

type Primitive interface {
	String() string
	isPrimitive()
}

var (
	_ Primitive = Int(0)
	_ Primitive = Bool(false)
	_ Primitive = Text("")
)

type Int int64

func (Int) isPrimitive()     {}
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

type Bool bool

func (Bool) isPrimitive()     {}
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

type Text string

func (Text) isPrimitive()     {}
func (t Text) String() string { return strconv.Quote(string(t)) }

type Operator int

const (
	Add Operator = iota
	Sub
	Mul
	Eq
	Or
	And
	Concat
)

func (op Operator) String() string {
	switch op {
	case Add:
		return "Add"
	case Sub:
		return "Sub"
	case Mul:
		return "Mul"
	case Eq:
		return "Eq"
	case Or:
		return "Or"
	case And:
		return "And"
	case Concat:
		return "Concat"
	}
	return "Operator(" + strconv.Itoa(int(op)) + ")"
}

type Def struct {
	Name string
	Expr Expr
	Type types.Type
}

func (d Def) ASTString(depth int) string {
	return fmt.Sprintf(
		"Def\n%sName: %s\n%sType: %s\n%sExpr: %s",
		indent(depth+1), d.Name,
		indent(depth+1), d.Type,
		indent(depth+1), d.Expr.ASTString(depth+1))
}

// Prog is a sequence of typed top-level definitions followed by the
// expression to evaluate.
type Prog struct {
	Defs []Def
	Expr Expr
}

func (p *Prog) ASTString(depth int) string {
	var sb strings.Builder
	sb.WriteString("Prog")
	for _, def := range p.Defs {
		fmt.Fprintf(&sb, "\n%s%s", indent(depth+1), def.ASTString(depth+1))
	}
	fmt.Fprintf(&sb, "\n%sExpr: %s", indent(depth+1), p.Expr.ASTString(depth+1))
	return sb.String()
}

// PrintAST writes the tree dump of p to standard output.
func PrintAST(p *Prog) {
	fmt.Println(p.ASTString(0))
}
