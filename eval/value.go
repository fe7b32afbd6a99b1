package eval

import (
	"fmt"
	"strconv"

	"github.com/smasher164/story/ast"
)

// Value is the result of evaluating an expression.
type Value interface {
	String() string
	isValue()
}

var (
	_ Value = Int(0)
	_ Value = Bool(false)
	_ Value = Text("")
	_ Value = (*Closure)(nil)
)

type Env = ast.Env[Value]

type Int int64

func (Int) isValue()         {}
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

type Bool bool

func (Bool) isValue()         {}
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

type Text string

func (Text) isValue()         {}
func (t Text) String() string { return strconv.Quote(string(t)) }

// Closure is a function value. Env is the local environment captured where
// the lambda was evaluated.
type Closure struct {
	Env   Env
	Param string
	Body  ast.Expr
}

func (*Closure) isValue() {}

func (c *Closure) String() string {
	return fmt.Sprintf("<closure \\%s>", c.Param)
}

func fromPrimitive(p ast.Primitive) Value {
	switch p := p.(type) {
	case ast.Int:
		return Int(p)
	case ast.Bool:
		return Bool(p)
	case ast.Text:
		return Text(p)
	}
	panic(fmt.Sprintf("unreachable: %T", p))
}

// kind names the runtime tag of v for error messages.
func kind(v Value) string {
	switch v.(type) {
	case Int:
		return "Int"
	case Bool:
		return "Bool"
	case Text:
		return "Text"
	case *Closure:
		return "Closure"
	}
	panic(fmt.Sprintf("unreachable: %T", v))
}
