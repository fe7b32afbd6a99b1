package types

import "fmt"

type Type interface {
	Equal(Type) bool
	String() string
	isType()
}

var (
	_ Type = Base(0)
	_ Type = Function{}
)

type Base int

const (
	Int Base = iota
	Bool
	Text
)

func (Base) isType() {}

// Equal implements Type
func (b Base) Equal(other Type) bool {
	o, ok := other.(Base)
	return ok && o == b
}

func (b Base) String() string {
	switch b {
	case Int:
		return "Int"
	case Bool:
		return "Bool"
	case Text:
		return "Text"
	default:
		panic(fmt.Sprintf("unreachable: base type %d", int(b)))
	}
}

var BaseMap = map[string]Base{
	"Int":  Int,
	"Bool": Bool,
	"Text": Text,
}

type Function struct {
	Arg    Type
	Result Type
}

func (Function) isType() {}

// Equal implements Type
func (f Function) Equal(other Type) bool {
	o, ok := other.(Function)
	if !ok {
		return false
	}
	return Equal(f.Arg, o.Arg) && Equal(f.Result, o.Result)
}

// String prints the arrow right-associatively. Only a function on the
// argument side needs parentheses.
func (f Function) String() string {
	arg := f.Arg.String()
	if _, ok := f.Arg.(Function); ok {
		arg = "(" + arg + ")"
	}
	return arg + " -> " + f.Result.String()
}

// Func builds the curried type params[0] -> params[1] -> ... -> result.
func Func(result Type, params ...Type) Type {
	for i := len(params) - 1; i >= 0; i-- {
		result = Function{Arg: params[i], Result: result}
	}
	return result
}

// Uncurry splits t into its parameter types and final result, taking at most
// n arrows. A negative n takes every arrow.
func Uncurry(t Type, n int) (params []Type, result Type) {
	for n != 0 {
		f, ok := t.(Function)
		if !ok {
			break
		}
		params = append(params, f.Arg)
		t = f.Result
		n--
	}
	return params, t
}

func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}
