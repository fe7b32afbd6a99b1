// Package eval is an environment-based evaluator. Lambdas close over the
// local environment they were created in, and application extends that
// environment with the argument.
package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/smasher164/story/ast"
	"github.com/smasher164/story/builtins"
)

var (
	ErrUnbound     = errors.New("unbound variable")
	ErrNotFunction = errors.New("not a function")
	ErrOperand     = errors.New("invalid operand")
	ErrBuiltin     = errors.New("invalid built-in call")
	ErrCondition   = errors.New("condition is not a boolean")
	ErrDepth       = errors.New("maximum evaluation depth exceeded")
)

type Option func(*Evaluator)

// WithTrace calls f with every node just before it is evaluated.
func WithTrace(f func(ast.Expr)) Option {
	return func(e *Evaluator) {
		e.trace = f
	}
}

// WithMaxDepth bounds how deeply evaluation may nest. Zero means unbounded.
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) {
		e.maxDepth = n
	}
}

// An Evaluator is not modified after New returns, so it may be shared
// between goroutines as long as the trace function is safe to share too.
type Evaluator struct {
	topLevel Env
	trace    func(ast.Expr)
	maxDepth int
}

// New installs the built-ins and evaluates defs in order. Each definition
// sees the built-ins and every definition before it.
func New(defs []ast.Def, opts ...Option) (*Evaluator, error) {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	if missing := unimplemented(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: no implementation for %s", ErrBuiltin, strings.Join(missing, ", "))
	}
	e.topLevel = lo.Reduce(builtins.All, func(env Env, def builtins.Definition, _ int) Env {
		return env.Extend(def.Name, curry(def))
	}, ast.NewEnv[Value]())
	for _, def := range defs {
		v, err := e.eval(ast.NewEnv[Value](), def.Expr, 0)
		if err != nil {
			return nil, fmt.Errorf("definition %q: %w", def.Name, err)
		}
		e.topLevel = e.topLevel.Extend(def.Name, v)
	}
	return e, nil
}

// curry turns a built-in into a chain of one-argument closures binding
// param1 through paramN around the built-in marker.
func curry(def builtins.Definition) *Closure {
	names := def.ParamNames()
	params := def.Params()
	var body ast.Expr = &ast.BuiltInFunction{Name: def.Name}
	for i := len(names) - 1; i > 0; i-- {
		body = &ast.Lambda{Param: names[i], ParamType: params[i], Body: body}
	}
	return &Closure{Env: ast.NewEnv[Value](), Param: names[0], Body: body}
}

// TopLevel returns the table of built-ins and evaluated definitions.
func (e *Evaluator) TopLevel() Env {
	return e.topLevel
}

// ClosureEvaluate evaluates prog's definitions and then its expression under
// the empty environment.
func ClosureEvaluate(prog *ast.Prog, opts ...Option) (Value, error) {
	e, err := New(prog.Defs, opts...)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ast.NewEnv[Value](), prog.Expr)
}

func (e *Evaluator) Evaluate(env Env, x ast.Expr) (Value, error) {
	return e.eval(env, x, 0)
}

// eval evaluates x at the given nesting depth.
func (e *Evaluator) eval(env Env, x ast.Expr, depth int) (Value, error) {
	if e.maxDepth > 0 && depth >= e.maxDepth {
		return nil, ErrDepth
	}
	depth++
	if e.trace != nil {
		e.trace(x)
	}
	switch x := x.(type) {
	case *ast.App:
		fn, err := e.eval(env, x.Func, depth)
		if err != nil {
			return nil, err
		}
		c, ok := fn.(*Closure)
		if !ok {
			return nil, fmt.Errorf("%s is %w", fn, ErrNotFunction)
		}
		arg, err := e.eval(env, x.Arg, depth)
		if err != nil {
			return nil, err
		}
		return e.eval(c.Env.Extend(c.Param, arg), c.Body, depth)
	case *ast.Binary:
		left, err := e.eval(env, x.Left, depth)
		if err != nil {
			return nil, err
		}
		right, err := e.eval(env, x.Right, depth)
		if err != nil {
			return nil, err
		}
		return binary(x.Op, left, right)
	case *ast.If:
		cond, err := e.eval(env, x.Cond, depth)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(Bool)
		if !ok {
			return nil, fmt.Errorf("%w: got %s", ErrCondition, kind(cond))
		}
		if b {
			return e.eval(env, x.Then, depth)
		}
		return e.eval(env, x.Else, depth)
	case *ast.Lambda:
		return &Closure{Env: env, Param: x.Param, Body: x.Body}, nil
	case *ast.Let:
		bound, err := e.eval(env, x.Bound, depth)
		if err != nil {
			return nil, err
		}
		return e.eval(env.Extend(x.Name, bound), x.Body, depth)
	case *ast.Literal:
		return fromPrimitive(x.Value), nil
	case *ast.Variable:
		if v, ok := env.Lookup(x.Name); ok {
			return v, nil
		}
		if v, ok := e.topLevel.Lookup(x.Name); ok {
			return v, nil
		}
		return nil, fmt.Errorf("%w %s", ErrUnbound, x.Name)
	case *ast.BuiltInFunction:
		return callBuiltin(env, x.Name)
	}
	panic(fmt.Sprintf("unreachable: %T", x))
}

func binary(op ast.Operator, left, right Value) (Value, error) {
	switch op {
	case ast.Add, ast.Sub, ast.Mul, ast.Eq:
		l, lok := left.(Int)
		r, rok := right.(Int)
		if !lok || !rok {
			return nil, operandError(op, "Int", left, right)
		}
		switch op {
		case ast.Add:
			return l + r, nil
		case ast.Sub:
			return l - r, nil
		case ast.Mul:
			return l * r, nil
		}
		return Bool(l == r), nil
	case ast.Or, ast.And:
		l, lok := left.(Bool)
		r, rok := right.(Bool)
		if !lok || !rok {
			return nil, operandError(op, "Bool", left, right)
		}
		if op == ast.Or {
			return l || r, nil
		}
		return l && r, nil
	case ast.Concat:
		l, lok := left.(Text)
		r, rok := right.(Text)
		if !lok || !rok {
			return nil, operandError(op, "Text", left, right)
		}
		return l + r, nil
	}
	panic(fmt.Sprintf("unreachable: operator %s", op))
}

func operandError(op ast.Operator, want string, left, right Value) error {
	return fmt.Errorf("%w: %s expects %s operands, got %s and %s", ErrOperand, op, want, kind(left), kind(right))
}
