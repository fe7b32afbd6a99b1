// Package check infers the types of programs.
//
// Mismatches between a declared or required type and an inferred one are
// recorded and checking continues. Unknown variables, application of
// non-functions and internal nodes abort the pass with an error.
package check

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/smasher164/story/ast"
	"github.com/smasher164/story/builtins"
	"github.com/smasher164/story/types"
)

var (
	ErrUnknownVariable = errors.New("unknown variable")
	ErrNotFunction     = errors.New("not a function")
	ErrInternalNode    = errors.New("internal node in checked tree")
)

type Context = ast.Env[types.Type]

type Checker struct {
	errs []string
}

func NewChecker() *Checker {
	return &Checker{}
}

// InferProg is shorthand for NewChecker().InferProg(prog).
func InferProg(prog *ast.Prog) (types.Type, []string, error) {
	return NewChecker().InferProg(prog)
}

// Errors returns the mismatches recorded so far.
func (c *Checker) Errors() []string {
	return c.errs
}

func (c *Checker) errorf(format string, args ...any) {
	c.errs = append(c.errs, fmt.Sprintf(format, args...))
}

// expect records a mismatch when actual differs from expected.
func (c *Checker) expect(site string, actual, expected types.Type) {
	if !types.Equal(actual, expected) {
		c.errorf("TYPE-ERROR: %s, expected %s but got %s", site, expected, actual)
	}
}

// Universe returns the context holding every built-in's type.
func Universe() Context {
	return lo.Reduce(builtins.All, func(ctx Context, def builtins.Definition, _ int) Context {
		return ctx.Extend(def.Name, def.Type)
	}, ast.NewEnv[types.Type]())
}

// InferProg checks every definition against its declared type and returns the
// type of the program's expression along with all recorded mismatches.
// Every definition's declared type is visible to every definition.
func (c *Checker) InferProg(prog *ast.Prog) (types.Type, []string, error) {
	ctx := lo.Reduce(prog.Defs, func(ctx Context, def ast.Def, _ int) Context {
		return ctx.Extend(def.Name, def.Type)
	}, Universe())
	for _, def := range prog.Defs {
		t, err := c.Infer(ctx, def.Expr)
		if err != nil {
			return nil, c.errs, fmt.Errorf("definition %q: %w", def.Name, err)
		}
		c.expect(fmt.Sprintf("when inferring the definition %q", def.Name), t, def.Type)
	}
	t, err := c.Infer(ctx, prog.Expr)
	if err != nil {
		return nil, c.errs, err
	}
	return t, c.errs, nil
}

func (c *Checker) Infer(ctx Context, x ast.Expr) (types.Type, error) {
	switch x := x.(type) {
	case *ast.App:
		tfn, err := c.Infer(ctx, x.Func)
		if err != nil {
			return nil, err
		}
		targ, err := c.Infer(ctx, x.Arg)
		if err != nil {
			return nil, err
		}
		fn, ok := tfn.(types.Function)
		if !ok {
			return nil, fmt.Errorf("%s is %w", tfn, ErrNotFunction)
		}
		c.expect("when applying a function", targ, fn.Arg)
		return fn.Result, nil
	case *ast.Binary:
		operand, result := signature(x.Op)
		tleft, err := c.Infer(ctx, x.Left)
		if err != nil {
			return nil, err
		}
		tright, err := c.Infer(ctx, x.Right)
		if err != nil {
			return nil, err
		}
		c.expect("as the left operand of "+x.Op.String(), tleft, operand)
		c.expect("as the right operand of "+x.Op.String(), tright, operand)
		return result, nil
	case *ast.If:
		tcond, err := c.Infer(ctx, x.Cond)
		if err != nil {
			return nil, err
		}
		c.expect("in an if condition", tcond, types.Bool)
		tthen, err := c.Infer(ctx, x.Then)
		if err != nil {
			return nil, err
		}
		telse, err := c.Infer(ctx, x.Else)
		if err != nil {
			return nil, err
		}
		c.expect("in if branches", telse, tthen)
		return tthen, nil
	case *ast.Lambda:
		tbody, err := c.Infer(ctx.Extend(x.Param, x.ParamType), x.Body)
		if err != nil {
			return nil, err
		}
		return types.Function{Arg: x.ParamType, Result: tbody}, nil
	case *ast.Let:
		// no recursion: the bound expression does not see its own name.
		tbound, err := c.Infer(ctx, x.Bound)
		if err != nil {
			return nil, err
		}
		return c.Infer(ctx.Extend(x.Name, tbound), x.Body)
	case *ast.Literal:
		switch x.Value.(type) {
		case ast.Int:
			return types.Int, nil
		case ast.Bool:
			return types.Bool, nil
		case ast.Text:
			return types.Text, nil
		}
		panic(fmt.Sprintf("unreachable: %T", x.Value))
	case *ast.Variable:
		t, ok := ctx.Lookup(x.Name)
		if !ok {
			return nil, fmt.Errorf("%w %s", ErrUnknownVariable, x.Name)
		}
		return t, nil
	case *ast.BuiltInFunction:
		return nil, fmt.Errorf("%w: built-in %s", ErrInternalNode, x.Name)
	}
	panic(fmt.Sprintf("unreachable: %T", x))
}

// signature returns the type both operands of op must have and the type of
// the result.
func signature(op ast.Operator) (operand, result types.Type) {
	switch op {
	case ast.Add, ast.Sub, ast.Mul:
		return types.Int, types.Int
	case ast.Eq:
		return types.Int, types.Bool
	case ast.Or, ast.And:
		return types.Bool, types.Bool
	case ast.Concat:
		return types.Text, types.Text
	}
	panic(fmt.Sprintf("unreachable: operator %s", op))
}
