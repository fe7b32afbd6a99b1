// Package builtins declares the intrinsic functions every program can
// reference without defining them.
package builtins

import (
	"strconv"

	"github.com/samber/lo"
	"github.com/smasher164/story/types"
	"golang.org/x/exp/slices"
)

type Definition struct {
	Name  string
	Arity int
	Type  types.Type
}

// Params returns the declared types of the definition's Arity arguments.
func (d Definition) Params() []types.Type {
	params, _ := types.Uncurry(d.Type, d.Arity)
	return params
}

func (d Definition) Result() types.Type {
	_, result := types.Uncurry(d.Type, d.Arity)
	return result
}

// ParamNames returns the synthetic positional names param1..paramN that the
// evaluator binds a built-in's arguments to.
func (d Definition) ParamNames() []string {
	return lo.Map(lo.Range(d.Arity), func(i int, _ int) string {
		return ParamName(i + 1)
	})
}

func ParamName(position int) string {
	return "param" + strconv.Itoa(position)
}

var All = []Definition{
	{Name: "int_to_string", Arity: 1, Type: types.Func(types.Text, types.Int)},
	{Name: "greater_than", Arity: 2, Type: types.Func(types.Bool, types.Int, types.Int)},
}

func Lookup(name string) (Definition, bool) {
	i := slices.IndexFunc(All, func(d Definition) bool { return d.Name == name })
	if i < 0 {
		return Definition{}, false
	}
	return All[i], true
}
