package eval

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/smasher164/story/builtins"
	"github.com/smasher164/story/types"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type intrinsic func(args []Value) Value

// intrinsics holds the Go implementation of each registered built-in. The
// arguments have already been checked against the built-in's parameter types.
var intrinsics = map[string]intrinsic{
	"int_to_string": func(args []Value) Value {
		return Text(strconv.FormatInt(int64(args[0].(Int)), 10))
	},
	"greater_than": func(args []Value) Value {
		return Bool(args[0].(Int) > args[1].(Int))
	},
}

// Intrinsics returns the sorted names of the built-ins the evaluator can run.
func Intrinsics() []string {
	names := maps.Keys(intrinsics)
	slices.Sort(names)
	return names
}

// unimplemented returns the registered built-ins that have no intrinsic.
func unimplemented() []string {
	names := Intrinsics()
	return lo.FilterMap(builtins.All, func(def builtins.Definition, _ int) (string, bool) {
		_, ok := slices.BinarySearch(names, def.Name)
		return def.Name, !ok
	})
}

func hasType(v Value, t types.Type) bool {
	switch t {
	case types.Int:
		_, ok := v.(Int)
		return ok
	case types.Bool:
		_, ok := v.(Bool)
		return ok
	case types.Text:
		_, ok := v.(Text)
		return ok
	}
	_, ok := v.(*Closure)
	return ok
}

// callBuiltin reads a built-in's positional parameters from env and runs it.
func callBuiltin(env Env, name string) (Value, error) {
	def, ok := builtins.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown built-in %s", ErrBuiltin, name)
	}
	fn, ok := intrinsics[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no implementation", ErrBuiltin, name)
	}
	params := def.Params()
	args := make([]Value, def.Arity)
	for i, pname := range def.ParamNames() {
		v, ok := env.Lookup(pname)
		if !ok {
			return nil, fmt.Errorf("%w: %s is missing %s", ErrBuiltin, name, pname)
		}
		if !hasType(v, params[i]) {
			return nil, fmt.Errorf("%w: %s expects %s for %s but got %s", ErrBuiltin, name, params[i], pname, kind(v))
		}
		args[i] = v
	}
	return fn(args), nil
}
