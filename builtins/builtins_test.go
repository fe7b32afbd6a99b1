package builtins_test

import (
	"testing"

	"github.com/kr/pretty"
	"github.com/smasher164/story/builtins"
	"github.com/smasher164/story/types"
)

func TestRegistryWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range builtins.All {
		if seen[def.Name] {
			t.Errorf("duplicate built-in %q", def.Name)
		}
		seen[def.Name] = true
		if def.Arity < 1 {
			t.Errorf("%s: arity %d", def.Name, def.Arity)
		}
		if got := len(def.Params()); got != def.Arity {
			t.Errorf("%s: type %s has %d parameters, arity is %d", def.Name, def.Type, got, def.Arity)
		}
		if _, ok := def.Result().(types.Function); ok {
			t.Errorf("%s: result %s should not be a function", def.Name, def.Result())
		}
	}
}

func TestLookup(t *testing.T) {
	def, ok := builtins.Lookup("greater_than")
	if !ok {
		t.Fatal("greater_than not registered")
	}
	if got, want := def.Type.String(), "Int -> Int -> Bool"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if diff := pretty.Diff(def.ParamNames(), []string{"param1", "param2"}); len(diff) > 0 {
		t.Errorf("param names: %v", diff)
	}
	if _, ok := builtins.Lookup("nope"); ok {
		t.Error("unexpected built-in nope")
	}
}
