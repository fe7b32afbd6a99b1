package ast

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/benbjohnson/immutable"
	"golang.org/x/exp/slices"
)

// Env is a persistent mapping from names to V. Extending an Env never
// changes it, so any number of holders may keep their own snapshot.
// The zero Env is empty and ready to use.
type Env[V any] struct {
	symbols *immutable.Map[string, V]
}

func NewEnv[V any]() Env[V] {
	return Env[V]{symbols: immutable.NewMap[string, V](immutable.NewHasher(""))}
}

func (e Env[V]) Extend(name string, v V) Env[V] {
	if e.symbols == nil {
		e = NewEnv[V]()
	}
	return Env[V]{symbols: e.symbols.Set(name, v)}
}

func (e Env[V]) Lookup(name string) (v V, ok bool) {
	if e.symbols == nil {
		return v, false
	}
	return e.symbols.Get(name)
}

func (e Env[V]) Len() int {
	if e.symbols == nil {
		return 0
	}
	return e.symbols.Len()
}

// Names returns the bound names in sorted order.
func (e Env[V]) Names() []string {
	if e.symbols == nil {
		return nil
	}
	names := make([]string, 0, e.symbols.Len())
	itr := e.symbols.Iterator()
	for !itr.Done() {
		name, _, _ := itr.Next()
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (e Env[V]) String() string {
	if e.Len() == 0 {
		return "(empty)\n"
	}
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 1, ' ', 0)
	for _, name := range e.Names() {
		v, _ := e.Lookup(name)
		fmt.Fprintf(w, "%s:\t%v\n", name, v)
	}
	w.Flush()
	return sb.String()
}
