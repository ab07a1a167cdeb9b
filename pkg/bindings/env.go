// Package bindings implements the binding environment: a mapping from
// variables to constants accumulated during top-down evaluation, with a
// merge rule that is commutative and associative and fails cleanly on
// disagreement rather than panicking.
package bindings

import (
	"errors"
	"fmt"

	"github.com/gitrdm/sipquery/pkg/term"
)

// ErrConflict is returned by Merge when two environments disagree on a
// shared variable. It corresponds to §7's MergeConflict: callers recover by
// discarding the candidate solution, never by propagating the error upward.
var ErrConflict = errors.New("bindings: merge conflict")

// Env is an immutable binding environment. The zero value is the empty
// environment.
type Env struct {
	m map[term.Variable]term.Constant
}

// Empty returns the empty binding environment.
func Empty() Env {
	return Env{}
}

// New builds an environment from a map of initial bindings.
func New(initial map[term.Variable]term.Constant) Env {
	if len(initial) == 0 {
		return Env{}
	}
	m := make(map[term.Variable]term.Constant, len(initial))
	for k, v := range initial {
		m[k] = v
	}
	return Env{m: m}
}

// Lookup returns the value bound to v, if any.
func (e Env) Lookup(v term.Variable) (term.Constant, bool) {
	c, ok := e.m[v]
	return c, ok
}

// Len reports the number of bound variables.
func (e Env) Len() int {
	return len(e.m)
}

// IsZero reports whether e is the empty environment. Env embeds a map, so
// it is not comparable with ==; use IsZero to test for emptiness. The zero
// value and an explicitly built empty environment both report true.
func (e Env) IsZero() bool {
	return len(e.m) == 0
}

// Bind returns a new environment extending e with v bound to c. It fails
// with ErrConflict if v is already bound to a different constant.
func (e Env) Bind(v term.Variable, c term.Constant) (Env, error) {
	if existing, ok := e.m[v]; ok && existing != c {
		return Env{}, fmt.Errorf("%w: %s already bound to %s, cannot rebind to %s", ErrConflict, v, existing, c)
	}
	out := make(map[term.Variable]term.Constant, len(e.m)+1)
	for k, val := range e.m {
		out[k] = val
	}
	out[v] = c
	return Env{m: out}, nil
}

// Merge combines a and b. It is defined iff a and b agree on the
// intersection of their keys; Merge is commutative and associative over
// non-conflicting environments (invariant 4 of §8).
func Merge(a, b Env) (Env, error) {
	out := make(map[term.Variable]term.Constant, len(a.m)+len(b.m))
	for k, v := range a.m {
		out[k] = v
	}
	for k, v := range b.m {
		if existing, ok := out[k]; ok && existing != v {
			return Env{}, fmt.Errorf("%w: %s bound to both %s and %s", ErrConflict, k, existing, v)
		}
		out[k] = v
	}
	return Env{m: out}, nil
}

// ToMap returns a defensive copy of the environment as a plain map, useful
// for yielding a solution binding at the outer API boundary.
func (e Env) ToMap() map[term.Variable]term.Constant {
	out := make(map[term.Variable]term.Constant, len(e.m))
	for k, v := range e.m {
		out[k] = v
	}
	return out
}
