package engine

import (
	"strings"

	"github.com/gitrdm/sipquery/pkg/bindings"
	"github.com/gitrdm/sipquery/pkg/term"
)

// row is one materialized tuple of a (predicate, adornment) signature's
// table: the ground values of its head's arguments, in Args order.
type row []term.Constant

func rowKey(r row) string {
	parts := make([]string, len(r))
	for i, c := range r {
		parts[i] = c.Value
	}
	return strings.Join(parts, "\x1f")
}

// headRow projects env onto head's argument list, producing the row to
// memoize once the body that derives head has been fully solved. It fails
// if any argument position is still unbound — a rule whose head carries a
// variable the body never binds is not safe, and safety is assumed to have
// been checked before the rule reached the engine.
func headRow(head term.Literal, env bindings.Env) (row, bool) {
	args := term.Args(head, true)
	r := make(row, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case term.Variable:
			c, ok := env.Lookup(v)
			if !ok {
				return nil, false
			}
			r[i] = c
		case term.Constant:
			r[i] = v
		case term.BlankNode:
			r[i] = term.Constant{Value: v.String()}
		default:
			return nil, false
		}
	}
	return r, true
}

// unifyRow matches goalArgs against a memoized row, binding goalArgs'
// variables to the row's values and requiring goalArgs' ground positions to
// already agree with them.
func unifyRow(goalArgs []term.Term, r row) (bindings.Env, bool) {
	if len(goalArgs) != len(r) {
		return bindings.Env{}, false
	}
	env := bindings.Empty()
	for i, a := range goalArgs {
		if v, ok := a.(term.Variable); ok {
			bound, err := env.Bind(v, r[i])
			if err != nil {
				return bindings.Env{}, false
			}
			env = bound
			continue
		}
		if a.String() != r[i].String() {
			return bindings.Env{}, false
		}
	}
	return env, true
}

var rdfType = term.Constant{Value: "rdf:type"}

// tripleParts extracts the natural (subject, predicate, object) shape
// underlying any body literal the engine can dispatch to a fact store: a
// GenericTriple already has this shape, a TypePredicate's implicit
// predicate position is the fixed rdf:type constant with its class in the
// object position, and an Existential delegates to its wrapped formula.
func tripleParts(lit term.Literal) (subject, predicate, object term.Term, ok bool) {
	switch v := lit.(type) {
	case *term.TypePredicate:
		return v.Subject, rdfType, v.Class, true
	case *term.GenericTriple:
		return v.Subject, v.Predicate, v.Object, true
	case *term.Existential:
		return tripleParts(v.Formula)
	default:
		return nil, nil, nil, false
	}
}

// groundOnly returns t if it is a ground term usable as a store pattern
// field, or nil (the store's wildcard) if it is a Variable.
func groundOnly(t term.Term) term.Term {
	if t == nil || term.IsVariable(t) {
		return nil
	}
	return t
}
