package engine

import (
	"github.com/gitrdm/sipquery/pkg/bindings"
	"github.com/gitrdm/sipquery/pkg/term"
)

// substituteLiteral replaces every variable in lit already bound in env
// with its constant, building a fresh literal rather than mutating lit —
// the same caller-never-mutated discipline ruleset.Clause.Clone keeps for
// whole clauses.
func substituteLiteral(lit term.Literal, env bindings.Env) term.Literal {
	switch v := lit.(type) {
	case *term.TypePredicate:
		return &term.TypePredicate{Subject: substituteTerm(v.Subject, env), Class: substituteTerm(v.Class, env)}
	case *term.GenericTriple:
		return &term.GenericTriple{
			Subject:   substituteTerm(v.Subject, env),
			Predicate: substituteTerm(v.Predicate, env),
			Object:    substituteTerm(v.Object, env),
		}
	case *term.Builtin:
		return &term.Builtin{
			URI:      v.URI,
			Argument: substituteTerm(v.Argument, env),
			Result:   substituteTerm(v.Result, env),
		}
	case *term.Existential:
		return &term.Existential{Formula: substituteLiteral(v.Formula, env)}
	case term.HeadLiteral:
		return term.HeadLiteral{Literal: substituteLiteral(v.Literal, env)}
	default:
		return lit
	}
}

func substituteTerm(t term.Term, env bindings.Env) term.Term {
	v, ok := t.(term.Variable)
	if !ok {
		return t
	}
	if c, ok := env.Lookup(v); ok {
		return c
	}
	return t
}
