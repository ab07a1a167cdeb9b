// Package ruleset defines the rule-set interface consumed by the driver and
// engine (§6): an iterable collection of clauses, each with a head and a
// body, deep-copyable so the driver can rewrite hybrid predicates without
// mutating the caller's program.
package ruleset

import "github.com/gitrdm/sipquery/pkg/term"

// Clause is a rule `head :- body`. Body is a conjunction of literals (a
// single-literal body is just a one-element slice). Naf records, by literal
// identity, which body literals are negated ("¬A"); a nil Naf means the
// clause has no negation.
type Clause struct {
	Head term.Literal
	Body []term.Literal
	Naf  map[term.Literal]bool
}

// IsNegated reports whether lit is a negated literal of this clause.
func (c *Clause) IsNegated(lit term.Literal) bool {
	return c.Naf != nil && c.Naf[lit]
}

// Clone deep-copies the clause so hybrid-predicate rewriting (§5: "the
// driver takes a deep copy before applying hybrid rewrites") never mutates
// the caller's rule set.
func (c *Clause) Clone() *Clause {
	out := &Clause{Head: cloneLiteral(c.Head)}
	out.Body = make([]term.Literal, len(c.Body))
	if c.Naf != nil {
		out.Naf = make(map[term.Literal]bool, len(c.Naf))
	}
	for i, lit := range c.Body {
		cloned := cloneLiteral(lit)
		out.Body[i] = cloned
		if c.IsNegated(lit) {
			out.Naf[cloned] = true
		}
	}
	return out
}

func cloneLiteral(lit term.Literal) term.Literal {
	switch v := lit.(type) {
	case *term.TypePredicate:
		cp := *v
		return &cp
	case *term.GenericTriple:
		cp := *v
		return &cp
	case *term.Builtin:
		cp := *v
		return &cp
	case *term.Existential:
		return &term.Existential{Formula: cloneLiteral(v.Formula)}
	case term.HeadLiteral:
		return term.HeadLiteral{Literal: cloneLiteral(v.Literal)}
	default:
		return lit
	}
}

// Ruleset is the consumed interface: an iterable collection of clauses.
type Ruleset interface {
	Clauses() []*Clause
}

// InMemory is the simplest Ruleset: a plain slice of clauses, used by tests
// and the CLI fixture loader.
type InMemory []*Clause

// Clauses implements Ruleset.
func (r InMemory) Clauses() []*Clause {
	return r
}

// Clone deep-copies every clause in the rule set.
func (r InMemory) Clone() InMemory {
	out := make(InMemory, len(r))
	for i, c := range r {
		out[i] = c.Clone()
	}
	return out
}
