// Package query implements the conjunctive evaluation strategy (§4.F):
// sequencing a list of goal literals, dispatching each to either the fact
// store or the backward fixpoint engine, and threading bindings between
// them — the externally-exposed Strategy interface other packages and the
// CLI program against.
package query

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/gitrdm/sipquery/pkg/ruleset"
	"github.com/gitrdm/sipquery/pkg/term"
)

// IsBaseQuery reports whether goal's predicate is purely extensional under
// rules: never the head of any clause. A predicate that is both a rule
// head and a base predicate (hybrid) is not a base query — callers must
// route it through the Strategy so the magic/hybrid rewrite's _derived
// relation is what actually gets queried.
func IsBaseQuery(goal term.Literal, idbOps *set.Set[term.Term]) bool {
	return !idbOps.Contains(term.Op(goal))
}

// IDBOps collects the set of predicate operators that head at least one
// clause in rules.
func IDBOps(rules ruleset.Ruleset) *set.Set[term.Term] {
	out := set.New[term.Term](0)
	for _, c := range rules.Clauses() {
		out.Insert(term.Op(c.Head))
	}
	return out
}
