package magic

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"

	"github.com/gitrdm/sipquery/pkg/ruleset"
	"github.com/gitrdm/sipquery/pkg/term"
)

// DerivedSuffix is appended to a hybrid predicate's rule heads during
// ReplaceHybridPredicates, so that p(X,Y) keeps meaning "ask the store"
// while p_derived(X,Y) means "ask the rules", and a synthesized bridge rule
// subsumes the original extensional facts back into the derived relation
// (§8 scenario 3).
const DerivedSuffix = "_derived"

// IdentifyHybridPredicates returns the set of predicate operators that are
// both an IDB rule head in rules and a base (extensional) predicate per
// isBase — FuXi's notion of a hybrid predicate: one with both a defining
// rule and ground facts, which would otherwise double-count answers drawn
// from each source.
func IdentifyHybridPredicates(rules ruleset.Ruleset, isBase func(op term.Term) bool) *set.Set[term.Term] {
	hybrid := set.New[term.Term](0)
	for _, c := range rules.Clauses() {
		op := term.Op(c.Head)
		if isBase(op) {
			hybrid.Insert(op)
		}
	}
	return hybrid
}

// ReplaceHybridPredicates deep-copies rules (the driver never mutates the
// caller's program, §5) and rewrites every clause whose head predicate is
// hybrid to use the DerivedSuffix form, then appends one
// mechanically-synthesized bridge rule per hybrid predicate —
// `p_derived(X,Y) :- p(X,Y)` — so that planning against p_derived still
// sees the original extensional facts. It never rewrites clause bodies: a
// hybrid predicate referenced from another rule's body keeps meaning "ask
// the store", which is the entire reason the two relations stay distinct.
func ReplaceHybridPredicates(rules ruleset.InMemory, hybrid *set.Set[term.Term]) (ruleset.InMemory, error) {
	if hybrid.Empty() {
		return rules, nil
	}
	out := rules.Clone()

	for _, c := range out {
		op := term.Op(c.Head)
		if !hybrid.Contains(op) {
			continue
		}
		if err := term.SetOp(c.Head, derivedOp(op)); err != nil {
			return nil, fmt.Errorf("magic: rewriting hybrid head %v: %w", op, err)
		}
	}

	for _, op := range hybrid.Slice() {
		out = append(out, bridgeRule(op))
	}
	return out, nil
}

func derivedOp(op term.Term) term.Term {
	c, ok := op.(term.Constant)
	if !ok {
		return op
	}
	return term.Constant{Value: c.Value + DerivedSuffix}
}

// bridgeRule synthesizes `p_derived(X,Y) :- p(X,Y)`. Every hybrid predicate
// in a triple-based rule program takes this binary (subject, object) shape:
// a GenericTriple's arity is fixed by the data model, and a TypePredicate's
// "object" position is the class term fixed by op itself.
func bridgeRule(op term.Term) *ruleset.Clause {
	x := term.Variable{Name: "_BridgeS"}
	y := term.Variable{Name: "_BridgeO"}
	head := &term.GenericTriple{Subject: x, Predicate: derivedOp(op), Object: y}
	body := &term.GenericTriple{Subject: x, Predicate: op, Object: y}
	return &ruleset.Clause{Head: head, Body: []term.Literal{body}}
}
