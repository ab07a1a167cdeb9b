package magic

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/gitrdm/sipquery/pkg/ruleset"
	"github.com/gitrdm/sipquery/pkg/sip"
	"github.com/gitrdm/sipquery/pkg/term"
)

// Build runs the worklist-based adornment propagation of §4.D: starting
// from goal's call pattern under bound, it visits every (predicate,
// adornment) signature reachable by following derived-predicate subgoals
// through each matching clause's SIP graph, returning one AdornedClause per
// (reachable signature, matching rule) pair.
//
// rules is expected to already be hybrid-rewritten (ReplaceHybridPredicates)
// by the caller; Build only needs to know which operators are IDB heads in
// the rewritten program, not which predicate was hybrid before rewriting.
// log receives a Trace line per signature the worklist visits and a Debug
// line summarizing the finished program; a nil log is treated as discard,
// so existing callers that don't care about planning visibility need not
// change.
func Build(rules ruleset.Ruleset, goal term.Literal, bound map[term.Term]bool, log hclog.Logger) (*AdornedProgram, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	idb := idbOps(rules)
	byHead := indexByHead(rules)

	goalSig := Signature{Op: term.Op(goal), Pattern: AdornLiteral(goal, bound)}

	prog := NewAdornedProgram()
	seen := map[Signature]bool{}
	worklist := []Signature{goalSig}

	// Planning failures are per-clause and independent of one another: a
	// malformed ordering for one rule shouldn't stop the driver from
	// reporting every other rule's planning failure in the same pass, the
	// way nomad aggregates independent per-node errors with multierror
	// rather than bailing out on the first one.
	var errs *multierror.Error

	for len(worklist) > 0 {
		sig := worklist[0]
		worklist = worklist[1:]
		if seen[sig] {
			continue
		}
		seen[sig] = true
		log.Trace("visiting signature", "signature", sig.String())

		for _, clause := range byHead[sig.Op] {
			ac, discovered, err := adornClause(clause, sig, idb)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			if ac == nil {
				continue
			}
			prog.add(sig, ac)
			for _, d := range discovered {
				if !seen[d] {
					worklist = append(worklist, d)
				}
			}
		}
	}
	if errs != nil {
		return nil, errs.ErrorOrNil()
	}
	log.Debug("planning complete", "signatures", len(prog.order))
	return prog, nil
}

func idbOps(rules ruleset.Ruleset) map[term.Term]bool {
	out := make(map[term.Term]bool)
	for _, c := range rules.Clauses() {
		out[term.Op(c.Head)] = true
	}
	return out
}

func indexByHead(rules ruleset.Ruleset) map[term.Term][]*ruleset.Clause {
	out := make(map[term.Term][]*ruleset.Clause)
	for _, c := range rules.Clauses() {
		op := term.Op(c.Head)
		out[op] = append(out[op], c)
	}
	return out
}

// adornClause specializes clause to sig, choosing the first SIP ordering of
// its body (§4.C's findFullSip, via pkg/sip) that also respects negation
// placement. It returns (nil, nil, nil) when sig's pattern shape doesn't
// match the clause's head arity at all (a clause for a differently-shaped
// overload of the same predicate symbol, which the rule language otherwise
// allows).
//
// Choosing the first valid ordering rather than searching all of them for a
// cheapest one is a deliberate simplification: there is no cost model for
// SIP selection here, and the search already only proposes orderings that
// are valid SIPs, so any one of them preserves correctness.
func adornClause(clause *ruleset.Clause, sig Signature, idb map[term.Term]bool) (*AdornedClause, []Signature, error) {
	headArgs := term.Args(clause.Head, true)
	if len(headArgs) != len(sig.Pattern) {
		return nil, nil, nil
	}

	bound := make(map[term.Term]bool, len(headArgs))
	var boundHeadVars []term.Term
	for i, a := range headArgs {
		if !term.IsVariable(a) || sig.Pattern[i] != 'b' {
			continue
		}
		if !bound[a] {
			boundHeadVars = append(boundHeadVars, a)
		}
		bound[a] = true
	}

	// The ordering search's carried-variable seed is every head argument
	// variable, not just the bound ones: a fully-free call pattern still
	// lets the first body literal complete an ordering on its own, since
	// there is nothing else to carry bindings from at that point. Only the
	// head arc's own bindings are restricted to the bound subset, below.
	var allHeadVars []term.Term
	seenHeadVar := make(map[term.Term]bool, len(headArgs))
	for _, v := range term.Variables(clause.Head, true) {
		if !seenHeadVar[v] {
			seenHeadVar[v] = true
			allHeadVars = append(allHeadVars, v)
		}
	}

	if len(clause.Body) == 0 {
		return &AdornedClause{Signature: sig, Source: clause, Graph: sip.New()}, nil, nil
	}

	order, err := chooseOrdering(clause, allHeadVars)
	if err != nil {
		return nil, nil, fmt.Errorf("magic: predicate %v: %w", sig.Op, err)
	}

	graph := sip.New()
	graph.SIPOrder = order
	var discovered []Signature

	if len(boundHeadVars) > 0 {
		headArc := term.HeadLiteral{Literal: clause.Head}
		if vars := sip.CollectArcVariables(headArc, order[0], boundHeadVars); len(vars) > 0 {
			if err := graph.AddArc(clause.Head, order[0], vars); err != nil {
				return nil, nil, fmt.Errorf("magic: %w", err)
			}
		}
	}

	callBound := make(map[term.Term]bool, len(bound))
	for k, v := range bound {
		callBound[k] = v
	}

	for i, lit := range order {
		if op := term.Op(lit); idb[op] {
			discovered = append(discovered, Signature{Op: op, Pattern: AdornLiteral(lit, callBound)})
		}
		if i > 0 {
			prefix := append([]term.Literal(nil), order[:i]...)
			vars := sip.CollectArcVariables(prefix, lit, boundHeadVars)
			if len(vars) > 0 {
				if err := graph.AddArc(prefix, lit, vars); err != nil {
					return nil, nil, fmt.Errorf("magic: %w", err)
				}
			}
		}
		for _, v := range term.Variables(lit, true) {
			callBound[v] = true
		}
	}

	// Arcs into a purely extensional predicate carry no planning-relevant
	// information once the program is adorned (§4.D step 4): only the
	// derived-predicate operators discovered above are worth the backward
	// fixpoint engine's attention.
	graph.PruneArcsNotInto(func(op term.Term) bool { return idb[op] })

	return &AdornedClause{Signature: sig, Source: clause, Graph: graph, Order: order}, discovered, nil
}

// chooseOrdering picks the first body ordering that is both a valid SIP
// (pkg/sip.OrderingSearch) and respects the clause's negation placement
// constraint (every variable of a negated literal must already be carried
// by headVars or an earlier body literal, §8 scenario 4).
func chooseOrdering(clause *ruleset.Clause, headVars []term.Term) ([]term.Literal, error) {
	search := sip.NewOrderingSearch(headVars, clause.Body)
	for {
		candidate, ok := search.Next()
		if !ok {
			return nil, ErrNoValidOrdering
		}
		if sip.ProperOrderWithNegation(candidate, headVars, clause.IsNegated) {
			return candidate, nil
		}
	}
}
