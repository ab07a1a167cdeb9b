package sip

import "github.com/gitrdm/sipquery/pkg/term"

// ProperOrderWithNegation reports whether order places every negated literal
// (as reported by naf) after every atom that contributes to its variable
// bindings — invariant 5 of §8. headVars seeds the carried-variable set
// before the first body literal is considered, matching the head's role as
// the implicit first source in the unfiltered ordering search.
func ProperOrderWithNegation(order Ordering, headVars []term.Term, naf func(term.Literal) bool) bool {
	carried := append([]term.Term(nil), headVars...)
	for _, lit := range order {
		vars := term.Variables(lit, true)
		if naf(lit) {
			for _, v := range vars {
				if !contains(carried, v) {
					return false
				}
			}
		}
		carried = appendDedup(carried, vars...)
	}
	return true
}

func contains(vs []term.Term, v term.Term) bool {
	for _, c := range vs {
		if c == v {
			return true
		}
	}
	return false
}

// FindProperOrdering drains search, returning the first ordering that
// satisfies ProperOrderWithNegation. It returns ok=false if the search is
// exhausted without finding one.
func FindProperOrdering(search *OrderingSearch, headVars []term.Term, naf func(term.Literal) bool) (Ordering, bool) {
	for {
		ord, ok := search.Next()
		if !ok {
			return nil, false
		}
		if ProperOrderWithNegation(ord, headVars, naf) {
			return ord, true
		}
	}
}
