package sip

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/gitrdm/sipquery/pkg/term"
)

// CollectArcVariables computes the bindings list X for an arc from left
// into right, per §4.B construction step 1: the intersection of the
// outgoing-argument variables of left with the argument variables of right,
// taking head-distinguished bound variables into account.
//
// left is either a single literal (its own argument variables are used,
// unless it is flagged as the clause head — see headVars) or a slice of
// literals (the union of their argument variables is used, with any member
// that is itself the head contributing headVars instead of its own args).
// headVars is the set of variables the adorned head binds; pass nil when
// left does not involve the head at all.
func CollectArcVariables(left any, right term.Literal, headVars []term.Term) []term.Term {
	rightVars := asSet(term.Variables(right, true))

	var leftVars []term.Term
	switch l := left.(type) {
	case term.Literal:
		if _, isHead := l.(term.HeadLiteral); isHead && headVars != nil {
			leftVars = headVars
		} else {
			leftVars = term.Variables(l, true)
		}
	case []term.Literal:
		for _, m := range l {
			var vs []term.Term
			if _, isHead := m.(term.HeadLiteral); isHead && headVars != nil {
				vs = headVars
			} else {
				vs = term.Variables(m, true)
			}
			leftVars = appendDedup(leftVars, vs...)
		}
	default:
		return nil
	}

	var out []term.Term
	seen := set.New[term.Term](0)
	for _, v := range leftVars {
		if rightVars.Contains(v) && !seen.Contains(v) {
			seen.Insert(v)
			out = append(out, v)
		}
	}
	return out
}

func asSet(ts []term.Term) *set.Set[term.Term] {
	return set.From(ts)
}

// appendDedup appends vs to dst, skipping any value already present in dst,
// preserving the first-seen order.
func appendDedup(dst []term.Term, vs ...term.Term) []term.Term {
	for _, v := range vs {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
