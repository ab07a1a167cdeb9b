package sip

import "github.com/gitrdm/sipquery/pkg/term"

// Ordering is one candidate body ordering produced by the search.
type Ordering []term.Literal

// frame is one level of the ordering search's explicit backtracking stack:
// the prefix chosen so far, the variables it carries, the literals still to
// place, and which of those candidates this frame has already tried. Using
// an explicit stack instead of a language-level generator/goroutine is what
// lets findFullSip act as a genuine pull iterator with suspension points
// between two yielded orderings (§5): advancing is just popping and
// resuming a frame, no blocked goroutine to keep alive.
type frame struct {
	prefix    []term.Literal
	carried   []term.Term
	remaining []term.Literal
	tried     int // index into remaining already attempted as next candidate
}

// OrderingSearch enumerates valid body orderings satisfying SIP constraints
// (§4.C, `findFullSip`). Call Next repeatedly to pull successive orderings;
// Next returns ok=false once the search is exhausted.
type OrderingSearch struct {
	stack []frame
}

// NewOrderingSearch starts a search over body, with carriedVars initialized
// to the argument variables of the head (or the union over a multi-literal
// head prefix).
func NewOrderingSearch(headVars []term.Term, body []term.Literal) *OrderingSearch {
	return &OrderingSearch{
		stack: []frame{{
			prefix:    nil,
			carried:   append([]term.Term(nil), headVars...),
			remaining: body,
		}},
	}
}

// Next advances the search and returns the next full ordering. ok is false
// once no further orderings remain.
func (s *OrderingSearch) Next() (Ordering, bool) {
	for len(s.stack) > 0 {
		top := &s.stack[len(s.stack)-1]

		if len(top.remaining) == 1 {
			// Base case: exactly one literal left. It completes the order
			// iff it shares a variable with what's already carried.
			s.stack = s.stack[:len(s.stack)-1]
			if intersects(term.Variables(top.remaining[0], true), top.carried) {
				return append(append(Ordering(nil), top.prefix...), top.remaining[0]), true
			}
			continue
		}

		if top.tried >= len(top.remaining) {
			// Exhausted every candidate at this level; backtrack.
			s.stack = s.stack[:len(s.stack)-1]
			continue
		}

		candidate := top.remaining[top.tried]
		top.tried++

		candVars := term.Variables(candidate, true)
		if !intersects(candVars, top.carried) {
			continue // no incoming arc from the prefix; not a valid next step
		}

		skipIdx := top.tried - 1
		nextRemaining := make([]term.Literal, 0, len(top.remaining)-1)
		for i, lit := range top.remaining {
			if i == skipIdx {
				continue
			}
			nextRemaining = append(nextRemaining, lit)
		}

		nextCarried := appendDedup(append([]term.Term(nil), top.carried...), candVars...)
		nextPrefix := append(append([]term.Literal(nil), top.prefix...), candidate)

		s.stack = append(s.stack, frame{
			prefix:    nextPrefix,
			carried:   nextCarried,
			remaining: nextRemaining,
		})
	}
	return nil, false
}

func intersects(a, b []term.Term) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[term.Term]bool, len(b))
	for _, v := range b {
		set[v] = true
	}
	for _, v := range a {
		if set[v] {
			return true
		}
	}
	return false
}
