// Package sip builds and queries Sideways Information Passing graphs: the
// labeled graph recording, per rule, which variables flow from a source set
// of subgoals (or the adorned head) into a destination subgoal, plus the
// ordering search that proposes valid bodies for that graph to describe.
//
// Cyclic references between arcs and their source sets are the classic
// trap with a graph like this; rather than point nodes and arcs at each
// other directly we keep both in an arena (Graph.occNodes, Graph.arcs) and
// address everything by integer index or by the string OccurrenceID, the
// way Design Notes prescribe.
package sip

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"

	"github.com/gitrdm/sipquery/pkg/term"
)

// Arc is one SIP arc `N --X--> q`. Source is either a single
// BoundHeadPredicate occurrence or the ordered members of a source set; To
// is the destination subgoal occurrence; Vars is the ordered bindings list
// carried along the arc.
type Arc struct {
	Source       []OccurrenceID
	HeadSourced  bool
	To           OccurrenceID
	Vars         []term.Term
}

// occNode is an arena entry recording a subgoal occurrence's literal.
type occNode struct {
	id  OccurrenceID
	lit term.Literal
}

// Graph is a SIP graph for a single clause. It is built once by the
// Magic/Adornment Driver and discarded with the adorned program that owns
// it. The Backward Fixpoint Engine follows the adorned clause's Order and
// does not read the graph; the graph command renders it.
type Graph struct {
	occNodes []occNode
	byID     map[OccurrenceID]int
	arcs     []Arc

	// SIPOrder is the chosen body ordering that this graph describes.
	SIPOrder []term.Literal
}

// New creates an empty SIP graph.
func New() *Graph {
	return &Graph{byID: make(map[OccurrenceID]int)}
}

// ensureOccurrence registers lit's occurrence in the arena if it is not
// already present and returns its id.
func (g *Graph) ensureOccurrence(lit term.Literal) OccurrenceID {
	id := occurrenceID(lit)
	if _, ok := g.byID[id]; !ok {
		g.byID[id] = len(g.occNodes)
		g.occNodes = append(g.occNodes, occNode{id: id, lit: lit})
	}
	return id
}

// AddArc adds one SIP arc to the graph.
//
// left is either a single literal, always recorded as the head source of a
// HeadSourced arc, or an ordered slice of body-literal occurrences the arc
// originates from. right
// is the destination subgoal. vars is the already-computed bindings list
// (see CollectArcVariables) the arc carries; an empty vars list is rejected
// — every SIP arc must carry at least one variable (invariant 1 of §8).
func (g *Graph) AddArc(left any, right term.Literal, vars []term.Term) error {
	if len(vars) == 0 {
		return fmt.Errorf("sip: arc into %s carries no bindings", occurrenceID(right))
	}
	to := g.ensureOccurrence(right)

	switch l := left.(type) {
	case term.Literal:
		source := g.ensureOccurrence(l)
		g.arcs = append(g.arcs, Arc{
			Source:      []OccurrenceID{source},
			HeadSourced: true,
			To:          to,
			Vars:        append([]term.Term(nil), vars...),
		})
		return nil
	case []term.Literal:
		members := make([]OccurrenceID, 0, len(l))
		seen := set.New[OccurrenceID](len(l))
		for _, m := range l {
			id := g.ensureOccurrence(m)
			if seen.Contains(id) {
				continue
			}
			seen.Insert(id)
			members = append(members, id)
		}
		g.arcs = append(g.arcs, Arc{
			Source: members,
			To:     to,
			Vars:   append([]term.Term(nil), vars...),
		})
		return nil
	default:
		return fmt.Errorf("sip: AddArc left must be a term.Literal or []term.Literal, got %T", left)
	}
}

// IncomingArcs returns, for each arc ending at q, the pair of (source
// members, bindings). This is the graph's query API (§4.B).
func (g *Graph) IncomingArcs(q OccurrenceID) []Arc {
	var out []Arc
	for _, a := range g.arcs {
		if a.To == q {
			out = append(out, a)
		}
	}
	return out
}

// Valid reports whether the graph is non-empty and every arc carries at
// least one binding (invariant 2 of §8). AddArc already refuses to create an
// empty-binding arc, so this is mostly a structural sanity check over graphs
// assembled through other means (e.g. deserialization).
func (g *Graph) Valid() bool {
	if len(g.arcs) == 0 {
		return false
	}
	for _, a := range g.arcs {
		if len(a.Vars) == 0 {
			return false
		}
	}
	return true
}

// Arcs returns every arc in the graph, in insertion order.
func (g *Graph) Arcs() []Arc {
	return g.arcs
}

// Literal returns the literal recorded for occurrence id, if any.
func (g *Graph) Literal(id OccurrenceID) (term.Literal, bool) {
	idx, ok := g.byID[id]
	if !ok {
		return nil, false
	}
	return g.occNodes[idx].lit, true
}

// PruneArcsNotInto drops every arc whose destination operator is not a
// member of keep (a predicate symbol set, e.g. derived ∪ hybrid-replacement
// predicates). This is the "arcs into derived predicates only" shorthand of
// §4.D: arcs into purely extensional predicates carry no planning-relevant
// information once the program is adorned.
func (g *Graph) PruneArcsNotInto(keep func(op term.Term) bool) {
	kept := g.arcs[:0]
	for _, a := range g.arcs {
		lit, ok := g.Literal(a.To)
		if ok && keep(term.Op(lit)) {
			kept = append(kept, a)
		}
	}
	g.arcs = kept
}
