package magic

import (
	"fmt"

	"github.com/gitrdm/sipquery/pkg/ruleset"
	"github.com/gitrdm/sipquery/pkg/sip"
	"github.com/gitrdm/sipquery/pkg/term"
)

// Signature identifies a predicate/adornment pair — the unit of work the
// worklist-based driver propagates over (§4.D), and the key the Backward
// Fixpoint Engine uses to look up which adorned clauses answer a goal.
type Signature struct {
	Op      term.Term
	Pattern Adornment
}

// String renders a signature as e.g. "sg^bf", for logging and tests.
func (s Signature) String() string {
	return fmt.Sprintf("%v^%s", s.Op, s.Pattern)
}

// AdornedClause is one original clause specialized to a call pattern on its
// head: its body carries the SIP-chosen order, and Graph records the arcs
// that ordering implies.
type AdornedClause struct {
	Signature Signature
	Source    *ruleset.Clause
	Graph     *sip.Graph
	Order     []term.Literal
}

// AdornedProgram is the driver's output: the reachable set of adorned
// clauses, grouped by the signature they answer, in first-discovered
// order — a plain map would iterate in an unspecified order, which would
// make Representation output (and test expectations) nondeterministic.
type AdornedProgram struct {
	order []Signature
	byKey map[Signature][]*AdornedClause
}

// NewAdornedProgram returns an empty program.
func NewAdornedProgram() *AdornedProgram {
	return &AdornedProgram{byKey: make(map[Signature][]*AdornedClause)}
}

func (p *AdornedProgram) add(sig Signature, ac *AdornedClause) {
	if _, ok := p.byKey[sig]; !ok {
		p.order = append(p.order, sig)
	}
	p.byKey[sig] = append(p.byKey[sig], ac)
}

// Signatures returns every reachable call-pattern signature, in discovery
// order.
func (p *AdornedProgram) Signatures() []Signature {
	return append([]Signature(nil), p.order...)
}

// Clauses returns the adorned clauses answering sig, in rule-set order.
func (p *AdornedProgram) Clauses(sig Signature) []*AdornedClause {
	return p.byKey[sig]
}
