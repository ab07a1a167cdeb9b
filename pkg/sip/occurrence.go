package sip

import (
	"strings"

	"github.com/gitrdm/sipquery/pkg/term"
)

// OccurrenceID stably identifies a specific textual occurrence of a
// predicate within a single rule body: op(L) concatenated with its ordered
// arguments. It is injective over a single body and stable across rebuilds
// given identical input (invariant 3 of §8).
type OccurrenceID string

// occurrenceID computes the stable id for a literal occurrence.
func occurrenceID(lit term.Literal) OccurrenceID {
	var b strings.Builder
	b.WriteString(term.Op(lit).String())
	for _, a := range term.Args(lit, true) {
		b.WriteByte('_')
		b.WriteString(a.String())
	}
	return OccurrenceID(b.String())
}

// OccurrenceLookup maps an occurrence id to the operator of the literal it
// names. Design Notes explicitly call out the original's global mutable
// default-argument lookup map as a bug to fix: every function that needs
// this mapping takes one explicitly, and callers own its lifetime (one
// instance per clause being planned).
type OccurrenceLookup map[OccurrenceID]term.Term

// NewOccurrenceLookup creates an empty, explicitly-owned lookup table.
func NewOccurrenceLookup() OccurrenceLookup {
	return make(OccurrenceLookup)
}

// Record computes lit's occurrence id, stores its operator in lookup, and
// returns the id.
func (lookup OccurrenceLookup) Record(lit term.Literal) OccurrenceID {
	id := occurrenceID(lit)
	lookup[id] = term.Op(lit)
	return id
}
