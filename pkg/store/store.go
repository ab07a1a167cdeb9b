// Package store defines the fact store interface consumed by the engine
// (§6): triple-pattern matching and a SPARQL-style conjunctive query
// interface over ground (s, p, o) triples, plus namespace enumeration.
//
// Rule/fact parsing is explicitly out of scope (§1 Non-goals); callers build
// Triple and Pattern values directly rather than parsing a surface syntax.
package store

import (
	"context"

	"github.com/gitrdm/sipquery/pkg/bindings"
	"github.com/gitrdm/sipquery/pkg/term"
)

// Triple is a single ground fact.
type Triple struct {
	Subject   term.Constant
	Predicate term.Constant
	Object    term.Constant
}

// Pattern is a triple pattern: a nil field is an unbound wildcard, matching
// any value in that position, mirroring `triples((s?, p?, o?), context?)`.
type Pattern struct {
	Subject   term.Term
	Predicate term.Term
	Object    term.Term
}

// Namespace is a single prefix/IRI binding, as returned by Namespaces().
type Namespace struct {
	Prefix string
	IRI    string
}

// TripleIter is a lazy pull sequence of matching triples.
type TripleIter interface {
	Next(ctx context.Context) (Triple, bool, error)
}

// BindingIter is a lazy pull sequence of solution binding environments.
type BindingIter interface {
	Next(ctx context.Context) (bindings.Env, bool, error)
}

// Query is a conjunction of triple patterns evaluated together against the
// store, the store-level equivalent of the SPARQL-style `query(sparql,
// initNs)` entry point — the surface syntax itself is out of scope, so a
// Query is just the structured conjunction, already free of parsing
// concerns.
type Query struct {
	Patterns []Pattern
	Initial  bindings.Env
}

// FactStore is the fact-store interface consumed by the driver and engine.
// Implementations must be safe for read-only concurrent use within a single
// query; writes are not permitted concurrently with reads (§5).
type FactStore interface {
	// Triples returns every stored triple matching pattern.
	Triples(ctx context.Context, pattern Pattern) (TripleIter, error)

	// Query evaluates a conjunction of patterns and yields solution
	// bindings over their free variables.
	Query(ctx context.Context, q Query) (BindingIter, error)

	// Namespaces returns the store's known prefix/IRI bindings.
	Namespaces() []Namespace
}

// sliceTripleIter adapts a pre-materialized triple slice to TripleIter.
type sliceTripleIter struct {
	triples []Triple
	pos     int
}

// NewSliceTripleIter wraps triples as a TripleIter, for implementations that
// materialize results eagerly (acceptable here: the Herbrand base is finite,
// per §4.E's termination argument, so eager materialization behind a lazy
// interface changes performance, not correctness or externally-observed
// ordering).
func NewSliceTripleIter(triples []Triple) TripleIter {
	return &sliceTripleIter{triples: triples}
}

func (it *sliceTripleIter) Next(ctx context.Context) (Triple, bool, error) {
	if err := ctx.Err(); err != nil {
		return Triple{}, false, err
	}
	if it.pos >= len(it.triples) {
		return Triple{}, false, nil
	}
	t := it.triples[it.pos]
	it.pos++
	return t, true, nil
}

// sliceBindingIter adapts a pre-materialized binding slice to BindingIter.
type sliceBindingIter struct {
	envs []bindings.Env
	pos  int
}

// NewSliceBindingIter wraps envs as a BindingIter (see NewSliceTripleIter).
func NewSliceBindingIter(envs []bindings.Env) BindingIter {
	return &sliceBindingIter{envs: envs}
}

func (it *sliceBindingIter) Next(ctx context.Context) (bindings.Env, bool, error) {
	if err := ctx.Err(); err != nil {
		return bindings.Env{}, false, err
	}
	if it.pos >= len(it.envs) {
		return bindings.Env{}, false, nil
	}
	e := it.envs[it.pos]
	it.pos++
	return e, true, nil
}
