// Package memstore implements store.FactStore on top of
// github.com/hashicorp/go-memdb, the in-memory indexed database used
// throughout hashicorp/nomad's state store. Triples are indexed on all
// three positions (s, p, o) so that a Pattern with any subset of bound
// fields can be served by a single schema-selected index rather than a
// full scan.
package memstore

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-memdb"

	"github.com/gitrdm/sipquery/pkg/bindings"
	"github.com/gitrdm/sipquery/pkg/store"
	"github.com/gitrdm/sipquery/pkg/term"
)

const tableTriples = "triples"

// row is the go-memdb table row; go-memdb indexes are built by struct-field
// reflection so the wire representation has to be exported scalar fields.
type row struct {
	Subject   string
	Predicate string
	Object    string
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableTriples: {
				Name: tableTriples,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:   "id",
						Unique: true,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.StringFieldIndex{Field: "Subject"},
								&memdb.StringFieldIndex{Field: "Predicate"},
								&memdb.StringFieldIndex{Field: "Object"},
							},
						},
					},
					"subject":   {Name: "subject", Indexer: &memdb.StringFieldIndex{Field: "Subject"}},
					"predicate": {Name: "predicate", Indexer: &memdb.StringFieldIndex{Field: "Predicate"}},
					"object":    {Name: "object", Indexer: &memdb.StringFieldIndex{Field: "Object"}},
				},
			},
		},
	}
}

// Store is an in-memory FactStore. The zero value is not usable; build one
// with New.
type Store struct {
	db  *memdb.MemDB
	ns  []store.Namespace
}

// New builds an empty Store, optionally pre-registering namespaces for
// Namespaces().
func New(namespaces ...store.Namespace) (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("memstore: building schema: %w", err)
	}
	return &Store{db: db, ns: namespaces}, nil
}

// Insert adds triples to the store. Safe to call before any concurrent
// readers start; go-memdb's MVCC txns make this safe thereafter too, but
// FactStore only promises read-safety (§5).
func (s *Store) Insert(triples ...store.Triple) error {
	txn := s.db.Txn(true)
	for _, t := range triples {
		r := row{Subject: t.Subject.Value, Predicate: t.Predicate.Value, Object: t.Object.Value}
		if err := txn.Insert(tableTriples, r); err != nil {
			txn.Abort()
			return fmt.Errorf("memstore: insert %v: %w", t, err)
		}
	}
	txn.Commit()
	return nil
}

// Namespaces implements store.FactStore.
func (s *Store) Namespaces() []store.Namespace {
	out := make([]store.Namespace, len(s.ns))
	copy(out, s.ns)
	return out
}

// Triples implements store.FactStore by selecting an index for the bound
// positions of pattern (see lookup) and filtering the rows it yields in
// memory, falling back to a full table scan when no position is bound.
func (s *Store) Triples(ctx context.Context, pattern store.Pattern) (store.TripleIter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	txn := s.db.Txn(false)
	it, err := s.lookup(txn, pattern)
	if err != nil {
		return nil, fmt.Errorf("memstore: Triples: %w", err)
	}

	var out []store.Triple
	for raw := it.Next(); raw != nil; raw = it.Next() {
		r := raw.(row)
		t := store.Triple{
			Subject:   term.Constant{Value: r.Subject},
			Predicate: term.Constant{Value: r.Predicate},
			Object:    term.Constant{Value: r.Object},
		}
		if matches(pattern, t) {
			out = append(out, t)
		}
	}
	return store.NewSliceTripleIter(out), nil
}

// lookup picks the compound "id" index when all of s, p and o are bound,
// and otherwise the single-field index of the first bound position in
// (s, p, o) order. The compound "id" index requires an exact s+p+o match;
// any other combination of bound fields falls back to that single-field
// index plus a post-filter in
// Triples, matching go-memdb's own "compound indexes must be matched whole"
// constraint.
func (s *Store) lookup(txn *memdb.Txn, pattern store.Pattern) (memdb.ResultIterator, error) {
	boundSubject, sOK := groundValue(pattern.Subject)
	boundPredicate, pOK := groundValue(pattern.Predicate)
	boundObject, oOK := groundValue(pattern.Object)

	switch {
	case sOK && pOK && oOK:
		return txn.Get(tableTriples, "id", boundSubject, boundPredicate, boundObject)
	case sOK:
		return txn.Get(tableTriples, "subject", boundSubject)
	case pOK:
		return txn.Get(tableTriples, "predicate", boundPredicate)
	case oOK:
		return txn.Get(tableTriples, "object", boundObject)
	default:
		return txn.Get(tableTriples, "id")
	}
}

// groundValue extracts a ground string value from a pattern field: nil is
// an unbound wildcard, a term.Constant is ground, anything else (a
// Variable appearing directly in a Pattern, which callers should not do)
// is treated as unbound.
func groundValue(t term.Term) (string, bool) {
	if t == nil {
		return "", false
	}
	c, ok := t.(term.Constant)
	if !ok {
		return "", false
	}
	return c.Value, true
}

func matches(pattern store.Pattern, t store.Triple) bool {
	if v, ok := groundValue(pattern.Subject); ok && v != t.Subject.Value {
		return false
	}
	if v, ok := groundValue(pattern.Predicate); ok && v != t.Predicate.Value {
		return false
	}
	if v, ok := groundValue(pattern.Object); ok && v != t.Object.Value {
		return false
	}
	return true
}

// Query implements store.FactStore by evaluating q.Patterns as a
// left-to-right nested-loop join, merging each pattern's bindings into the
// accumulated environment via bindings.Merge and discarding any branch that
// conflicts (bindings.ErrConflict).
func (s *Store) Query(ctx context.Context, q store.Query) (store.BindingIter, error) {
	envs := []bindings.Env{q.Initial}
	if q.Initial.IsZero() {
		envs = []bindings.Env{bindings.Empty()}
	}

	for _, p := range q.Patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var next []bindings.Env
		for _, env := range envs {
			bound := substitutePattern(p, env)
			it, err := s.Triples(ctx, bound)
			if err != nil {
				return nil, err
			}
			for {
				t, ok, err := it.Next(ctx)
				if err != nil {
					return nil, err
				}
				if !ok {
					break
				}
				candidate, ok := bindTriple(bound, t)
				if !ok {
					continue
				}
				merged, err := bindings.Merge(env, candidate)
				if err != nil {
					continue
				}
				next = append(next, merged)
			}
		}
		envs = next
	}
	return store.NewSliceBindingIter(envs), nil
}

// substitutePattern replaces any variable in pattern already bound in env
// with its constant, narrowing the index lookup in Triples.
func substitutePattern(p store.Pattern, env bindings.Env) store.Pattern {
	resolve := func(t term.Term) term.Term {
		v, ok := t.(term.Variable)
		if !ok {
			return t
		}
		if c, ok := env.Lookup(v); ok {
			return c
		}
		return t
	}
	return store.Pattern{
		Subject:   resolve(p.Subject),
		Predicate: resolve(p.Predicate),
		Object:    resolve(p.Object),
	}
}

// bindTriple derives the binding environment produced by unifying pattern's
// unbound variables against t.
func bindTriple(pattern store.Pattern, t store.Triple) (bindings.Env, bool) {
	env := bindings.Empty()
	var err error
	fields := []struct {
		pat term.Term
		val term.Constant
	}{
		{pattern.Subject, t.Subject},
		{pattern.Predicate, t.Predicate},
		{pattern.Object, t.Object},
	}
	for _, f := range fields {
		v, ok := f.pat.(term.Variable)
		if !ok {
			continue
		}
		env, err = env.Bind(v, f.val)
		if err != nil {
			return bindings.Env{}, false
		}
	}
	return env, true
}
