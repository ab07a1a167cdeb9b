package query

import (
	"context"
	"testing"

	"github.com/hashicorp/go-set/v3"

	"github.com/gitrdm/sipquery/pkg/bindings"
	"github.com/gitrdm/sipquery/pkg/ruleset"
	"github.com/gitrdm/sipquery/pkg/store"
	"github.com/gitrdm/sipquery/pkg/store/memstore"
	"github.com/gitrdm/sipquery/pkg/term"
)

func vr(name string) term.Term  { return term.Variable{Name: name} }
func cst(name string) term.Term { return term.Constant{Value: name} }

func tp(s, p, o term.Term) term.Literal {
	return &term.GenericTriple{Subject: s, Predicate: p, Object: o}
}

func fact(s, p, o string) store.Triple {
	return store.Triple{Subject: term.Constant{Value: s}, Predicate: term.Constant{Value: p}, Object: term.Constant{Value: o}}
}

func isBaseAmong(names ...string) func(term.Term) bool {
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	return func(op term.Term) bool {
		c, ok := op.(term.Constant)
		return ok && allowed[c.Value]
	}
}

func TestIDBOps(t *testing.T) {
	pOp := cst("p")
	rules := ruleset.InMemory{
		{Head: tp(vr("X"), pOp, vr("Y")), Body: []term.Literal{tp(vr("X"), cst("q"), vr("Y"))}},
	}
	idb := IDBOps(rules)
	if !idb.Contains(pOp) {
		t.Fatal("expected p in IDBOps")
	}
	if idb.Contains(cst("q")) {
		t.Fatal("q must not be in IDBOps: it never heads a clause")
	}
}

func TestIsBaseQuery(t *testing.T) {
	idb := set.From([]term.Term{cst("sg")})
	if IsBaseQuery(tp(vr("X"), cst("sg"), vr("Y")), idb) {
		t.Error("sg is an IDB predicate, must not report as a base query")
	}
	if !IsBaseQuery(tp(vr("X"), cst("up"), vr("Y")), idb) {
		t.Error("up is not an IDB predicate, must report as a base query")
	}
}

func TestStrategy_AnswerHybridPredicate(t *testing.T) {
	fs, err := memstore.New()
	if err != nil {
		t.Fatalf("memstore.New: %v", err)
	}
	if err := fs.Insert(
		fact("1", "p", "2"),
		fact("3", "p", "4"),
		fact("5", "q", "6"),
	); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	pOp := cst("p")
	rules := ruleset.InMemory{
		{Head: tp(vr("X"), pOp, vr("Y")), Body: []term.Literal{tp(vr("X"), cst("q"), vr("Y"))}},
	}

	strategy, err := NewStrategy(fs, rules, isBaseAmong("p", "q"), nil)
	if err != nil {
		t.Fatalf("NewStrategy: %v", err)
	}

	goal := tp(vr("X"), pOp, vr("Y"))
	ctx := context.Background()
	results, err := strategy.Answer(ctx, goal, bindings.Empty())
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3 (p's own facts plus q's rule): %v", len(results), results)
	}
}

func TestStrategy_BatchUnify(t *testing.T) {
	fs, err := memstore.New()
	if err != nil {
		t.Fatalf("memstore.New: %v", err)
	}
	if err := fs.Insert(fact("alice", "knows", "bob"), fact("bob", "likes", "pizza")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	strategy, err := NewStrategy(fs, nil, isBaseAmong("knows", "likes"), nil)
	if err != nil {
		t.Fatalf("NewStrategy: %v", err)
	}

	goals := []term.Literal{
		tp(cst("alice"), cst("knows"), vr("Y")),
		tp(vr("Y"), cst("likes"), vr("What")),
	}
	ctx := context.Background()
	results, err := strategy.BatchUnify(ctx, goals, bindings.Empty())
	if err != nil {
		t.Fatalf("BatchUnify: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1: %v", len(results), results)
	}
	what, ok := results[0].Lookup(term.Variable{Name: "What"})
	if !ok || what.Value != "pizza" {
		t.Errorf("What = %v, ok=%v, want pizza", what, ok)
	}
}
