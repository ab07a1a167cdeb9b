package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/sipquery/pkg/bindings"
	"github.com/gitrdm/sipquery/pkg/magic"
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

// same-generation recursion with a "two adjacent leaves are trivially same
// generation" base case (§8 scenario 1).
func sameGenerationRules() ruleset.InMemory {
	sgOp := cst("sg")
	recursive := &ruleset.Clause{
		Head: tp(vr("X"), sgOp, vr("Y")),
		Body: []term.Literal{
			tp(vr("X"), cst("up"), vr("Z1")),
			tp(vr("Z1"), sgOp, vr("Z2")),
			tp(vr("Z2"), cst("flat"), vr("Z3")),
			tp(vr("Z3"), sgOp, vr("Z4")),
			tp(vr("Z4"), cst("down"), vr("Y")),
		},
	}
	base := &ruleset.Clause{
		Head: tp(vr("X"), sgOp, vr("Y")),
		Body: []term.Literal{tp(vr("X"), cst("flat"), vr("Y"))},
	}
	return ruleset.InMemory{recursive, base}
}

func isBaseAmong(base ...string) func(term.Term) bool {
	set := make(map[string]bool, len(base))
	for _, b := range base {
		set[b] = true
	}
	return func(op term.Term) bool {
		c, ok := op.(term.Constant)
		return ok && set[c.Value]
	}
}

func TestEngine_SameGenerationRecursion(t *testing.T) {
	fs, err := memstore.New()
	require.NoError(t, err)
	require.NoError(t, fs.Insert(
		fact("a", "up", "b1"),
		fact("b1", "flat", "b2"),
		fact("b2", "flat", "c1"),
		fact("c1", "flat", "c2"),
		fact("c2", "down", "z"),
	))

	rules := sameGenerationRules()
	isBase := isBaseAmong("up", "flat", "down")

	goal := tp(cst("a"), cst("sg"), vr("Y"))
	program, err := magic.Build(rules, goal, nil, nil)
	require.NoError(t, err)

	eng := New(fs, program, isBase, nil)
	ctx := context.Background()
	results, err := eng.Answer(ctx, goal, bindings.Empty())
	require.NoError(t, err)
	require.Len(t, results, 1)

	y, ok := results[0].Lookup(term.Variable{Name: "Y"})
	require.True(t, ok)
	require.Equal(t, "z", y.Value)
}

func TestEngine_HybridPredicate(t *testing.T) {
	fs, err := memstore.New()
	require.NoError(t, err)
	require.NoError(t, fs.Insert(
		fact("1", "p", "2"),
		fact("3", "p", "4"),
		fact("5", "q", "6"),
	))

	pOp := cst("p")
	rules := ruleset.InMemory{
		{Head: tp(vr("X"), pOp, vr("Y")), Body: []term.Literal{tp(vr("X"), cst("q"), vr("Y"))}},
	}

	baseTest := isBaseAmong("p", "q")
	hybrid := magic.IdentifyHybridPredicates(rules, baseTest)
	rewritten, err := magic.ReplaceHybridPredicates(rules, hybrid)
	require.NoError(t, err)

	derivedOp := cst("p" + magic.DerivedSuffix)
	goal := tp(vr("X"), derivedOp, vr("Y"))
	program, err := magic.Build(rewritten, goal, nil, nil)
	require.NoError(t, err)

	isBase := func(op term.Term) bool {
		c, ok := op.(term.Constant)
		return ok && (c.Value == "p" || c.Value == "q")
	}
	eng := New(fs, program, isBase, nil)
	ctx := context.Background()
	results, err := eng.Answer(ctx, goal, bindings.Empty())
	require.NoError(t, err)
	require.Len(t, results, 3, "two from the bridge rule, one from q")

	seen := map[string]bool{}
	for _, env := range results {
		x, _ := env.Lookup(term.Variable{Name: "X"})
		y, _ := env.Lookup(term.Variable{Name: "Y"})
		seen[x.Value+","+y.Value] = true
	}
	for _, want := range []string{"1,2", "3,4", "5,6"} {
		require.True(t, seen[want], "missing expected pair %s in %v", want, seen)
	}
}

func TestEngine_Negation(t *testing.T) {
	fs, err := memstore.New()
	require.NoError(t, err)
	require.NoError(t, fs.Insert(
		fact("alice", "r", "bob"),
		fact("alice", "r", "carol"),
		fact("bob", "s", "_"),
		fact("bob", "t", "z1"),
		fact("carol", "t", "z2"),
	))

	// h(X,Y,Z) :- r(X,Y), not s(Y), t(Y,Z) -- only carol survives, bob is
	// excluded by the negated s(Y) (§8 scenario 4).
	hOp := cst("h")
	r := tp(vr("X"), cst("r"), vr("Y"))
	s := tp(vr("Y"), cst("s"), cst("_"))
	tt := tp(vr("Y"), cst("t"), vr("Z"))
	clause := &ruleset.Clause{
		Head: tp(vr("X"), hOp, vr("Z")),
		Body: []term.Literal{r, s, tt},
		Naf:  map[term.Literal]bool{s: true},
	}
	rules := ruleset.InMemory{clause}
	isBase := isBaseAmong("r", "s", "t")

	goal := tp(cst("alice"), hOp, vr("Z"))
	program, err := magic.Build(rules, goal, nil, nil)
	require.NoError(t, err)

	eng := New(fs, program, isBase, nil)
	ctx := context.Background()
	results, err := eng.Answer(ctx, goal, bindings.Empty())
	require.NoError(t, err)
	require.Len(t, results, 1)

	z, ok := results[0].Lookup(term.Variable{Name: "Z"})
	require.True(t, ok)
	require.Equal(t, "z2", z.Value, "carol's generation should survive the negated s(Y)")
}

func TestEngine_BatchUnify(t *testing.T) {
	fs, err := memstore.New()
	require.NoError(t, err)
	require.NoError(t, fs.Insert(fact("alice", "knows", "bob"), fact("bob", "likes", "pizza")))

	isBase := isBaseAmong("knows", "likes")
	program := magic.NewAdornedProgram()
	eng := New(fs, program, isBase, nil)

	goals := []term.Literal{
		tp(cst("alice"), cst("knows"), vr("Y")),
		tp(vr("Y"), cst("likes"), vr("What")),
	}
	ctx := context.Background()
	results, err := eng.BatchUnify(ctx, goals, bindings.Empty())
	require.NoError(t, err)
	require.Len(t, results, 1)

	what, ok := results[0].Lookup(term.Variable{Name: "What"})
	require.True(t, ok)
	require.Equal(t, "pizza", what.Value)
}
