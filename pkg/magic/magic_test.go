package magic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-set/v3"

	"github.com/gitrdm/sipquery/pkg/ruleset"
	"github.com/gitrdm/sipquery/pkg/term"
)

func vr(name string) term.Term      { return term.Variable{Name: name} }
func cst(name string) term.Term     { return term.Constant{Value: name} }
func tp(s, p, o term.Term) term.Literal {
	return &term.GenericTriple{Subject: s, Predicate: p, Object: o}
}

// sg(X,Y) :- up(X,Z1), sg(Z1,Z2), flat(Z2,Z3), sg(Z3,Z4), down(Z4,Y).
func sameGenerationRules() ruleset.InMemory {
	sgOp := cst("sg")
	head := tp(vr("X"), sgOp, vr("Y"))
	body := []term.Literal{
		tp(vr("X"), cst("up"), vr("Z1")),
		tp(vr("Z1"), sgOp, vr("Z2")),
		tp(vr("Z2"), cst("flat"), vr("Z3")),
		tp(vr("Z3"), sgOp, vr("Z4")),
		tp(vr("Z4"), cst("down"), vr("Y")),
	}
	return ruleset.InMemory{
		{Head: head, Body: body},
	}
}

func TestAdornLiteral(t *testing.T) {
	lit := tp(vr("X"), cst("sg"), vr("Y"))
	bound := map[term.Term]bool{vr("X"): true}
	got := AdornLiteral(lit, bound)
	if got != "bf" {
		t.Fatalf("AdornLiteral = %q, want bf", got)
	}
}

func TestAdornLiteral_GroundArgsAlwaysBound(t *testing.T) {
	lit := tp(cst("alice"), cst("up"), cst("bob"))
	got := AdornLiteral(lit, nil)
	if got != "bb" {
		t.Fatalf("AdornLiteral = %q, want bb", got)
	}
}

func TestBuild_SameGeneration(t *testing.T) {
	rules := sameGenerationRules()
	goal := tp(cst("alice"), cst("sg"), vr("Y"))

	prog, err := Build(rules, goal, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	sigs := prog.Signatures()
	if len(sigs) == 0 {
		t.Fatal("expected at least one reachable signature")
	}
	goalSig := Signature{Op: cst("sg"), Pattern: "bf"}
	if len(prog.Clauses(goalSig)) != 1 {
		t.Fatalf("Clauses(%v) = %d, want 1", goalSig, len(prog.Clauses(goalSig)))
	}
	ac := prog.Clauses(goalSig)[0]
	if len(ac.Order) != 5 {
		t.Fatalf("adorned clause order has %d literals, want 5", len(ac.Order))
	}
	if !ac.Graph.Valid() {
		t.Fatal("adorned clause's SIP graph must be valid")
	}

	// sg recurses into itself with the same "bf" pattern, so the worklist
	// must discover exactly one signature, not diverge.
	want := []Signature{goalSig}
	if diff := cmp.Diff(want, sigs); diff != "" {
		t.Fatalf("reachable signatures mismatch (-want +got):\n%s", diff)
	}
	if len(sigs) != 1 {
		t.Fatalf("got %d reachable signatures, want 1 (sg^bf only): %v", len(sigs), sigs)
	}
}

func TestBuild_AllFreeGoalFindsOrdering(t *testing.T) {
	// A fully-free call pattern still has no one else to carry bindings
	// from at the first body literal, so the ordering search must seed
	// its carried set from every head argument variable, not just the
	// (nonexistent, here) bound ones.
	rules := sameGenerationRules()
	goal := tp(vr("X"), cst("sg"), vr("Y"))

	prog, err := Build(rules, goal, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	goalSig := Signature{Op: cst("sg"), Pattern: "ff"}
	if len(prog.Clauses(goalSig)) != 1 {
		t.Fatalf("Clauses(%v) = %d, want 1", goalSig, len(prog.Clauses(goalSig)))
	}
}

func TestBuild_PrunesArcsIntoBasePredicates(t *testing.T) {
	rOp, dOp := cst("r"), cst("d")
	r := &ruleset.Clause{
		Head: tp(vr("X"), rOp, vr("Y")),
		Body: []term.Literal{
			tp(vr("X"), cst("base"), vr("Z")),
			tp(vr("Z"), dOp, vr("Y")),
		},
	}
	d := &ruleset.Clause{
		Head: tp(vr("Z"), dOp, vr("Y")),
		Body: []term.Literal{tp(vr("Z"), cst("base2"), vr("Y"))},
	}
	rules := ruleset.InMemory{r, d}
	goal := tp(cst("a"), rOp, vr("Y"))

	prog, err := Build(rules, goal, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sig := Signature{Op: rOp, Pattern: "bf"}
	if len(prog.Clauses(sig)) != 1 {
		t.Fatalf("Clauses(%v) = %d, want 1", sig, len(prog.Clauses(sig)))
	}
	ac := prog.Clauses(sig)[0]
	arcs := ac.Graph.Arcs()
	if len(arcs) == 0 {
		t.Fatal("expected at least one surviving arc (into d)")
	}
	for _, a := range arcs {
		lit, ok := ac.Graph.Literal(a.To)
		if !ok {
			t.Fatal("arc destination has no recorded literal")
		}
		if op := term.Op(lit); op != dOp {
			t.Errorf("surviving arc destination op = %v, want %v (arcs into base predicates must be pruned)", op, dOp)
		}
	}
}

func TestIdentifyAndReplaceHybridPredicates(t *testing.T) {
	pOp := cst("p")
	rule := &ruleset.Clause{
		Head: tp(vr("X"), pOp, vr("Y")),
		Body: []term.Literal{tp(vr("X"), cst("q"), vr("Y"))},
	}
	rules := ruleset.InMemory{rule}

	isBase := func(op term.Term) bool { return op == pOp }
	hybrid := IdentifyHybridPredicates(rules, isBase)
	if !hybrid.Contains(pOp) {
		t.Fatal("expected p to be identified as hybrid")
	}

	rewritten, err := ReplaceHybridPredicates(rules, hybrid)
	if err != nil {
		t.Fatalf("ReplaceHybridPredicates: %v", err)
	}
	if len(rewritten) != 2 {
		t.Fatalf("got %d clauses after rewrite, want 2 (rewritten rule + bridge)", len(rewritten))
	}
	if term.Op(rewritten[0].Head) != derivedOp(pOp) {
		t.Errorf("rewritten head op = %v, want %v", term.Op(rewritten[0].Head), derivedOp(pOp))
	}
	bridge := rewritten[1]
	if term.Op(bridge.Head) != derivedOp(pOp) {
		t.Errorf("bridge head op = %v, want %v", term.Op(bridge.Head), derivedOp(pOp))
	}
	if term.Op(bridge.Body[0]) != pOp {
		t.Errorf("bridge body op = %v, want %v", term.Op(bridge.Body[0]), pOp)
	}

	// The original rules value must be untouched (deep copy, not mutation).
	if term.Op(rule.Head) != pOp {
		t.Errorf("original clause was mutated: head op = %v, want %v", term.Op(rule.Head), pOp)
	}
}

func TestReplaceHybridPredicates_NoHybridsIsNoop(t *testing.T) {
	rules := sameGenerationRules()
	rewritten, err := ReplaceHybridPredicates(rules, set.New[term.Term](0))
	if err != nil {
		t.Fatalf("ReplaceHybridPredicates: %v", err)
	}
	if len(rewritten) != len(rules) {
		t.Fatalf("got %d clauses, want %d (unchanged)", len(rewritten), len(rules))
	}
}
