package config

import (
	"testing"

	"github.com/gitrdm/sipquery/pkg/term"
)

func TestBasePredicateOps(t *testing.T) {
	cfg := &Config{
		Facts: []FactSpec{
			{Subject: "1", Predicate: "p", Object: "2"},
			{Subject: "3", Predicate: "p", Object: "4"},
			{Subject: "5", Predicate: "q", Object: "6"},
		},
	}
	ops := cfg.BasePredicateOps()
	if !ops.Contains(term.Constant{Value: "p"}) {
		t.Error("expected p in BasePredicateOps")
	}
	if !ops.Contains(term.Constant{Value: "q"}) {
		t.Error("expected q in BasePredicateOps")
	}
	if ops.Contains(term.Constant{Value: "r"}) {
		t.Error("r has no stored facts, must not be in BasePredicateOps")
	}

	// A predicate can be both stored (base) and later ruled (hybrid): this
	// method reports it as base regardless of the rule program, since that
	// independence is what lets the magic/hybrid rewrite ever fire.
	cfg.Rules = []RuleSpec{
		{Head: LiteralSpec{Subject: "?X", Predicate: "p", Object: "?Y"},
			Body: []LiteralSpec{{Subject: "?X", Predicate: "q", Object: "?Y"}}},
	}
	ops = cfg.BasePredicateOps()
	if !ops.Contains(term.Constant{Value: "p"}) {
		t.Error("p must remain a base predicate even after becoming a rule head")
	}
}
