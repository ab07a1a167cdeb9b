package main

import (
	"testing"

	"github.com/gitrdm/sipquery/pkg/term"
)

func TestTermFromToken(t *testing.T) {
	if got := termFromToken("?X"); got != (term.Variable{Name: "X"}) {
		t.Errorf("termFromToken(?X) = %#v, want Variable X", got)
	}
	if got := termFromToken("bob"); got != (term.Constant{Value: "bob"}) {
		t.Errorf("termFromToken(bob) = %#v, want Constant bob", got)
	}
}

func TestJoin(t *testing.T) {
	if got := join(nil, ", "); got != "" {
		t.Errorf("join(nil) = %q, want empty", got)
	}
	if got := join([]string{"a", "b", "c"}, ", "); got != "a, b, c" {
		t.Errorf("join = %q, want %q", got, "a, b, c")
	}
}
