package engine

import (
	"strconv"

	"github.com/gitrdm/sipquery/pkg/bindings"
	"github.com/gitrdm/sipquery/pkg/term"
)

// evalBuiltin evaluates a built-in comparison atom directly, without going
// through the store or rule set: a Builtin literal has no extension to
// materialize, only a function to apply. Body literals are substituted
// against the running environment before evalBuiltin ever sees them (see
// evalRuleBody), so both Argument and Result are expected to already be
// ground.
//
// Only equality, inequality and numeric ordering are implemented; the
// wider N3-style builtin vocabulary (arithmetic, string manipulation) is
// out of scope — this evaluator has no function symbols (§1), so there are
// no expressions for a richer builtin set to evaluate, only ground values
// to compare.
func evalBuiltin(b *term.Builtin) (bindings.Env, bool) {
	switch b.URI {
	case "=", "equalTo", "http://www.w3.org/2000/10/swap/math#equalTo":
		return groundEquals(b.Argument, b.Result, true)
	case "!=", "notEqualTo":
		return groundEquals(b.Argument, b.Result, false)
	case "<", "lessThan", "http://www.w3.org/2000/10/swap/math#lessThan":
		return compareNumeric(b.Argument, b.Result, func(a, c float64) bool { return a < c })
	case ">", "greaterThan", "http://www.w3.org/2000/10/swap/math#greaterThan":
		return compareNumeric(b.Argument, b.Result, func(a, c float64) bool { return a > c })
	default:
		return bindings.Env{}, false
	}
}

func groundEquals(a, c term.Term, wantEqual bool) (bindings.Env, bool) {
	av, aok := a.(term.Constant)
	cv, cok := c.(term.Constant)
	if !aok || !cok {
		return bindings.Env{}, false
	}
	if (av.Value == cv.Value) != wantEqual {
		return bindings.Env{}, false
	}
	return bindings.Empty(), true
}

func compareNumeric(a, c term.Term, cmp func(a, c float64) bool) (bindings.Env, bool) {
	av, aok := a.(term.Constant)
	cv, cok := c.(term.Constant)
	if !aok || !cok {
		return bindings.Env{}, false
	}
	af, err1 := strconv.ParseFloat(av.Value, 64)
	cf, err2 := strconv.ParseFloat(cv.Value, 64)
	if err1 != nil || err2 != nil {
		return bindings.Env{}, false
	}
	if !cmp(af, cf) {
		return bindings.Env{}, false
	}
	return bindings.Empty(), true
}
