// Package magic implements the Magic/Adornment Driver (§4.D): computing a
// predicate call's bound/free argument pattern, rewriting hybrid
// predicates, and propagating adornments across a rule set via a worklist
// to build the reachable AdornedProgram the Backward Fixpoint Engine
// evaluates.
package magic

import "github.com/gitrdm/sipquery/pkg/term"

// Adornment records, for one predicate call, which argument positions are
// bound (supplied by the caller) versus free (to be produced), as a string
// of 'b'/'f' characters in argument order — e.g. "bf" for a binary
// predicate called with only its first argument bound.
type Adornment string

// AdornLiteral computes lit's adornment given the variables already bound
// at the point lit is called. A ground argument (a Constant, or a
// BlankNode — both IsGround per the term model) is always 'b'; a Variable
// is 'b' only if bound reports it present.
func AdornLiteral(lit term.Literal, bound map[term.Term]bool) Adornment {
	args := term.Args(lit, true)
	out := make([]byte, len(args))
	for i, a := range args {
		switch {
		case !term.IsVariable(a):
			out[i] = 'b'
		case bound[a]:
			out[i] = 'b'
		default:
			out[i] = 'f'
		}
	}
	return Adornment(out)
}
