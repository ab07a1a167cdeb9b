package engine

import "errors"

// ErrStoreQuery wraps any error the fact store returns while the engine is
// dispatching a base-predicate subgoal.
var ErrStoreQuery = errors.New("engine: store query failed")

// ErrInvalidLiteral is returned when a body literal's shape cannot be
// mapped onto a store triple (s, p, o) — every literal kind this evaluator
// accepts (§1) has such a mapping, so seeing this means a caller built a
// literal type the term model does not sanction.
var ErrInvalidLiteral = errors.New("engine: literal has no (subject, predicate, object) shape")
