package query

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-set/v3"

	"github.com/gitrdm/sipquery/pkg/bindings"
	"github.com/gitrdm/sipquery/pkg/engine"
	"github.com/gitrdm/sipquery/pkg/magic"
	"github.com/gitrdm/sipquery/pkg/ruleset"
	"github.com/gitrdm/sipquery/pkg/store"
	"github.com/gitrdm/sipquery/pkg/term"
)

// Strategy is the conjunctive evaluation strategy (§4.F): it owns the
// hybrid-predicate rewrite done once up front, and plans + evaluates each
// goal against a freshly adorned program built just for that goal's call
// pattern. Replanning per goal costs some repeated SIP search, but keeps
// the adorned program's lifetime tied to a single query the way §5
// describes, rather than caching plans across unrelated goals.
type Strategy struct {
	store  store.FactStore
	isBase func(op term.Term) bool
	log    hclog.Logger

	hybrid    *set.Set[term.Term]
	rewritten ruleset.InMemory
}

// NewStrategy identifies rules' hybrid predicates against isBase and
// applies the hybrid rewrite once, up front. log is threaded into every
// per-goal magic.Build/engine.New call Answer makes; a nil log is treated
// as discard, the way nomad's components default an unset logger.
func NewStrategy(fs store.FactStore, rules ruleset.InMemory, isBase func(op term.Term) bool, log hclog.Logger) (*Strategy, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	hybrid := magic.IdentifyHybridPredicates(rules, isBase)
	rewritten, err := magic.ReplaceHybridPredicates(rules, hybrid)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return &Strategy{store: fs, isBase: isBase, log: log, hybrid: hybrid, rewritten: rewritten}, nil
}

// Answer plans and evaluates goal, retargeting it to its _derived form
// first if its predicate was identified as hybrid.
func (s *Strategy) Answer(ctx context.Context, goal term.Literal, init bindings.Env) ([]bindings.Env, error) {
	targeted := s.retarget(goal)
	program, err := magic.Build(s.rewritten, targeted, nil, s.log.Named("magic"))
	if err != nil {
		return nil, fmt.Errorf("query: planning %v: %w", term.Op(goal), err)
	}
	eng := engine.New(s.store, program, s.engineIsBase, s.log.Named("engine"))
	return eng.Answer(ctx, targeted, init)
}

// BatchUnify sequences goals left to right, planning and evaluating each
// one against the bindings accumulated from the ones before it.
func (s *Strategy) BatchUnify(ctx context.Context, goals []term.Literal, init bindings.Env) ([]bindings.Env, error) {
	envs := []bindings.Env{init}
	for _, goal := range goals {
		var next []bindings.Env
		for _, env := range envs {
			solved, err := s.Answer(ctx, goal, env)
			if err != nil {
				return nil, err
			}
			next = append(next, solved...)
		}
		envs = next
		if len(envs) == 0 {
			break
		}
	}
	return envs, nil
}

// retarget rewrites a hybrid goal's predicate to its _derived form, the
// query-entry-point counterpart of magic.ReplaceHybridPredicates rewriting
// rule heads: a caller asking for p(X,Y) on a hybrid predicate must see
// the union of its facts and its rule, which only the derived relation
// provides.
func (s *Strategy) retarget(lit term.Literal) term.Literal {
	op := term.Op(lit)
	if !s.hybrid.Contains(op) {
		return lit
	}
	clone := shallowCloneLiteral(lit)
	_ = term.SetOp(clone, derivedOp(op))
	return clone
}

func shallowCloneLiteral(lit term.Literal) term.Literal {
	switch v := lit.(type) {
	case *term.TypePredicate:
		cp := *v
		return &cp
	case *term.GenericTriple:
		cp := *v
		return &cp
	case *term.Builtin:
		cp := *v
		return &cp
	default:
		return lit
	}
}

func derivedOp(op term.Term) term.Term {
	c, ok := op.(term.Constant)
	if !ok {
		return op
	}
	return term.Constant{Value: c.Value + magic.DerivedSuffix}
}

// engineIsBase wraps isBase so a _derived relation is never mistaken for a
// base predicate, even though isBase itself only knows the original
// predicate names.
func (s *Strategy) engineIsBase(op term.Term) bool {
	if c, ok := op.(term.Constant); ok && hasDerivedSuffix(c.Value) {
		return false
	}
	return s.isBase(op)
}

func hasDerivedSuffix(v string) bool {
	n := len(magic.DerivedSuffix)
	return len(v) > n && v[len(v)-n:] == magic.DerivedSuffix
}
