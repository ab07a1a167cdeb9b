// Package engine implements the Backward Fixpoint Engine (§4.E): answering
// a goal literal against an adorned program by iterating each reachable
// (predicate, adornment) signature's defining clauses to a fixpoint,
// dispatching base-predicate subgoals to a fact store instead.
package engine

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/gitrdm/sipquery/pkg/bindings"
	"github.com/gitrdm/sipquery/pkg/magic"
	"github.com/gitrdm/sipquery/pkg/store"
	"github.com/gitrdm/sipquery/pkg/term"
)

// Engine answers goals against one magic.AdornedProgram and one
// store.FactStore.
//
// Rather than keep a second magic-supplementary relation keyed on the
// caller's exact bound argument tuple, Engine materializes the full
// (predicate, adornment) extension once per signature and filters to the
// caller's tuple at lookup time (unifyRow). The Herbrand base is finite
// here — there are no function symbols (§1) — so this trades some
// redundant derivation for a considerably simpler implementation, without
// affecting termination or the produced answer set.
//
// A derived predicate's table entry is populated by a semi-naive-free
// fixpoint loop: each (predicate, adornment) signature gets one entry in
// Engine.table, inserted before its defining clauses are evaluated for the
// first time. A recursive call that re-enters the same signature (e.g. sg
// calling sg) finds that entry already present and returns its
// currently-accumulated rows rather than recursing again; the outer loop
// keeps re-running every clause until a full pass adds no new row.
type Engine struct {
	store   store.FactStore
	program *magic.AdornedProgram
	isBase  func(op term.Term) bool
	log     hclog.Logger

	table map[magic.Signature]*tableEntry
}

type tableEntry struct {
	rows []row
	seen map[string]bool
}

// New builds an Engine. isBase reports whether a predicate operator is
// extensional — served by fs and never by a rule — the same test used to
// build program's hybrid-predicate rewrite (pkg/magic.IdentifyHybridPredicates).
// log receives a Trace line per base-predicate dispatch and a Debug line
// per signature's finished fixpoint; a nil log is treated as discard.
func New(fs store.FactStore, program *magic.AdornedProgram, isBase func(op term.Term) bool, log hclog.Logger) *Engine {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Engine{
		store:   fs,
		program: program,
		isBase:  isBase,
		log:     log,
		table:   make(map[magic.Signature]*tableEntry),
	}
}

// Answer evaluates goal under init's bindings and returns every solution,
// each merged with init (§4.F's Answer operation).
func (e *Engine) Answer(ctx context.Context, goal term.Literal, init bindings.Env) ([]bindings.Env, error) {
	resolved := substituteLiteral(goal, init)

	solutions, err := e.literalSolutions(ctx, resolved)
	if err != nil {
		return nil, err
	}

	out := make([]bindings.Env, 0, len(solutions))
	for _, sol := range solutions {
		merged, err := bindings.Merge(init, sol)
		if err != nil {
			continue
		}
		out = append(out, merged)
	}
	return out, nil
}

// BatchUnify threads goals left to right, merging each one's solutions into
// the bindings carried from the previous goal (§4.F's BatchUnify).
func (e *Engine) BatchUnify(ctx context.Context, goals []term.Literal, init bindings.Env) ([]bindings.Env, error) {
	envs := []bindings.Env{init}
	for _, goal := range goals {
		var next []bindings.Env
		for _, env := range envs {
			solved, err := e.Answer(ctx, goal, env)
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

// literalSolutions solves one literal, already substituted against the
// caller's running environment, and returns the binding it contributes for
// each answer.
func (e *Engine) literalSolutions(ctx context.Context, lit term.Literal) ([]bindings.Env, error) {
	if b, ok := lit.(*term.Builtin); ok {
		env, ok := evalBuiltin(b)
		if !ok {
			return nil, nil
		}
		return []bindings.Env{env}, nil
	}

	op := term.Op(lit)
	if e.isBase(op) {
		return e.solveBaseLiteral(ctx, lit)
	}

	sig := magic.Signature{Op: op, Pattern: magic.AdornLiteral(lit, nil)}
	if len(e.program.Clauses(sig)) == 0 {
		// The runtime call pattern can differ from the one the driver
		// planned (rule bodies start from an empty environment here). Every
		// signature's table holds the full extension, so any planned
		// signature of the same operator and arity answers this call.
		for _, planned := range e.program.Signatures() {
			if planned.Op == op && len(planned.Pattern) == len(sig.Pattern) {
				sig = planned
				break
			}
		}
	}
	rows, err := e.solve(ctx, sig)
	if err != nil {
		return nil, err
	}

	args := term.Args(lit, true)
	out := make([]bindings.Env, 0, len(rows))
	for _, r := range rows {
		if env, ok := unifyRow(args, r); ok {
			out = append(out, env)
		}
	}
	return out, nil
}

// solveBaseLiteral dispatches an extensional subgoal straight to the fact
// store, translating its (subject, predicate, object) shape into a
// store.Pattern with a wildcard at every still-unbound position.
func (e *Engine) solveBaseLiteral(ctx context.Context, lit term.Literal) ([]bindings.Env, error) {
	s, p, o, ok := tripleParts(lit)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrInvalidLiteral, lit)
	}
	pattern := store.Pattern{Subject: groundOnly(s), Predicate: groundOnly(p), Object: groundOnly(o)}
	e.log.Trace("dispatching base subgoal", "pattern", pattern)
	it, err := e.store.Triples(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreQuery, err)
	}

	var out []bindings.Env
	for {
		t, ok, err := it.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreQuery, err)
		}
		if !ok {
			break
		}
		env, ok := bindTriplePositions(s, p, o, t)
		if ok {
			out = append(out, env)
		}
	}
	return out, nil
}

func bindTriplePositions(s, p, o term.Term, t store.Triple) (bindings.Env, bool) {
	env := bindings.Empty()
	var err error
	for _, pos := range [...]struct {
		field term.Term
		value term.Constant
	}{{s, t.Subject}, {p, t.Predicate}, {o, t.Object}} {
		v, isVar := pos.field.(term.Variable)
		if !isVar {
			continue
		}
		env, err = env.Bind(v, pos.value)
		if err != nil {
			return bindings.Env{}, false
		}
	}
	return env, true
}

// solve answers sig, consulting and populating the per-signature memo
// table for derived predicates.
func (e *Engine) solve(ctx context.Context, sig magic.Signature) ([]row, error) {
	if entry, ok := e.table[sig]; ok {
		return entry.rows, nil
	}

	entry := &tableEntry{seen: make(map[string]bool)}
	e.table[sig] = entry

	clauses := e.program.Clauses(sig)
	for {
		grown := false
		for _, ac := range clauses {
			produced, err := e.evalRuleBody(ctx, ac)
			if err != nil {
				return nil, err
			}
			for _, r := range produced {
				key := rowKey(r)
				if !entry.seen[key] {
					entry.seen[key] = true
					entry.rows = append(entry.rows, r)
					grown = true
				}
			}
		}
		if !grown {
			break
		}
	}
	e.log.Debug("signature reached fixpoint", "signature", sig.String(), "rows", len(entry.rows))
	return entry.rows, nil
}

// evalRuleBody solves ac's body in its SIP-chosen order, threading bindings
// through each literal. A negated literal adds no bindings: a candidate
// environment is kept unchanged when the negated literal has no solution
// under it and dropped when it has one (NAF).
func (e *Engine) evalRuleBody(ctx context.Context, ac *magic.AdornedClause) ([]row, error) {
	if len(ac.Order) == 0 {
		r, ok := headRow(ac.Source.Head, bindings.Empty())
		if !ok {
			return nil, nil
		}
		return []row{r}, nil
	}

	envs := []bindings.Env{bindings.Empty()}
	for _, lit := range ac.Order {
		negated := ac.Source.IsNegated(lit)
		var next []bindings.Env
		for _, env := range envs {
			resolved := substituteLiteral(lit, env)
			solutions, err := e.literalSolutions(ctx, resolved)
			if err != nil {
				return nil, err
			}
			if negated {
				if len(solutions) == 0 {
					next = append(next, env)
				}
				continue
			}
			for _, sol := range solutions {
				merged, err := bindings.Merge(env, sol)
				if err != nil {
					continue
				}
				next = append(next, merged)
			}
		}
		envs = next
		if len(envs) == 0 {
			break
		}
	}

	rows := make([]row, 0, len(envs))
	for _, env := range envs {
		if r, ok := headRow(ac.Source.Head, env); ok {
			rows = append(rows, r)
		}
	}
	return rows, nil
}
