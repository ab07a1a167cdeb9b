package main

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"

	"github.com/gitrdm/sipquery/internal/config"
	"github.com/gitrdm/sipquery/pkg/query"
	"github.com/gitrdm/sipquery/pkg/ruleset"
	"github.com/gitrdm/sipquery/pkg/store/memstore"
	"github.com/gitrdm/sipquery/pkg/term"
)

// loaded bundles the pieces a fixture produces: a populated fact store, its
// rule program, and the predicate classifier Strategy needs to decide
// whether a goal's operator is base (stored) or derived (ruled). basePreds
// is derived from the fixture's own facts rather than from the rule
// program's heads, so a predicate that is both stored and ruled (hybrid) is
// still reported as base — see Config.BasePredicateOps.
type loaded struct {
	store     *memstore.Store
	rules     ruleset.InMemory
	basePreds *set.Set[term.Term]
}

func loadFixture(path string) (*loaded, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading fixture: %w", err)
	}

	store, err := memstore.New(cfg.StoreNamespaces()...)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	if err := store.Insert(cfg.Triples()...); err != nil {
		return nil, fmt.Errorf("inserting facts: %w", err)
	}

	rules, err := cfg.Clauses()
	if err != nil {
		return nil, fmt.Errorf("building rule program: %w", err)
	}

	return &loaded{store: store, rules: rules, basePreds: cfg.BasePredicateOps()}, nil
}

func (l *loaded) newStrategy() (*query.Strategy, error) {
	return query.NewStrategy(l.store, l.rules, func(op term.Term) bool {
		return l.basePreds.Contains(op)
	}, logger.Named("query"))
}

// termFromToken treats a leading '?' as marking a Variable, mirroring
// internal/config's fixture convention: this is the CLI's own surface
// notation for naming goal arguments on the command line, not a rule or
// query-language parser.
func termFromToken(tok string) term.Term {
	if len(tok) > 1 && tok[0] == '?' {
		return term.Variable{Name: tok[1:]}
	}
	return term.Constant{Value: tok}
}
