package config

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"

	"github.com/gitrdm/sipquery/pkg/ruleset"
	"github.com/gitrdm/sipquery/pkg/store"
	"github.com/gitrdm/sipquery/pkg/term"
)

// Triples converts the configured facts into store.Triple values, ready to
// hand to memstore.Store.Insert.
func (c *Config) Triples() []store.Triple {
	out := make([]store.Triple, len(c.Facts))
	for i, f := range c.Facts {
		out[i] = store.Triple{
			Subject:   term.Constant{Value: f.Subject},
			Predicate: term.Constant{Value: f.Predicate},
			Object:    term.Constant{Value: f.Object},
		}
	}
	return out
}

// BasePredicateOps returns the set of predicate operators that have at
// least one stored fact, i.e. the classifier NewStrategy needs: a predicate
// is base precisely because the fixture stores facts for it, regardless of
// whether it is also the head of a rule. A predicate appearing both here
// and as a rule head is hybrid, not purely derived — keeping base and IDB
// membership independent is what lets the magic/hybrid rewrite's
// IdentifyHybridPredicates ever actually fire.
func (c *Config) BasePredicateOps() *set.Set[term.Term] {
	out := set.New[term.Term](0)
	for _, f := range c.Facts {
		out.Insert(term.Constant{Value: f.Predicate})
	}
	return out
}

// StoreNamespaces converts the configured namespaces into store.Namespace
// values.
func (c *Config) StoreNamespaces() []store.Namespace {
	out := make([]store.Namespace, len(c.Namespaces))
	for i, n := range c.Namespaces {
		out[i] = store.Namespace{Prefix: n.Prefix, IRI: n.IRI}
	}
	return out
}

// Clauses converts the configured rules into a ruleset.InMemory program.
func (c *Config) Clauses() (ruleset.InMemory, error) {
	out := make(ruleset.InMemory, len(c.Rules))
	for i, r := range c.Rules {
		head, err := literalFromSpec(r.Head)
		if err != nil {
			return nil, fmt.Errorf("config: rule %d head: %w", i, err)
		}
		clause := &ruleset.Clause{Head: head}
		for j, bspec := range r.Body {
			lit, err := literalFromSpec(bspec)
			if err != nil {
				return nil, fmt.Errorf("config: rule %d body literal %d: %w", i, j, err)
			}
			clause.Body = append(clause.Body, lit)
			if bspec.Negated {
				if clause.Naf == nil {
					clause.Naf = make(map[term.Literal]bool)
				}
				clause.Naf[lit] = true
			}
		}
		out[i] = clause
	}
	return out, nil
}

func literalFromSpec(spec LiteralSpec) (term.Literal, error) {
	if spec.BuiltinURI != "" {
		return &term.Builtin{
			URI:      spec.BuiltinURI,
			Argument: termFromToken(spec.Argument),
			Result:   termFromToken(spec.Result),
		}, nil
	}
	if spec.Subject == "" || spec.Predicate == "" {
		return nil, fmt.Errorf("literal missing subject or predicate")
	}
	return &term.GenericTriple{
		Subject:   termFromToken(spec.Subject),
		Predicate: termFromToken(spec.Predicate),
		Object:    termFromToken(spec.Object),
	}, nil
}

// termFromToken treats a leading '?' as marking a Variable. This is the
// fixture format's own surface convention for wiring test/demo data
// together, not a rule-language parser — parsing a surface query or rule
// syntax is explicitly out of scope (§1 Non-goals).
func termFromToken(tok string) term.Term {
	if len(tok) > 1 && tok[0] == '?' {
		return term.Variable{Name: tok[1:]}
	}
	return term.Constant{Value: tok}
}
