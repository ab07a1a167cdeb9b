package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitrdm/sipquery/pkg/magic"
	"github.com/gitrdm/sipquery/pkg/term"
)

var dotFormat bool

var graphCmd = &cobra.Command{
	Use:   "graph <subject> <predicate> <object>",
	Short: "Print the SIP graphs the planner builds for a goal",
	Long: `Builds the adorned program for a goal the same way query does, then
prints each reachable signature's clauses as SIP graphs instead of
evaluating them. Useful for inspecting the binding-passing order a rule
was planned with.`,
	Args: cobra.ExactArgs(3),
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().BoolVar(&dotFormat, "dot", false, "emit graphviz DOT instead of the text form")
}

func runGraph(cmd *cobra.Command, args []string) error {
	if fixturePath == "" {
		return fmt.Errorf("graph: -f/--fixture is required")
	}
	fx, err := loadFixture(fixturePath)
	if err != nil {
		return err
	}

	goal := &term.GenericTriple{
		Subject:   termFromToken(args[0]),
		Predicate: termFromToken(args[1]),
		Object:    termFromToken(args[2]),
	}

	hybrid := magic.IdentifyHybridPredicates(fx.rules, fx.basePreds.Contains)
	rules, err := magic.ReplaceHybridPredicates(fx.rules, hybrid)
	if err != nil {
		return fmt.Errorf("graph: %w", err)
	}
	if op, ok := term.Op(goal).(term.Constant); ok && hybrid.Contains(op) {
		goal.Predicate = term.Constant{Value: op.Value + magic.DerivedSuffix}
	}

	program, err := magic.Build(rules, goal, nil, logger.Named("magic"))
	if err != nil {
		return fmt.Errorf("graph: %w", err)
	}

	for _, sig := range program.Signatures() {
		fmt.Printf("%s:\n", sig)
		for i, ac := range program.Clauses(sig) {
			if dotFormat {
				fmt.Printf("-- clause %d --\n%s", i, ac.Graph.DOT())
				continue
			}
			for _, line := range ac.Graph.Representation() {
				fmt.Printf("  %s\n", line)
			}
		}
	}
	return nil
}
