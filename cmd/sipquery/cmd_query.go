package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gitrdm/sipquery/pkg/bindings"
	"github.com/gitrdm/sipquery/pkg/term"
)

var queryCmd = &cobra.Command{
	Use:   "query <subject> <predicate> <object>",
	Short: "Evaluate one goal against the fixture's facts and rules",
	Long: `Evaluates a single goal triple. Any argument prefixed with '?' is
treated as a free variable; every other argument is a ground constant.

Example:
  sipquery query -f fixture.yaml ?X sg bob`,
	Args: cobra.ExactArgs(3),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	if fixturePath == "" {
		return fmt.Errorf("query: -f/--fixture is required")
	}
	fx, err := loadFixture(fixturePath)
	if err != nil {
		return err
	}
	strategy, err := fx.newStrategy()
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	goal := &term.GenericTriple{
		Subject:   termFromToken(args[0]),
		Predicate: termFromToken(args[1]),
		Object:    termFromToken(args[2]),
	}
	logger.Debug("evaluating goal", "subject", args[0], "predicate", args[1], "object", args[2])

	results, err := strategy.Answer(cmd.Context(), goal, bindings.Empty())
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	printSolutions(term.Variables(goal, true), results)
	return nil
}

func printSolutions(freeVars []term.Term, results []bindings.Env) {
	if len(freeVars) == 0 {
		if len(results) > 0 {
			fmt.Println("yes")
		} else {
			fmt.Println("no")
		}
		return
	}
	if len(results) == 0 {
		fmt.Println("no solutions")
		return
	}
	names := make([]string, len(freeVars))
	for i, v := range freeVars {
		names[i] = v.String()
	}
	for _, env := range results {
		bound := make([]string, 0, len(freeVars))
		for i, v := range freeVars {
			variable, ok := v.(term.Variable)
			if !ok {
				continue
			}
			val, ok := env.Lookup(variable)
			if !ok {
				bound = append(bound, fmt.Sprintf("%s=?", names[i]))
				continue
			}
			bound = append(bound, fmt.Sprintf("%s=%s", names[i], val.Value))
		}
		sort.Strings(bound)
		fmt.Println(join(bound, ", "))
	}
}

func join(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}
