// Package main implements the sipquery CLI: load a fixture file describing a
// fact store and a rule program, then plan and evaluate goals against it
// through the magic-sets/SIP strategy in pkg/query.
//
// # File Index
//
//   - main.go       - entry point, rootCmd, global flags
//   - cmd_query.go  - queryCmd: plan and evaluate one goal, print its solutions
//   - cmd_graph.go  - graphCmd: print a clause's SIP graph (text or DOT)
//   - fixture.go    - shared fixture-loading helpers
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitrdm/sipquery/internal/logx"
)

var (
	fixturePath string
	verbose     bool
	jsonLogs    bool

	logger = logx.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "sipquery",
	Short: "Evaluate goal-directed Datalog queries via magic-sets rewriting",
	Long: `sipquery loads a fixture describing a fact store and a Horn-clause
rule program, then evaluates queries against it using top-down,
goal-directed magic-sets rewriting: adornment, Sideways Information
Passing graphs, and a backward fixpoint procedure.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if verbose {
			level = "debug"
		}
		logger = logx.New(logx.Options{Name: "sipquery", Level: level, JSON: jsonLogs})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&fixturePath, "fixture", "f", "", "path to a YAML fixture (facts, namespaces, rules)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit logs as JSON")

	rootCmd.AddCommand(queryCmd, graphCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
