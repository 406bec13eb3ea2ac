package main

import (
	"fmt"

	"github.com/aretw0/scriptflow/internal/cli"
	"github.com/aretw0/scriptflow/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the graph for consistency",
	Long: `Builds the graph in strict mode and walks every suggestion through answer
resolution. Reports unreachable nodes, dead ends, suggestions that resolve to
nothing, suggestions that only resolve fuzzily and routes no suggestion names.

Dead ends and dead suggestions fail the command; --warnings also fails on the rest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, false)
		if err != nil {
			return err
		}
		failOnWarnings, _ := cmd.Flags().GetBool("warnings")
		cfg.Strict = true

		eng, err := cli.NewEngine(cmd.Context(), cfg, logger, cli.EngineOptions{})
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		report := validator.Audit(eng.Graph())
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Graph (%s): %d nodes, start %q\n", eng.Origin, eng.Graph().Len(), eng.Graph().StartID())
		fmt.Fprint(out, report.String())

		switch {
		case report.Blocking() > 0:
			return fmt.Errorf("validation failed: %d blocking issue(s)", report.Blocking())
		case failOnWarnings && !report.Clean():
			return fmt.Errorf("validation failed: %d issue(s)", report.Issues())
		}
		fmt.Fprintln(out, "Graph is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("warnings", false, "Fail on any finding, not just blocking ones")
}
