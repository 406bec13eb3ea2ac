package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/scriptflow/internal/cli"
	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/aretw0/scriptflow/pkg/schema"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <script.txt>",
	Short: "Convert a plain-text script into an authored table",
	Long: `Parses the numbered prompts, short answers and "go to" hints of a text script
and writes the resulting graph as a YAML (default) or JSON table that can be
edited and passed back with --flow.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup(cmd, false)
		if err != nil {
			return err
		}
		outPath, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")
		if !cmd.Flags().Changed("format") && outPath != "" {
			format = string(schema.FormatFromPath(outPath))
		}

		def, err := cli.ImportScript(cmd.Context(), args[0], logger)
		if err != nil {
			return err
		}
		// Lenient build reports dangling routes without rejecting the import.
		if _, err := graph.Build(def, graph.WithStrict(false), graph.WithLogger(logger)); err != nil {
			return fmt.Errorf("imported graph is unusable: %w", err)
		}

		data, err := cli.EncodeTable(def, format)
		if err != nil {
			return err
		}
		if outPath == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Imported %d prompts from %s into %s\n", len(def.Nodes), filepath.Base(args[0]), outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	importCmd.Flags().String("format", "yaml", "Table format: yaml or json")
}
