package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/scriptflow/internal/cli"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the loaded graph as an authored table",
	Long: `Loads the graph the same way chat does (source, flow, then the built-in table)
and writes it as YAML, JSON, or a markdown directory (--format md --out <dir>).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, false)
		if err != nil {
			return err
		}
		outPath, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")

		eng, err := cli.NewEngine(cmd.Context(), cfg, logger, cli.EngineOptions{})
		if err != nil {
			return err
		}
		def := eng.Graph().Definition()

		if format == cli.FormatMarkdown {
			if outPath == "" {
				return errors.New("--format md requires --out <dir>")
			}
			n, err := cli.WriteMarkdown(def, outPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d nodes to %s\n", n, outPath)
			return nil
		}

		data, err := cli.EncodeTable(def, format)
		if err != nil {
			return err
		}
		if outPath == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		return os.WriteFile(outPath, data, 0o644)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("out", "o", "", "Output file or directory (default stdout)")
	exportCmd.Flags().String("format", "yaml", "Output format: yaml, json or md")
}
