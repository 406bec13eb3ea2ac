package main

import (
	"fmt"
	"os"

	"github.com/aretw0/scriptflow/internal/cli"
	"github.com/aretw0/scriptflow/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the flow graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the prompts and their routes.
With --session the nodes visited by that session and its cursor are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, false)
		if err != nil {
			return err
		}
		sessionID, _ := cmd.Flags().GetString("session")
		outPath, _ := cmd.Flags().GetString("out")

		eng, err := cli.NewEngine(cmd.Context(), cfg, logger, cli.EngineOptions{})
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if sessionID != "" {
			backend, err := cli.OpenBackend(cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			state, err := backend.Store.Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("error loading session '%s': %w", sessionID, err)
			}
			overlay = graph.OverlayFromState(state)
		}

		output := graph.GenerateMermaid(eng.Graph(), overlay)
		if outPath == "" {
			fmt.Fprint(cmd.OutOrStdout(), output)
			return nil
		}
		return os.WriteFile(outPath, []byte(output), 0o644)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Highlight the path of this session")
	graphCmd.Flags().StringP("out", "o", "", "Write the diagram to a file instead of stdout")
}
