package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/scriptflow"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of scriptflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "scriptflow version %s\n", strings.TrimSpace(scriptflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
