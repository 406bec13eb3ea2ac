package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/scriptflow/internal/cli"
	"github.com/aretw0/scriptflow/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scriptflow",
	Short: "Scriptflow walks branching conversation scripts",
	Long: `Scriptflow turns a conversation script (a plain-text outline or an authored
YAML/JSON table) into a graph of prompts and guides a conversation through it.

Running scriptflow without a subcommand starts an interactive chat.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands). They override scriptflow.yaml and SCRIPTFLOW_* variables.
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default ./scriptflow.yaml when present)")
	pf.StringP("flow", "f", "", "Authored table (.yaml/.json) or markdown directory")
	pf.String("source", "", "Plain-text script to import (wins over --flow when readable)")
	pf.Bool("strict", true, "Reject graphs with dangling transitions")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("session-dir", "", "Directory for persistent sessions")
	pf.String("redis-addr", "", "Redis address for the shared session store")
}

// loadConfig resolves the configuration for cmd: defaults, file, environment, then flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if flags.Changed("flow") {
		cfg.Flow, _ = flags.GetString("flow")
	}
	if flags.Changed("source") {
		cfg.Source, _ = flags.GetString("source")
	}
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("session-dir") {
		cfg.SessionDir, _ = flags.GetString("session-dir")
	}
	if flags.Changed("redis-addr") {
		cfg.Redis.Addr, _ = flags.GetString("redis-addr")
	}
	return cfg, nil
}

// setup loads the configuration and the matching logger.
func setup(cmd *cobra.Command, quiet bool) (config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := cli.NewLogger(cfg, quiet)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}
