package main

import (
	"github.com/aretw0/scriptflow/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run an interactive conversation",
	Long: `Starts a conversation at the entry node and reads answers from stdin.

Type an answer, the number of a suggestion, or a command:
/history [n], /jump <id>, /reset, /summary, /help, /quit.

With --session the conversation is saved after every turn and resumed on the next run.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	addChatFlags(chatCmd)

	// chat is the default command.
	addChatFlags(rootCmd)
	rootCmd.RunE = runChat
}

func addChatFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("session", "s", "", "Persistent session id to resume or create")
	cmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	cmd.Flags().Bool("plain", false, "Disable the banner and markdown rendering")
	cmd.Flags().Bool("context", false, "Show node annotations under each prompt")
	cmd.Flags().String("entry", "", "Start at this node instead of the graph's entry")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, true)
	if err != nil {
		return err
	}
	sessionID, _ := cmd.Flags().GetString("session")
	jsonMode, _ := cmd.Flags().GetBool("json")
	plain, _ := cmd.Flags().GetBool("plain")
	showContext, _ := cmd.Flags().GetBool("context")
	entry, _ := cmd.Flags().GetString("entry")

	ctx := cli.NewSignalContext(cmd.Context())
	defer ctx.Cancel()

	eng, err := cli.NewEngine(ctx, cfg, logger, cli.EngineOptions{Entry: entry})
	if err != nil {
		return err
	}

	backend, err := cli.OpenBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	err = cli.RunChat(ctx, eng, backend.Store, cli.ChatOptions{
		SessionID:   sessionID,
		JSON:        jsonMode,
		Plain:       plain,
		ShowContext: showContext,
		In:          cmd.InOrStdin(),
		Out:         cmd.OutOrStdout(),
		Logger:      logger,
	})
	if sig := ctx.Signal(); sig != nil {
		logger.Info("Chat interrupted", "signal", sig.String())
	}
	return err
}
