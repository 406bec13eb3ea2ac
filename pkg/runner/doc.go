/*
Package runner implements the interactive chat loop of a scriptflow session.

It is the bridge between a session.Session and the outside world. The runner
renders prompts, reads answers through a pluggable IOHandler, handles chat
commands and persists the session after every turn when a store is set.

# Key Components

  - Runner: the loop. One turn at a time, until the terminal node, EOF or cancellation.
  - IOHandler: decouples how prompts are shown and answers are read.
  - TextHandler: numbered suggestions for interactive terminals.
  - JSONHandler: one JSON object per line for headless hosts.

# Usage

	r := runner.New(
		runner.WithHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithStore(store),
	)

	if err := r.Run(ctx, sess); err != nil {
		log.Fatal(err)
	}
*/
package runner
