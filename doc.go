/*
Package scriptflow is a deterministic engine for scripted conversations.

A script is a graph of prompts. Each prompt offers suggested answers and maps
recognized answers to the next prompt. Free-text answers are resolved by an
exact match, then a case-insensitive substring match in authored order, then
a sequential fallback for numbered prompts. An answer that matches nothing
leaves the conversation where it was.

# Sources

The graph comes from the first loader that yields one:

  - a plain-text script run through the heuristic importer (WithSource),
  - an authored table in YAML, JSON or a markdown directory (WithLoader),
  - the embedded default table.

# Usage

	eng, err := scriptflow.New(ctx)
	if err != nil {
		log.Fatal(err)
	}

	sess := eng.NewSession()
	for {
		p, ok := scriptflow.GetCurrentPrompt(sess)
		if !ok {
			break
		}
		fmt.Println(p.Text, p.Answers)

		if !scriptflow.SubmitAnswer(ctx, sess, readLine()) {
			fmt.Println("Sorry?")
		}
	}

Many sessions may share one Engine. A session itself is not safe for
concurrent use; session.Manager serializes turns per session id.
*/
package scriptflow
