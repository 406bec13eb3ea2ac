package scriptflow_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/scriptflow"
	"github.com/aretw0/scriptflow/pkg/adapters/memory"
	"github.com/aretw0/scriptflow/pkg/domain"
)

// ExampleNew_memory runs a conversation over an in-memory graph.
func ExampleNew_memory() {
	loader, err := memory.NewFromNodes(
		domain.Node{
			ID:      "start",
			Text:    "Hello! Do you want to proceed?",
			Answers: []string{"Yes", "No"},
			Transitions: []domain.Transition{
				{Answer: "Yes", ToNodeID: "yes"},
				{Answer: "No", ToNodeID: "complete"},
			},
		},
		domain.Node{
			ID:   "yes",
			Text: "Great! You moved forward.",
		},
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	engine, err := scriptflow.New(ctx, scriptflow.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	sess := engine.NewSession()
	prompt, _ := scriptflow.GetCurrentPrompt(sess)
	fmt.Println(prompt.Text)

	// Fuzzy match: "yes please" contains "Yes".
	fmt.Println(scriptflow.SubmitAnswer(ctx, sess, "yes please"))

	prompt, _ = scriptflow.GetCurrentPrompt(sess)
	fmt.Println(prompt.Text)
	// Output:
	// Hello! Do you want to proceed?
	// true
	// Great! You moved forward.
}

// ExampleGetHistory walks the built-in script.
func ExampleGetHistory() {
	ctx := context.Background()
	engine, err := scriptflow.New(ctx)
	if err != nil {
		log.Fatal(err)
	}

	sess := engine.NewSession()
	scriptflow.SubmitAnswer(ctx, sess, "Sure")
	scriptflow.SubmitAnswer(ctx, sess, "Reincarnation")

	for _, rec := range scriptflow.GetHistory(sess) {
		fmt.Printf("%s --%q--> %s (%s)\n", rec.NodeID, rec.Answer, rec.NextNodeID, rec.Match)
	}
	fmt.Println(sess.Summary())
	// Output:
	// start --"Sure"--> 1 (exact)
	// 1 --"Reincarnation"--> 2 (exact)
	// 89 prompts loaded, current: 2
}
