package importer

import (
	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
)

// EchoLimit caps how much raw text the synthetic conversation shows.
const EchoLimit = 1000

// Synthetic builds the three-node conversation used when text has no
// recognizable structure. The third prompt echoes the start of the text.
func Synthetic(text string) graph.Definition {
	echo := []rune(text)
	if len(echo) > EchoLimit {
		echo = echo[:EchoLimit]
	}

	return graph.Definition{
		StartID: "1",
		Nodes: []domain.Node{
			{
				ID:      "1",
				Text:    "I've loaded your script, but couldn't parse the question structure automatically. Please provide your response to the script content.",
				Answers: []string{"Yes", "No", "Maybe", "I need more information"},
				Transitions: []domain.Transition{
					{Answer: "Yes", ToNodeID: "2"},
					{Answer: "No", ToNodeID: "2"},
					{Answer: "Maybe", ToNodeID: "2"},
					{Answer: "I need more information", ToNodeID: "2"},
				},
			},
			{
				ID:      "2",
				Text:    "Thank you for your response. Would you like to review the raw script content?",
				Answers: []string{"Yes, show me the content", "No, that's all", "Start over"},
				Transitions: []domain.Transition{
					{Answer: "Yes, show me the content", ToNodeID: "3"},
					{Answer: "No, that's all", ToNodeID: "1"},
					{Answer: "Start over", ToNodeID: "1"},
				},
			},
			{
				ID:      "3",
				Text:    "Here's the content I extracted from your script:\n\n" + string(echo) + "...",
				Answers: []string{"Start over", "That's helpful"},
				Transitions: []domain.Transition{
					{Answer: "Start over", ToNodeID: "1"},
					{Answer: "That's helpful", ToNodeID: "1"},
				},
			},
		},
	}
}
