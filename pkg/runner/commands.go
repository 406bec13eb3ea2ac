package runner

import (
	"strconv"
	"strings"
)

type command struct {
	name string
	arg  string
}

const helpText = `Commands:
  /history [n]  show the last n answers (all by default)
  /jump <id>    go to a node
  /reset        start over
  /summary      show where you are
  /quit         leave the chat
Type an answer or the number of a suggestion.`

// parseCommand recognizes slash commands. Anything else is an answer.
func parseCommand(line string) (command, bool) {
	if !strings.HasPrefix(line, "/") {
		return command{}, false
	}
	fields := strings.Fields(strings.TrimPrefix(line, "/"))
	if len(fields) == 0 {
		return command{}, false
	}
	return command{
		name: strings.ToLower(fields[0]),
		arg:  strings.TrimSpace(strings.Join(fields[1:], " ")),
	}, true
}

// pickSuggestion maps "2" to the second suggestion when numbering is on.
func pickSuggestion(answers []string, line string) string {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(answers) {
		return line
	}
	return answers[n-1]
}
