package importer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
)

const maxAnswerLength = 50

// TerminalText is the prompt of the terminal node appended to imported scripts.
const TerminalText = "That's the end of the script."

var (
	numberedLine = regexp.MustCompile(`^(\d+)[.)]\s*(.+)$`)
	shortAnswer  = regexp.MustCompile(`^[A-Za-z ]+\.$`)
	flowNote     = regexp.MustCompile(`(?i)if they (?:say|answer)\s+["'“”]?([^"'“”,]+?)["'“”]?\s*[,\s]\s*(?:proceed to|go to|ask them question)\s*Q?(\d+)`)
)

// FallbackAnswers are attached to nodes with no flow annotation pointing at a parsed node.
var FallbackAnswers = []string{"Yes", "No", "Not sure"}

type window struct {
	node  domain.Node
	lines []string
}

// Parse extracts nodes from text. It returns a definition without nodes when
// no numbered line is found.
func Parse(text string) graph.Definition {
	windows := split(text)
	if len(windows) == 0 {
		return graph.Definition{}
	}

	def := graph.Definition{
		StartID:    windows[0].node.ID,
		TerminalID: domain.DefaultTerminalNodeID,
	}
	for _, w := range windows {
		def.Nodes = append(def.Nodes, mine(w))
	}

	ids := numericOrder(def.Nodes)
	parsed := make(map[string]bool, len(def.Nodes))
	for _, n := range def.Nodes {
		parsed[n.ID] = true
	}

	needsTerminal := false
	for i := range def.Nodes {
		n := &def.Nodes[i]
		if leadsSomewhere(n, parsed) {
			continue
		}
		target := nextHigher(ids, n.ID)
		if target == "" {
			target = domain.DefaultTerminalNodeID
			needsTerminal = true
		}
		addFallback(n, target)
	}

	if needsTerminal {
		def.Nodes = append(def.Nodes, domain.Node{
			ID:   domain.DefaultTerminalNodeID,
			Text: TerminalText,
		})
	}
	return def
}

// split groups trimmed non-empty lines into numbered windows.
// A repeated number replaces the earlier node in place.
func split(text string) []window {
	var (
		windows []window
		index   = make(map[string]int)
		current = -1
	)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := numberedLine.FindStringSubmatch(line); m != nil {
			id := strings.TrimLeft(m[1], "0")
			if id == "" {
				id = "0"
			}
			w := window{node: domain.Node{ID: id, Text: strings.TrimSpace(m[2])}}
			if i, seen := index[id]; seen {
				windows[i] = w
				current = i
				continue
			}
			index[id] = len(windows)
			current = len(windows)
			windows = append(windows, w)
			continue
		}
		if current >= 0 {
			windows[current].lines = append(windows[current].lines, line)
		}
	}
	return windows
}

// mine runs both passes over a node's content window.
func mine(w window) domain.Node {
	n := w.node
	for _, line := range w.lines {
		if len(line) < maxAnswerLength && shortAnswer.MatchString(line) {
			addAnswer(&n, strings.TrimSpace(strings.TrimSuffix(line, ".")))
		}
	}
	for _, line := range w.lines {
		for _, m := range flowNote.FindAllStringSubmatch(line, -1) {
			answer := strings.TrimSpace(m[1])
			target := strings.TrimLeft(m[2], "0")
			if answer == "" || target == "" {
				continue
			}
			addAnswer(&n, answer)
			setTransition(&n, answer, target)
		}
	}
	return n
}

// leadsSomewhere reports whether any annotation of n points at a parsed node.
func leadsSomewhere(n *domain.Node, parsed map[string]bool) bool {
	for _, t := range n.Transitions {
		if parsed[t.ToNodeID] {
			return true
		}
	}
	return false
}

// addFallback routes the fallback answers to target. Annotations whose
// target was never parsed stay in place so strict builds still report them;
// a fallback answer equal to one of them (ignoring case) is skipped.
func addFallback(n *domain.Node, target string) {
	for _, a := range FallbackAnswers {
		if hasTransitionFold(n, a) {
			continue
		}
		addAnswer(n, a)
		n.Transitions = append(n.Transitions, domain.Transition{Answer: a, ToNodeID: target})
	}
}

func hasTransitionFold(n *domain.Node, answer string) bool {
	for _, t := range n.Transitions {
		if strings.EqualFold(t.Answer, answer) {
			return true
		}
	}
	return false
}

func addAnswer(n *domain.Node, answer string) {
	if answer != "" && !n.HasAnswer(answer) {
		n.Answers = append(n.Answers, answer)
	}
}

// setTransition keeps the first position of an answer and the last target, like a map assignment.
func setTransition(n *domain.Node, answer, target string) {
	for i := range n.Transitions {
		if n.Transitions[i].Answer == answer {
			n.Transitions[i].ToNodeID = target
			return
		}
	}
	n.Transitions = append(n.Transitions, domain.Transition{Answer: answer, ToNodeID: target})
}

func numericOrder(nodes []domain.Node) []int {
	ids := make([]int, 0, len(nodes))
	for _, n := range nodes {
		if v, err := strconv.Atoi(n.ID); err == nil {
			ids = append(ids, v)
		}
	}
	sort.Ints(ids)
	return ids
}

// nextHigher returns the smallest parsed id greater than id.
func nextHigher(sorted []int, id string) string {
	v, err := strconv.Atoi(id)
	if err != nil {
		return ""
	}
	i := sort.SearchInts(sorted, v+1)
	if i == len(sorted) {
		return ""
	}
	return strconv.Itoa(sorted[i])
}
