package schema

// Validate checks table-level rules that the codecs cannot see on their own:
// ids are present and unique, questions are not empty and next_questions
// carry no empty answer or target. Graph-level rules (dangling targets) are
// left to graph.Build.
func Validate(t Table) error {
	var c collector
	seen := make(map[string]bool, len(t.Entries))
	for _, e := range t.Entries {
		if e.ID == "" {
			c.add("", "", "entry without id", 0)
			continue
		}
		if seen[e.ID] {
			c.add(e.ID, "", "duplicate id", 0)
		}
		seen[e.ID] = true

		if e.Question == "" {
			c.add(e.ID, KeyQuestion, "required", 0)
		}
		for _, r := range e.Routes {
			if r.Answer == "" {
				c.add(e.ID, KeyNextQuestions, "empty answer", 0)
			}
			if r.To == "" {
				c.add(e.ID, KeyNextQuestions, "empty target for answer "+r.Answer, 0)
			}
		}
	}
	return c.err()
}
