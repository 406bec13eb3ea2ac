package loam

// NodeMetadata is the frontmatter of one node file. The markdown body is the question.
// It uses "mapstructure" tags to match the frontmatter keys.
type NodeMetadata struct {
	ID string `json:"id" mapstructure:"id" yaml:"id,omitempty"`

	// Order positions the node in the script; files without it follow, sorted by id.
	Order int `json:"order" mapstructure:"order" yaml:"order,omitempty"`

	Suggestions []string `json:"suggestions" mapstructure:"suggestions" yaml:"suggestions,omitempty"`

	// NextQuestions is a list, not a mapping, so the authored order survives decoding.
	NextQuestions []Route `json:"next_questions" mapstructure:"next_questions" yaml:"next_questions,omitempty"`

	Context string `json:"context" mapstructure:"context" yaml:"context,omitempty"`
}

// Route is one answer-labeled transition in frontmatter.
type Route struct {
	Answer string `json:"answer" mapstructure:"answer" yaml:"answer"`
	To     string `json:"to" mapstructure:"to" yaml:"to"`
}
