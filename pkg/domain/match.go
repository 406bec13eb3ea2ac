package domain

// MatchKind tells which rule resolved an answer.
type MatchKind string

const (
	MatchNone       MatchKind = ""
	MatchExact      MatchKind = "exact"
	MatchFuzzy      MatchKind = "fuzzy"
	MatchSequential MatchKind = "sequential"
)
