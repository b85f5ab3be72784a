package types

// SuggestionType is the tag of the closed suggestion union.
// Anything outside the three known variants is dropped during validation.
type SuggestionType string

const (
	SuggestionQuestion SuggestionType = "question"
	SuggestionRanking  SuggestionType = "ranking"
	SuggestionNextStep SuggestionType = "next-step"
)

// IsValid reports whether the tag names a known variant
func (x SuggestionType) IsValid() bool {
	switch x {
	case SuggestionQuestion, SuggestionRanking, SuggestionNextStep:
		return true
	}
	return false
}

func (x SuggestionType) String() string {
	return string(x)
}
