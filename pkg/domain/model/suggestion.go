package model

import (
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

// Suggestion is one member of the closed suggestion union. Which fields are
// meaningful depends on Type: question and next-step carry Text, ranking
// carries Basis and Items. Validation of the per-variant contract happens at
// the generation boundary; a Suggestion held in a SessionState is always valid.
type Suggestion struct {
	Type  types.SuggestionType `json:"type" firestore:"type"`
	Text  string               `json:"text,omitempty" firestore:"text,omitempty"`
	Basis string               `json:"basis,omitempty" firestore:"basis,omitempty"`
	Items []RankingItem        `json:"items,omitempty" firestore:"items,omitempty"`
}

// RankingItem is one entry of a ranking suggestion
type RankingItem struct {
	EntityTitle string `json:"entityTitle" firestore:"entity_title"`
	Reason      string `json:"reason" firestore:"reason"`
}

// IsWellFormed reports whether the suggestion satisfies its variant's field
// contract. Ranking items must be non-empty and each item fully populated.
func (x Suggestion) IsWellFormed() bool {
	switch x.Type {
	case types.SuggestionQuestion, types.SuggestionNextStep:
		return x.Text != ""
	case types.SuggestionRanking:
		if x.Basis == "" || len(x.Items) == 0 {
			return false
		}
		for _, item := range x.Items {
			if item.EntityTitle == "" || item.Reason == "" {
				return false
			}
		}
		return true
	}
	return false
}
