package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

func strPtr(s string) *string { return &s }

func TestEntityClone(t *testing.T) {
	original := model.Entity{
		Type:  "hotel",
		Title: strPtr("Hotel Azul"),
		Attributes: map[string]string{
			"price":  "$220/night",
			"rating": "4.5",
		},
	}

	cloned := original.Clone()
	cloned.Attributes["price"] = "$999/night"
	*cloned.Title = "Hotel Rojo"

	gt.Value(t, original.Attributes["price"]).Equal("$220/night")
	gt.Value(t, *original.Title).Equal("Hotel Azul")
}

func TestSuggestionIsWellFormed(t *testing.T) {
	tests := []struct {
		name  string
		input model.Suggestion
		want  bool
	}{
		{
			name:  "question with text",
			input: model.Suggestion{Type: types.SuggestionQuestion, Text: "Price or location?"},
			want:  true,
		},
		{
			name:  "question without text",
			input: model.Suggestion{Type: types.SuggestionQuestion},
			want:  false,
		},
		{
			name:  "next-step with text",
			input: model.Suggestion{Type: types.SuggestionNextStep, Text: "Filter to free cancellation"},
			want:  true,
		},
		{
			name: "ranking with items",
			input: model.Suggestion{
				Type:  types.SuggestionRanking,
				Basis: "value",
				Items: []model.RankingItem{{EntityTitle: "Hotel Azul", Reason: "best price for the rating"}},
			},
			want: true,
		},
		{
			name:  "ranking with empty items",
			input: model.Suggestion{Type: types.SuggestionRanking, Basis: "price", Items: []model.RankingItem{}},
			want:  false,
		},
		{
			name: "ranking with incomplete item",
			input: model.Suggestion{
				Type:  types.SuggestionRanking,
				Basis: "price",
				Items: []model.RankingItem{{EntityTitle: "Hotel Azul"}},
			},
			want: false,
		},
		{
			name:  "unknown tag",
			input: model.Suggestion{Type: types.SuggestionType("reminder"), Text: "do something"},
			want:  false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, tc.input.IsWellFormed()).Equal(tc.want)
		})
	}
}

func TestNeutralState(t *testing.T) {
	state := model.NeutralState(types.SessionID("s-1"))

	gt.Value(t, state.SessionSummary).Equal("")
	gt.Value(t, state.SessionCategory).Equal(types.CategoryOther)
	gt.Array(t, state.Entities).Length(0)
	gt.Array(t, state.Suggestions).Length(0)
	gt.Value(t, state.SuggestedNotebookTitle).Equal(nil)
}

func TestChatExchangeValidate(t *testing.T) {
	note := "# Hotels\n- Hotel Azul\n- Hotel Rojo"

	t.Run("modified exchange needs a note", func(t *testing.T) {
		ex := &model.ChatExchange{Reply: "Done!", NoteWasModified: true}
		gt.Error(t, ex.Validate(note))
	})

	t.Run("modified exchange with note is valid", func(t *testing.T) {
		ex := &model.ChatExchange{Reply: "Done!", UpdatedNote: "# Hotels\n- Hotel Azul", NoteWasModified: true}
		gt.NoError(t, ex.Validate(note))
	})

	t.Run("unmodified exchange must echo the original", func(t *testing.T) {
		ex := &model.ChatExchange{Reply: "Two hotels.", UpdatedNote: "something else", NoteWasModified: false}
		gt.Error(t, ex.Validate(note))
	})

	t.Run("fallback keeps the note unchanged", func(t *testing.T) {
		ex := model.FallbackExchange(note)
		gt.NoError(t, ex.Validate(note))
		gt.Value(t, ex.UpdatedNote).Equal(note)
		gt.Bool(t, ex.NoteWasModified).False()
	})
}

func TestSessionStateClone(t *testing.T) {
	state := &model.SessionState{
		SessionID:       types.SessionID("s-1"),
		SessionSummary:  "Researching Cabo hotels",
		SessionCategory: types.CategoryTripPlanning,
		Entities: []model.Entity{
			{Type: "hotel", Title: strPtr("Hotel Azul"), Attributes: map[string]string{"price": "$220"}},
		},
		SuggestedNotebookTitle: strPtr("Cabo Trip"),
		Suggestions: []model.Suggestion{
			{Type: types.SuggestionRanking, Basis: "price", Items: []model.RankingItem{{EntityTitle: "Hotel Azul", Reason: "cheapest"}}},
		},
	}

	cloned := state.Clone()
	cloned.Entities[0].Attributes["price"] = "$999"
	cloned.Suggestions[0].Items[0].Reason = "changed"
	*cloned.SuggestedNotebookTitle = "changed"

	gt.Value(t, state.Entities[0].Attributes["price"]).Equal("$220")
	gt.Value(t, state.Suggestions[0].Items[0].Reason).Equal("cheapest")
	gt.Value(t, *state.SuggestedNotebookTitle).Equal("Cabo Trip")
}
