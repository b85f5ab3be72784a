package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/snapnote-lab/snapnote/pkg/domain/interfaces"
	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
	"github.com/snapnote-lab/snapnote/pkg/repository/firestore"
	"github.com/snapnote-lab/snapnote/pkg/repository/memory"
)

func runStateRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository, notFound error) {
	t.Helper()

	t.Run("Get before any Put returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.State().Get(ctx, types.NewSessionID())
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, notFound)).True()
	})

	t.Run("Put then Get round-trips the state", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		sessionID := types.NewSessionID()

		title := "Hotel El Ganzo"
		notebook := "Cabo Trip"
		state := &model.SessionState{
			SessionID:       sessionID,
			SessionSummary:  "Comparing boutique hotels in Cabo",
			SessionCategory: types.CategoryTripPlanning,
			Entities: []model.Entity{{
				Type:       "hotel",
				Title:      &title,
				Attributes: map[string]string{"price": "$240"},
			}},
			SuggestedNotebookTitle: &notebook,
			Suggestions: []model.Suggestion{
				{
					Type: types.SuggestionRanking,
					Text: "Ranked by value for money",
					Basis: "price and rating",
					Items: []model.RankingItem{
						{EntityTitle: "Hotel El Ganzo", Reason: "best rating at this price"},
					},
				},
				{
					Type: types.SuggestionQuestion,
					Text: "Do you have a nightly budget in mind?",
				},
			},
		}
		gt.NoError(t, repo.State().Put(ctx, state)).Required()

		got, err := repo.State().Get(ctx, sessionID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.SessionSummary).Equal(state.SessionSummary)
		gt.Value(t, got.SessionCategory).Equal(types.CategoryTripPlanning)
		gt.Array(t, got.Entities).Length(1)
		gt.Value(t, *got.Entities[0].Title).Equal("Hotel El Ganzo")
		gt.Value(t, *got.SuggestedNotebookTitle).Equal("Cabo Trip")
		gt.Array(t, got.Suggestions).Length(2)
		gt.Value(t, got.Suggestions[0].Type).Equal(types.SuggestionRanking)
		gt.Array(t, got.Suggestions[0].Items).Length(1)
		gt.Value(t, got.Suggestions[1].Type).Equal(types.SuggestionQuestion)
		gt.Bool(t, got.UpdatedAt.IsZero()).False()
	})

	t.Run("Put replaces the whole state", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		sessionID := types.NewSessionID()

		title := "Hotel A"
		first := &model.SessionState{
			SessionID:       sessionID,
			SessionSummary:  "first pass",
			SessionCategory: types.CategoryTripPlanning,
			Entities:        []model.Entity{{Type: "hotel", Title: &title}},
			Suggestions: []model.Suggestion{
				{Type: types.SuggestionQuestion, Text: "budget?"},
			},
		}
		gt.NoError(t, repo.State().Put(ctx, first)).Required()

		second := model.NeutralState(sessionID)
		second.SessionSummary = "second pass"
		second.SessionCategory = types.CategoryShopping
		gt.NoError(t, repo.State().Put(ctx, second)).Required()

		got, err := repo.State().Get(ctx, sessionID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.SessionSummary).Equal("second pass")
		gt.Value(t, got.SessionCategory).Equal(types.CategoryShopping)
		gt.Array(t, got.Entities).Length(0)
		gt.Array(t, got.Suggestions).Length(0)
	})

	t.Run("Delete removes the state", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		sessionID := types.NewSessionID()

		gt.NoError(t, repo.State().Put(ctx, model.NeutralState(sessionID))).Required()
		gt.NoError(t, repo.State().Delete(ctx, sessionID)).Required()

		_, err := repo.State().Get(ctx, sessionID)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, notFound)).True()
	})

	t.Run("Delete without a state is not an error", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.State().Delete(ctx, types.NewSessionID()))
	})
}

func TestStateRepository_Memory(t *testing.T) {
	runStateRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	}, memory.ErrNotFound)
}

func TestStateRepository_Firestore(t *testing.T) {
	runStateRepositoryTest(t, newFirestoreRepo, firestore.ErrNotFound)
}
