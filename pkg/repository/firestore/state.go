package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

const stateCollection = "session_states"

type stateDoc struct {
	SessionID              string          `firestore:"session_id"`
	SessionSummary         string          `firestore:"session_summary"`
	SessionCategory        string          `firestore:"session_category"`
	Entities               []entityDoc     `firestore:"entities"`
	SuggestedNotebookTitle *string         `firestore:"suggested_notebook_title"`
	Suggestions            []suggestionDoc `firestore:"suggestions"`
	UpdatedAt              time.Time       `firestore:"updated_at"`
}

type suggestionDoc struct {
	Type  string           `firestore:"type"`
	Text  string           `firestore:"text"`
	Basis string           `firestore:"basis"`
	Items []rankingItemDoc `firestore:"items"`
}

type rankingItemDoc struct {
	EntityTitle string `firestore:"entity_title"`
	Reason      string `firestore:"reason"`
}

func toStateDoc(s *model.SessionState) *stateDoc {
	suggestions := make([]suggestionDoc, 0, len(s.Suggestions))
	for _, sg := range s.Suggestions {
		items := make([]rankingItemDoc, 0, len(sg.Items))
		for _, it := range sg.Items {
			items = append(items, rankingItemDoc{EntityTitle: it.EntityTitle, Reason: it.Reason})
		}
		suggestions = append(suggestions, suggestionDoc{
			Type:  string(sg.Type),
			Text:  sg.Text,
			Basis: sg.Basis,
			Items: items,
		})
	}

	return &stateDoc{
		SessionID:              string(s.SessionID),
		SessionSummary:         s.SessionSummary,
		SessionCategory:        s.SessionCategory.String(),
		Entities:               toEntityDocs(s.Entities),
		SuggestedNotebookTitle: s.SuggestedNotebookTitle,
		Suggestions:            suggestions,
		UpdatedAt:              s.UpdatedAt,
	}
}

func (d *stateDoc) toModel() *model.SessionState {
	suggestions := make([]model.Suggestion, 0, len(d.Suggestions))
	for _, sg := range d.Suggestions {
		items := make([]model.RankingItem, 0, len(sg.Items))
		for _, it := range sg.Items {
			items = append(items, model.RankingItem{EntityTitle: it.EntityTitle, Reason: it.Reason})
		}
		suggestions = append(suggestions, model.Suggestion{
			Type:  types.SuggestionType(sg.Type),
			Text:  sg.Text,
			Basis: sg.Basis,
			Items: items,
		})
	}

	return &model.SessionState{
		SessionID:              types.SessionID(d.SessionID),
		SessionSummary:         d.SessionSummary,
		SessionCategory:        types.SessionCategory(d.SessionCategory).Normalize(),
		Entities:               toEntityModels(d.Entities),
		SuggestedNotebookTitle: d.SuggestedNotebookTitle,
		Suggestions:            suggestions,
		UpdatedAt:              d.UpdatedAt,
	}
}

type stateRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newStateRepository(client *firestore.Client) *stateRepository {
	return &stateRepository{client: client}
}

func (r *stateRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + stateCollection)
}

func (r *stateRepository) Get(ctx context.Context, sessionID types.SessionID) (*model.SessionState, error) {
	doc, err := r.collection().Doc(string(sessionID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "session state not found", goerr.V("sessionID", sessionID))
		}
		return nil, goerr.Wrap(err, "failed to get session state", goerr.V("sessionID", sessionID))
	}

	var d stateDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal session state", goerr.V("sessionID", sessionID))
	}
	return d.toModel(), nil
}

// Put replaces the whole state document. Concurrent writers race and the
// last write wins, there is no version check.
func (r *stateRepository) Put(ctx context.Context, state *model.SessionState) error {
	state.UpdatedAt = time.Now().UTC()

	docRef := r.collection().Doc(string(state.SessionID))
	if _, err := docRef.Set(ctx, toStateDoc(state)); err != nil {
		return goerr.Wrap(err, "failed to put session state", goerr.V("sessionID", state.SessionID))
	}
	return nil
}

func (r *stateRepository) Delete(ctx context.Context, sessionID types.SessionID) error {
	if _, err := r.collection().Doc(string(sessionID)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete session state", goerr.V("sessionID", sessionID))
	}
	return nil
}
