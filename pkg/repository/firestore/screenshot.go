package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

const screenshotCollection = "screenshots"

type screenshotDoc struct {
	ID                     string            `firestore:"id"`
	SessionID              string            `firestore:"session_id"`
	ImageKey               string            `firestore:"image_key"`
	RawText                string            `firestore:"raw_text"`
	Summary                string            `firestore:"summary"`
	Category               string            `firestore:"category"`
	Entities               []entityDoc       `firestore:"entities"`
	SuggestedNotebookTitle *string           `firestore:"suggested_notebook_title"`
	CreatedAt              time.Time         `firestore:"created_at"`
}

type entityDoc struct {
	Type       string            `firestore:"type"`
	Title      *string           `firestore:"title"`
	Attributes map[string]string `firestore:"attributes"`
}

func toEntityDocs(entities []model.Entity) []entityDoc {
	docs := make([]entityDoc, 0, len(entities))
	for _, e := range entities {
		docs = append(docs, entityDoc{
			Type:       e.Type,
			Title:      e.Title,
			Attributes: e.Attributes,
		})
	}
	return docs
}

func toEntityModels(docs []entityDoc) []model.Entity {
	entities := make([]model.Entity, 0, len(docs))
	for _, d := range docs {
		entities = append(entities, model.Entity{
			Type:       d.Type,
			Title:      d.Title,
			Attributes: d.Attributes,
		})
	}
	return entities
}

func toScreenshotDoc(s *model.Screenshot) *screenshotDoc {
	return &screenshotDoc{
		ID:                     string(s.ID),
		SessionID:              string(s.SessionID),
		ImageKey:               s.ImageKey,
		RawText:                s.Analysis.RawText,
		Summary:                s.Analysis.Summary,
		Category:               s.Analysis.Category.String(),
		Entities:               toEntityDocs(s.Analysis.Entities),
		SuggestedNotebookTitle: s.Analysis.SuggestedNotebookTitle,
		CreatedAt:              s.CreatedAt,
	}
}

func (d *screenshotDoc) toModel() *model.Screenshot {
	return &model.Screenshot{
		ID:        types.ScreenshotID(d.ID),
		SessionID: types.SessionID(d.SessionID),
		ImageKey:  d.ImageKey,
		Analysis: model.ScreenshotAnalysis{
			RawText:                d.RawText,
			Summary:                d.Summary,
			Category:               types.SessionCategory(d.Category).Normalize(),
			Entities:               toEntityModels(d.Entities),
			SuggestedNotebookTitle: d.SuggestedNotebookTitle,
		},
		CreatedAt: d.CreatedAt,
	}
}

type screenshotRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newScreenshotRepository(client *firestore.Client) *screenshotRepository {
	return &screenshotRepository{client: client}
}

func (r *screenshotRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + screenshotCollection)
}

func (r *screenshotRepository) Add(ctx context.Context, screenshot *model.Screenshot) error {
	if screenshot.ID == "" {
		screenshot.ID = types.NewScreenshotID()
	}
	if screenshot.CreatedAt.IsZero() {
		screenshot.CreatedAt = time.Now().UTC()
	}

	docRef := r.collection().Doc(string(screenshot.ID))
	if _, err := docRef.Set(ctx, toScreenshotDoc(screenshot)); err != nil {
		return goerr.Wrap(err, "failed to add screenshot",
			goerr.V("sessionID", screenshot.SessionID), goerr.V("screenshotID", screenshot.ID))
	}
	return nil
}

func (r *screenshotRepository) Get(ctx context.Context, sessionID types.SessionID, id types.ScreenshotID) (*model.Screenshot, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "screenshot not found", goerr.V("screenshotID", id))
		}
		return nil, goerr.Wrap(err, "failed to get screenshot", goerr.V("screenshotID", id))
	}

	var d screenshotDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal screenshot", goerr.V("screenshotID", id))
	}
	if d.SessionID != string(sessionID) {
		return nil, goerr.Wrap(ErrNotFound, "screenshot not found in session",
			goerr.V("sessionID", sessionID), goerr.V("screenshotID", id))
	}
	return d.toModel(), nil
}

func (r *screenshotRepository) ListBySession(ctx context.Context, sessionID types.SessionID) ([]*model.Screenshot, error) {
	iter := r.collection().
		Where("session_id", "==", string(sessionID)).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var screenshots []*model.Screenshot
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate screenshots", goerr.V("sessionID", sessionID))
		}

		var d screenshotDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal screenshot", goerr.V("docID", doc.Ref.ID))
		}
		screenshots = append(screenshots, d.toModel())
	}

	return screenshots, nil
}
