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

const sessionCollection = "sessions"

type sessionDoc struct {
	ID          string    `firestore:"id"`
	UserID      string    `firestore:"user_id"`
	Name        string    `firestore:"name"`
	Description string    `firestore:"description"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func toSessionDoc(s *model.Session) *sessionDoc {
	return &sessionDoc{
		ID:          string(s.ID),
		UserID:      string(s.UserID),
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (d *sessionDoc) toModel() *model.Session {
	return &model.Session{
		ID:          types.SessionID(d.ID),
		UserID:      types.UserID(d.UserID),
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type sessionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSessionRepository(client *firestore.Client) *sessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + sessionCollection)
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	if session.ID == "" {
		session.ID = types.NewSessionID()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	docRef := r.collection().Doc(string(session.ID))
	if _, err := docRef.Set(ctx, toSessionDoc(session)); err != nil {
		return goerr.Wrap(err, "failed to create session", goerr.V("sessionID", session.ID))
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id types.SessionID) (*model.Session, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V("sessionID", id))
		}
		return nil, goerr.Wrap(err, "failed to get session", goerr.V("sessionID", id))
	}

	var d sessionDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal session", goerr.V("sessionID", id))
	}
	return d.toModel(), nil
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Session, error) {
	iter := r.collection().
		Where("user_id", "==", string(userID)).
		OrderBy("updated_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var sessions []*model.Session
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate sessions", goerr.V("userID", userID))
		}

		var d sessionDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal session", goerr.V("docID", doc.Ref.ID))
		}
		sessions = append(sessions, d.toModel())
	}

	return sessions, nil
}

func (r *sessionRepository) Touch(ctx context.Context, id types.SessionID) error {
	docRef := r.collection().Doc(string(id))
	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "session not found", goerr.V("sessionID", id))
		}
		return goerr.Wrap(err, "failed to touch session", goerr.V("sessionID", id))
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id types.SessionID) error {
	if _, err := r.collection().Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete session", goerr.V("sessionID", id))
	}
	return nil
}
