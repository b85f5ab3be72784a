package interfaces

import (
	"context"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

type SessionRepository interface {
	// Create persists a new session, assigning an ID and timestamps in
	// place when the caller left them unset
	Create(ctx context.Context, session *model.Session) error

	// Get retrieves a session by ID
	Get(ctx context.Context, id types.SessionID) (*model.Session, error)

	// ListByUser retrieves all sessions owned by the user
	ListByUser(ctx context.Context, userID types.UserID) ([]*model.Session, error)

	// Touch updates the session's UpdatedAt timestamp
	Touch(ctx context.Context, id types.SessionID) error

	// Delete deletes a session by ID
	Delete(ctx context.Context, id types.SessionID) error
}
