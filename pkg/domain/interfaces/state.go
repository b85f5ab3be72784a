package interfaces

import (
	"context"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

type StateRepository interface {
	// Get retrieves the current state for a session. Returns ErrNotFound
	// (of the backing implementation) when no state has been persisted yet.
	Get(ctx context.Context, sessionID types.SessionID) (*model.SessionState, error)

	// Put persists the state for a session, fully replacing any prior state
	// for that key. Last writer wins; there is no version check.
	Put(ctx context.Context, state *model.SessionState) error

	// Delete removes the state for a session
	Delete(ctx context.Context, sessionID types.SessionID) error
}
