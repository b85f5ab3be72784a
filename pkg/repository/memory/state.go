package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

type stateRepository struct {
	mu     sync.RWMutex
	states map[types.SessionID]*model.SessionState
}

func newStateRepository() *stateRepository {
	return &stateRepository{
		states: make(map[types.SessionID]*model.SessionState),
	}
}

func (r *stateRepository) Get(ctx context.Context, sessionID types.SessionID) (*model.SessionState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.states[sessionID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "session state not found", goerr.V("sessionID", sessionID))
	}

	return state.Clone(), nil
}

func (r *stateRepository) Put(ctx context.Context, state *model.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := state.Clone()
	stored.UpdatedAt = time.Now().UTC()
	r.states[state.SessionID] = stored
	return nil
}

func (r *stateRepository) Delete(ctx context.Context, sessionID types.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.states, sessionID)
	return nil
}
