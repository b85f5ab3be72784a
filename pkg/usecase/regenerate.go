package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
	"github.com/snapnote-lab/snapnote/pkg/service/reconcile"
)

// Regenerate re-derives the session state from its full screenshot history
// plus the prior state and persists the result, replacing any prior state for
// the session. Generation failures degrade to the neutral state, so the
// persisted result is always structurally valid.
func (uc *UseCases) Regenerate(ctx context.Context, userID types.UserID, sessionID types.SessionID) (*model.SessionState, error) {
	if uc.reconciler == nil {
		return nil, goerr.Wrap(ErrNotConfigured, "no reconciler")
	}

	if _, err := uc.getOwnedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	screenshots, err := uc.repo.Screenshot().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(screenshots) == 0 {
		return nil, goerr.Wrap(ErrNoScreenshots, "nothing to regenerate from", goerr.V("sessionID", sessionID))
	}

	prior, err := uc.repo.State().Get(ctx, sessionID)
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		prior = nil
	}

	state, err := uc.reconciler.Reconcile(ctx, reconcile.Input{
		SessionID:   sessionID,
		PriorState:  prior,
		Screenshots: screenshots,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.repo.State().Put(ctx, state); err != nil {
		return nil, err
	}
	if err := uc.repo.Session().Touch(ctx, sessionID); err != nil {
		return nil, err
	}

	return state, nil
}

// Reconcile runs one stateless reconciliation over caller-supplied prior
// state and screenshot analyses. Nothing is persisted.
func (uc *UseCases) Reconcile(ctx context.Context, input reconcile.Input) (*model.SessionState, error) {
	if uc.reconciler == nil {
		return nil, goerr.Wrap(ErrNotConfigured, "no reconciler")
	}
	return uc.reconciler.Reconcile(ctx, input)
}
