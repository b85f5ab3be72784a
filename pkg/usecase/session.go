package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
	"github.com/snapnote-lab/snapnote/pkg/repository/firestore"
	"github.com/snapnote-lab/snapnote/pkg/repository/memory"
	"github.com/snapnote-lab/snapnote/pkg/service/imagestore"
	"github.com/snapnote-lab/snapnote/pkg/utils/logging"
)

func isNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) ||
		errors.Is(err, firestore.ErrNotFound) ||
		errors.Is(err, imagestore.ErrNotFound)
}

// SessionDetail bundles a session with its derived data for presentation
type SessionDetail struct {
	Session     *model.Session
	State       *model.SessionState
	Screenshots []*model.Screenshot
}

func (uc *UseCases) CreateSession(ctx context.Context, userID types.UserID, name, description string) (*model.Session, error) {
	if name == "" {
		return nil, goerr.New("session name is required")
	}

	session := &model.Session{
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	if err := uc.repo.Session().Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (uc *UseCases) ListSessions(ctx context.Context, userID types.UserID) ([]*model.Session, error) {
	return uc.repo.Session().ListByUser(ctx, userID)
}

// getOwnedSession loads a session and checks the caller owns it
func (uc *UseCases) getOwnedSession(ctx context.Context, userID types.UserID, sessionID types.SessionID) (*model.Session, error) {
	session, err := uc.repo.Session().Get(ctx, sessionID)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrSessionNotFound, "no such session", goerr.V("sessionID", sessionID))
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, goerr.Wrap(ErrAccessDenied, "caller does not own this session", goerr.V("sessionID", sessionID))
	}
	return session, nil
}

func (uc *UseCases) GetSession(ctx context.Context, userID types.UserID, sessionID types.SessionID) (*SessionDetail, error) {
	session, err := uc.getOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	screenshots, err := uc.repo.Screenshot().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state, err := uc.repo.State().Get(ctx, sessionID)
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		// no regeneration has happened yet
		state = nil
	}

	return &SessionDetail{
		Session:     session,
		State:       state,
		Screenshots: screenshots,
	}, nil
}

func (uc *UseCases) DeleteSession(ctx context.Context, userID types.UserID, sessionID types.SessionID) error {
	if _, err := uc.getOwnedSession(ctx, userID, sessionID); err != nil {
		return err
	}

	screenshots, err := uc.repo.Screenshot().ListBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	if uc.images != nil {
		for _, shot := range screenshots {
			if shot.ImageKey == "" {
				continue
			}
			if err := uc.images.Delete(ctx, shot.ImageKey); err != nil {
				logging.From(ctx).Warn("failed to delete screenshot image",
					"sessionID", sessionID, "key", shot.ImageKey, "error", err)
			}
		}
	}

	if err := uc.repo.State().Delete(ctx, sessionID); err != nil {
		return err
	}
	return uc.repo.Session().Delete(ctx, sessionID)
}

// AddScreenshot analyzes the image, stores its bytes and appends the
// resulting immutable analysis record to the session.
func (uc *UseCases) AddScreenshot(ctx context.Context, userID types.UserID, sessionID types.SessionID, data []byte, mimeType string) (*model.Screenshot, error) {
	if uc.analyzer == nil {
		return nil, goerr.Wrap(ErrNotConfigured, "no screenshot analyzer")
	}
	if len(data) == 0 {
		return nil, goerr.New("image data is required")
	}

	if _, err := uc.getOwnedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	analysis, err := uc.analyzer.Analyze(ctx, data, mimeType)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to analyze screenshot", goerr.V("sessionID", sessionID))
	}

	screenshot := &model.Screenshot{
		ID:        types.NewScreenshotID(),
		SessionID: sessionID,
		Analysis:  *analysis,
	}

	if uc.images != nil {
		key := fmt.Sprintf("sessions/%s/%s", sessionID, screenshot.ID)
		if err := uc.images.Put(ctx, key, mimeType, data); err != nil {
			return nil, goerr.Wrap(err, "failed to store screenshot image", goerr.V("key", key))
		}
		screenshot.ImageKey = key
	}

	if err := uc.repo.Screenshot().Add(ctx, screenshot); err != nil {
		return nil, err
	}
	if err := uc.repo.Session().Touch(ctx, sessionID); err != nil {
		return nil, err
	}

	return screenshot, nil
}

// GetScreenshotImage returns the stored image bytes for one screenshot
func (uc *UseCases) GetScreenshotImage(ctx context.Context, userID types.UserID, sessionID types.SessionID, screenshotID types.ScreenshotID) ([]byte, string, error) {
	if uc.images == nil {
		return nil, "", goerr.Wrap(ErrNotConfigured, "no image store")
	}

	if _, err := uc.getOwnedSession(ctx, userID, sessionID); err != nil {
		return nil, "", err
	}

	screenshot, err := uc.repo.Screenshot().Get(ctx, sessionID, screenshotID)
	if err != nil {
		if isNotFound(err) {
			return nil, "", goerr.Wrap(ErrScreenshotNotFound, "no such screenshot", goerr.V("screenshotID", screenshotID))
		}
		return nil, "", err
	}
	if screenshot.ImageKey == "" {
		return nil, "", goerr.Wrap(ErrScreenshotNotFound, "screenshot has no stored image")
	}

	data, mimeType, err := uc.images.Get(ctx, screenshot.ImageKey)
	if err != nil {
		if isNotFound(err) {
			return nil, "", goerr.Wrap(ErrScreenshotNotFound, "image object is gone",
				goerr.V("key", screenshot.ImageKey))
		}
		return nil, "", err
	}
	return data, mimeType, nil
}
