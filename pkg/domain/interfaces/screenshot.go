package interfaces

import (
	"context"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

type ScreenshotRepository interface {
	// Add appends a screenshot to the session, assigning an ID and
	// creation time in place when the caller left them unset.
	// Screenshot records are immutable once written.
	Add(ctx context.Context, screenshot *model.Screenshot) error

	// Get retrieves a screenshot by ID
	Get(ctx context.Context, sessionID types.SessionID, id types.ScreenshotID) (*model.Screenshot, error)

	// ListBySession retrieves all screenshots of a session ordered by
	// creation time, oldest first
	ListBySession(ctx context.Context, sessionID types.SessionID) ([]*model.Screenshot, error)
}
