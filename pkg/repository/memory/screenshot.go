package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

type screenshotRepository struct {
	mu          sync.RWMutex
	screenshots map[types.SessionID][]*model.Screenshot
}

func newScreenshotRepository() *screenshotRepository {
	return &screenshotRepository{
		screenshots: make(map[types.SessionID][]*model.Screenshot),
	}
}

func (r *screenshotRepository) Add(ctx context.Context, screenshot *model.Screenshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if screenshot.ID == "" {
		screenshot.ID = types.NewScreenshotID()
	}
	if screenshot.CreatedAt.IsZero() {
		screenshot.CreatedAt = time.Now().UTC()
	}

	r.screenshots[screenshot.SessionID] = append(r.screenshots[screenshot.SessionID], copyScreenshot(screenshot))
	return nil
}

func (r *screenshotRepository) Get(ctx context.Context, sessionID types.SessionID, id types.ScreenshotID) (*model.Screenshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.screenshots[sessionID] {
		if s.ID == id {
			return copyScreenshot(s), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "screenshot not found",
		goerr.V("sessionID", sessionID), goerr.V("id", id))
}

func (r *screenshotRepository) ListBySession(ctx context.Context, sessionID types.SessionID) ([]*model.Screenshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.screenshots[sessionID]
	screenshots := make([]*model.Screenshot, len(stored))
	for i, s := range stored {
		screenshots[i] = copyScreenshot(s)
	}

	// Contract: created_at ascending, same as the Firestore query
	sort.SliceStable(screenshots, func(i, j int) bool {
		return screenshots[i].CreatedAt.Before(screenshots[j].CreatedAt)
	})

	return screenshots, nil
}

// copyScreenshot returns a deep copy to prevent external modification
func copyScreenshot(s *model.Screenshot) *model.Screenshot {
	c := *s
	c.Analysis.Entities = model.CloneEntities(s.Analysis.Entities)
	if s.Analysis.SuggestedNotebookTitle != nil {
		title := *s.Analysis.SuggestedNotebookTitle
		c.Analysis.SuggestedNotebookTitle = &title
	}
	return &c
}
