package model

import (
	"time"

	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

// ScreenshotAnalysis is the per-screenshot result of the multimodal analysis.
// It is created once when the screenshot is first analyzed and never mutated;
// re-analysis produces a new record.
type ScreenshotAnalysis struct {
	RawText                string
	Summary                string
	Category               types.SessionCategory
	Entities               []Entity
	SuggestedNotebookTitle *string
}

// Screenshot is one captured image in a session, ordered by CreatedAt
type Screenshot struct {
	ID        types.ScreenshotID
	SessionID types.SessionID
	ImageKey  string // blob storage key, empty when no image was stored
	Analysis  ScreenshotAnalysis
	CreatedAt time.Time
}
