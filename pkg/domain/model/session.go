package model

import (
	"time"

	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

// Session is a user's accumulating collection of screenshots
type Session struct {
	ID          types.SessionID
	UserID      types.UserID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SessionState is the reconciled, durable, single-row-per-session analysis
// artifact. It is fully replaced on every regeneration; continuity with the
// prior state is carried through the generation step, not through merging at
// the persistence layer.
type SessionState struct {
	SessionID              types.SessionID
	SessionSummary         string
	SessionCategory        types.SessionCategory
	Entities               []Entity
	SuggestedNotebookTitle *string
	Suggestions            []Suggestion
	UpdatedAt              time.Time
}

// NeutralState is the defined fallback state: empty summary, category "other",
// no entities, no suggestions. Returned whenever the generation boundary is
// unavailable or its output cannot be salvaged.
func NeutralState(sessionID types.SessionID) *SessionState {
	return &SessionState{
		SessionID:       sessionID,
		SessionSummary:  "",
		SessionCategory: types.CategoryOther,
		Entities:        []Entity{},
		Suggestions:     []Suggestion{},
	}
}

// Clone returns a deep copy of the state
func (x *SessionState) Clone() *SessionState {
	c := &SessionState{
		SessionID:       x.SessionID,
		SessionSummary:  x.SessionSummary,
		SessionCategory: x.SessionCategory,
		Entities:        CloneEntities(x.Entities),
		Suggestions:     make([]Suggestion, len(x.Suggestions)),
		UpdatedAt:       x.UpdatedAt,
	}
	if x.SuggestedNotebookTitle != nil {
		title := *x.SuggestedNotebookTitle
		c.SuggestedNotebookTitle = &title
	}
	for i, s := range x.Suggestions {
		cs := s
		cs.Items = append([]RankingItem(nil), s.Items...)
		c.Suggestions[i] = cs
	}
	return c
}
