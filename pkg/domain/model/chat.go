package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

// ChatExchange is the outcome of one note-chat turn. Invariant: when
// NoteWasModified is true, UpdatedNote is the non-empty full replacement note;
// when false, UpdatedNote equals the caller's original note verbatim.
type ChatExchange struct {
	Reply           string
	UpdatedNote     string
	NoteWasModified bool
}

// Validate checks the cross-field invariant against the original note
func (x *ChatExchange) Validate(originalNote string) error {
	if x.NoteWasModified && x.UpdatedNote == "" {
		return goerr.New("modified exchange must carry a non-empty note")
	}
	if !x.NoteWasModified && x.UpdatedNote != originalNote {
		return goerr.New("unmodified exchange must echo the original note")
	}
	return nil
}

// FallbackExchange is the safe substitute returned when the generation
// boundary fails: an apologetic reply and the note unchanged.
func FallbackExchange(originalNote string) *ChatExchange {
	return &ChatExchange{
		Reply:           "Sorry, I couldn't process that request, but your note is unchanged.",
		UpdatedNote:     originalNote,
		NoteWasModified: false,
	}
}

// ChatContext is optional session/screenshot context for a chat turn
type ChatContext struct {
	SessionName     string
	SessionCategory types.SessionCategory
	Screenshots     []ChatScreenshot
}

// ChatScreenshot is the per-screenshot slice of chat context
type ChatScreenshot struct {
	ID      types.ScreenshotID
	RawText string
	Summary string
}
