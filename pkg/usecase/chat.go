package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
	"github.com/snapnote-lab/snapnote/pkg/service/notechat"
)

// Chat runs one note-chat turn against a session, building the chat context
// from the session's stored screenshots and state.
func (uc *UseCases) Chat(ctx context.Context, userID types.UserID, sessionID types.SessionID, message, note string) (*model.ChatExchange, error) {
	if uc.chat == nil {
		return nil, goerr.Wrap(ErrNotConfigured, "no chat service")
	}

	session, err := uc.getOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	chatCtx := &model.ChatContext{
		SessionName: session.Name,
	}

	if state, err := uc.repo.State().Get(ctx, sessionID); err == nil {
		chatCtx.SessionCategory = state.SessionCategory
	} else if !isNotFound(err) {
		return nil, err
	}

	screenshots, err := uc.repo.Screenshot().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, shot := range screenshots {
		// the prompt builder truncates raw text, pass it through whole
		chatCtx.Screenshots = append(chatCtx.Screenshots, model.ChatScreenshot{
			ID:      shot.ID,
			RawText: shot.Analysis.RawText,
			Summary: shot.Analysis.Summary,
		})
	}

	return uc.chat.Chat(ctx, notechat.Input{
		Message: message,
		Note:    note,
		Context: chatCtx,
	})
}

// ChatDirect runs one stateless note-chat turn with caller-supplied context
func (uc *UseCases) ChatDirect(ctx context.Context, input notechat.Input) (*model.ChatExchange, error) {
	if uc.chat == nil {
		return nil, goerr.Wrap(ErrNotConfigured, "no chat service")
	}
	return uc.chat.Chat(ctx, input)
}
