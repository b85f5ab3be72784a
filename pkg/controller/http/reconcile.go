package http

import (
	"encoding/json"
	"net/http"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
	"github.com/snapnote-lab/snapnote/pkg/service/notechat"
	"github.com/snapnote-lab/snapnote/pkg/service/reconcile"
)

// ----- request shapes -----

type entityRequest struct {
	Type       string            `json:"type"`
	Title      *string           `json:"title"`
	Attributes map[string]string `json:"attributes"`
}

type analysisRequest struct {
	RawText                string          `json:"rawText"`
	Summary                string          `json:"summary"`
	Category               string          `json:"category"`
	Entities               []entityRequest `json:"entities"`
	SuggestedNotebookTitle *string         `json:"suggestedNotebookTitle"`
}

type screenRequest struct {
	ID       string          `json:"id"`
	Analysis analysisRequest `json:"analysis"`
}

type reconcileRequest struct {
	SessionID       string          `json:"sessionId"`
	PreviousSession *struct {
		SessionSummary  string          `json:"sessionSummary"`
		SessionCategory string          `json:"sessionCategory"`
		Entities        []entityRequest `json:"entities"`
	} `json:"previousSession"`
	Screens []screenRequest `json:"screens"`
}

type chatRequest struct {
	SessionID   string  `json:"sessionId"`
	UserMessage string  `json:"userMessage"`
	CurrentNote *string `json:"currentNote"`
	Context     *struct {
		SessionName     string `json:"sessionName"`
		SessionCategory string `json:"sessionCategory"`
		Screenshots     []struct {
			ID      string `json:"id"`
			RawText string `json:"rawText"`
			Summary string `json:"summary"`
		} `json:"screenshots"`
	} `json:"context"`
}

type exchangeResponse struct {
	Reply           string `json:"reply"`
	UpdatedNote     string `json:"updatedNote"`
	NoteWasModified bool   `json:"noteWasModified"`
}

func toExchangeResponse(exchange *model.ChatExchange) exchangeResponse {
	return exchangeResponse{
		Reply:           exchange.Reply,
		UpdatedNote:     exchange.UpdatedNote,
		NoteWasModified: exchange.NoteWasModified,
	}
}

func toEntityModelsFromRequest(entities []entityRequest) []model.Entity {
	out := make([]model.Entity, 0, len(entities))
	for _, e := range entities {
		if e.Type == "" {
			continue
		}
		out = append(out, model.Entity{Type: e.Type, Title: e.Title, Attributes: e.Attributes})
	}
	return out
}

// reconcileHandler runs one stateless reconciliation over caller-supplied
// screens and optional prior state
func (s *Server) reconcileHandler(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		http.Error(w, "sessionId is required", http.StatusBadRequest)
		return
	}
	if len(req.Screens) == 0 {
		http.Error(w, "screens must be a non-empty array", http.StatusBadRequest)
		return
	}

	input := reconcile.Input{
		SessionID: types.SessionID(req.SessionID),
	}

	if req.PreviousSession != nil {
		input.PriorState = &model.SessionState{
			SessionID:       input.SessionID,
			SessionSummary:  req.PreviousSession.SessionSummary,
			SessionCategory: types.SessionCategory(req.PreviousSession.SessionCategory).Normalize(),
			Entities:        toEntityModelsFromRequest(req.PreviousSession.Entities),
		}
	}

	for _, screen := range req.Screens {
		input.Screenshots = append(input.Screenshots, &model.Screenshot{
			ID:        types.ScreenshotID(screen.ID),
			SessionID: input.SessionID,
			Analysis: model.ScreenshotAnalysis{
				RawText:                screen.Analysis.RawText,
				Summary:                screen.Analysis.Summary,
				Category:               types.SessionCategory(screen.Analysis.Category).Normalize(),
				Entities:               toEntityModelsFromRequest(screen.Analysis.Entities),
				SuggestedNotebookTitle: screen.Analysis.SuggestedNotebookTitle,
			},
		})
	}

	state, err := s.uc.Reconcile(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toStateResponse(state))
}

// chatDirectHandler runs one stateless note-chat turn with caller-supplied
// context
func (s *Server) chatDirectHandler(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		http.Error(w, "sessionId is required", http.StatusBadRequest)
		return
	}
	if req.UserMessage == "" {
		http.Error(w, "userMessage is required", http.StatusBadRequest)
		return
	}
	if req.CurrentNote == nil {
		http.Error(w, "currentNote is required", http.StatusBadRequest)
		return
	}

	input := notechat.Input{
		Message: req.UserMessage,
		Note:    *req.CurrentNote,
	}
	if req.Context != nil {
		chatCtx := &model.ChatContext{
			SessionName:     req.Context.SessionName,
			SessionCategory: types.SessionCategory(req.Context.SessionCategory),
		}
		for _, shot := range req.Context.Screenshots {
			chatCtx.Screenshots = append(chatCtx.Screenshots, model.ChatScreenshot{
				ID:      types.ScreenshotID(shot.ID),
				RawText: shot.RawText,
				Summary: shot.Summary,
			})
		}
		input.Context = chatCtx
	}

	exchange, err := s.uc.ChatDirect(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toExchangeResponse(exchange))
}
