package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
	"github.com/snapnote-lab/snapnote/pkg/usecase"
	"github.com/snapnote-lab/snapnote/pkg/utils/errutil"
)

// ----- response shapes -----

type sessionResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type entityResponse struct {
	Type       string            `json:"type"`
	Title      *string           `json:"title"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type suggestionResponse struct {
	Type  string                `json:"type"`
	Text  string                `json:"text,omitempty"`
	Basis string                `json:"basis,omitempty"`
	Items []rankingItemResponse `json:"items,omitempty"`
}

type rankingItemResponse struct {
	EntityTitle string `json:"entityTitle"`
	Reason      string `json:"reason"`
}

type stateResponse struct {
	SessionID              string               `json:"sessionId"`
	SessionSummary         string               `json:"sessionSummary"`
	SessionCategory        string               `json:"sessionCategory"`
	Entities               []entityResponse     `json:"entities"`
	SuggestedNotebookTitle *string              `json:"suggestedNotebookTitle"`
	Suggestions            []suggestionResponse `json:"suggestions"`
	UpdatedAt              time.Time            `json:"updatedAt"`
}

type screenshotResponse struct {
	ID                     string           `json:"id"`
	RawText                string           `json:"rawText"`
	Summary                string           `json:"summary"`
	Category               string           `json:"category"`
	Entities               []entityResponse `json:"entities"`
	SuggestedNotebookTitle *string          `json:"suggestedNotebookTitle"`
	CreatedAt              time.Time        `json:"createdAt"`
}

func toSessionResponse(s *model.Session) sessionResponse {
	return sessionResponse{
		ID:          string(s.ID),
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toEntityResponses(entities []model.Entity) []entityResponse {
	out := make([]entityResponse, 0, len(entities))
	for _, e := range entities {
		out = append(out, entityResponse{Type: e.Type, Title: e.Title, Attributes: e.Attributes})
	}
	return out
}

func toStateResponse(state *model.SessionState) stateResponse {
	suggestions := make([]suggestionResponse, 0, len(state.Suggestions))
	for _, sg := range state.Suggestions {
		items := make([]rankingItemResponse, 0, len(sg.Items))
		for _, it := range sg.Items {
			items = append(items, rankingItemResponse{EntityTitle: it.EntityTitle, Reason: it.Reason})
		}
		suggestions = append(suggestions, suggestionResponse{
			Type:  string(sg.Type),
			Text:  sg.Text,
			Basis: sg.Basis,
			Items: items,
		})
	}
	return stateResponse{
		SessionID:              string(state.SessionID),
		SessionSummary:         state.SessionSummary,
		SessionCategory:        state.SessionCategory.String(),
		Entities:               toEntityResponses(state.Entities),
		SuggestedNotebookTitle: state.SuggestedNotebookTitle,
		Suggestions:            suggestions,
		UpdatedAt:              state.UpdatedAt,
	}
}

func toScreenshotResponse(shot *model.Screenshot) screenshotResponse {
	return screenshotResponse{
		ID:                     string(shot.ID),
		RawText:                shot.Analysis.RawText,
		Summary:                shot.Analysis.Summary,
		Category:               shot.Analysis.Category.String(),
		Entities:               toEntityResponses(shot.Analysis.Entities),
		SuggestedNotebookTitle: shot.Analysis.SuggestedNotebookTitle,
		CreatedAt:              shot.CreatedAt,
	}
}

// ----- shared helpers -----

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound), errors.Is(err, usecase.ErrScreenshotNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, usecase.ErrAccessDenied):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, usecase.ErrNoScreenshots):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrNotConfigured):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
	}
}

func sessionIDFrom(r *http.Request) (types.SessionID, error) {
	id := types.SessionID(chi.URLParam(r, "sessionID"))
	if err := id.Validate(); err != nil {
		return "", goerr.Wrap(err, "invalid session ID")
	}
	return id, nil
}

// decodeImage accepts plain base64 or a data URL
func decodeImage(encoded string) ([]byte, error) {
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, goerr.Wrap(err, "image is not valid base64")
	}
	return data, nil
}

// ----- handlers -----

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	session, err := s.uc.CreateSession(r.Context(), userFrom(r.Context()), req.Name, req.Description)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, toSessionResponse(session))
}

func (s *Server) listSessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.uc.ListSessions(r.Context(), userFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := struct {
		Sessions []sessionResponse `json:"sessions"`
	}{Sessions: make([]sessionResponse, 0, len(sessions))}
	for _, session := range sessions {
		resp.Sessions = append(resp.Sessions, toSessionResponse(session))
	}
	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFrom(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	detail, err := s.uc.GetSession(r.Context(), userFrom(r.Context()), sessionID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := struct {
		Session     sessionResponse      `json:"session"`
		State       *stateResponse       `json:"state"`
		Screenshots []screenshotResponse `json:"screenshots"`
	}{
		Session:     toSessionResponse(detail.Session),
		Screenshots: make([]screenshotResponse, 0, len(detail.Screenshots)),
	}
	if detail.State != nil {
		state := toStateResponse(detail.State)
		resp.State = &state
	}
	for _, shot := range detail.Screenshots {
		resp.Screenshots = append(resp.Screenshots, toScreenshotResponse(shot))
	}
	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFrom(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.uc.DeleteSession(r.Context(), userFrom(r.Context()), sessionID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addScreenshotHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFrom(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req struct {
		Image    string `json:"image"`
		MimeType string `json:"mimeType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Image == "" {
		http.Error(w, "image is required", http.StatusBadRequest)
		return
	}

	data, err := decodeImage(req.Image)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.MimeType == "" {
		req.MimeType = "image/png"
	}

	shot, err := s.uc.AddScreenshot(r.Context(), userFrom(r.Context()), sessionID, data, req.MimeType)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, toScreenshotResponse(shot))
}

func (s *Server) screenshotImageHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFrom(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	screenshotID := types.ScreenshotID(chi.URLParam(r, "screenshotID"))

	data, mimeType, err := s.uc.GetScreenshotImage(r.Context(), userFrom(r.Context()), sessionID, screenshotID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Write(data) //nolint:errcheck // header already committed
}

func (s *Server) regenerateHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFrom(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state, err := s.uc.Regenerate(r.Context(), userFrom(r.Context()), sessionID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toStateResponse(state))
}

func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFrom(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req struct {
		Message string  `json:"userMessage"`
		Note    *string `json:"currentNote"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "userMessage is required", http.StatusBadRequest)
		return
	}
	if req.Note == nil {
		http.Error(w, "currentNote is required", http.StatusBadRequest)
		return
	}

	exchange, err := s.uc.Chat(r.Context(), userFrom(r.Context()), sessionID, req.Message, *req.Note)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toExchangeResponse(exchange))
}
