package reconcile

import (
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

// stateWire defers per-field decoding so a wrong-typed field drops to its
// default without invalidating the rest of the response.
type stateWire struct {
	SessionSummary         json.RawMessage `json:"sessionSummary"`
	SessionCategory        json.RawMessage `json:"sessionCategory"`
	Entities               json.RawMessage `json:"entities"`
	SuggestedNotebookTitle json.RawMessage `json:"suggestedNotebookTitle"`
	Suggestions            json.RawMessage `json:"suggestions"`
}

type entityWire struct {
	Type       string            `json:"type"`
	Title      *string           `json:"title"`
	Attributes map[string]string `json:"attributes"`
}

type suggestionWire struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Basis string `json:"basis"`
	Items []struct {
		EntityTitle string `json:"entityTitle"`
		Reason      string `json:"reason"`
	} `json:"items"`
}

// stripCodeFence removes a surrounding markdown code fence the model may have
// wrapped its JSON in.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// drop the language tag line, e.g. "json"
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// normalizeState parses the model's raw response into a session state.
// Individual malformed fields fall back to their defaults; only an unparsable
// response is an error.
func normalizeState(sessionID types.SessionID, raw string) (*model.SessionState, error) {
	var wire stateWire
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &wire); err != nil {
		return nil, goerr.Wrap(err, "response is not a JSON object")
	}

	state := model.NeutralState(sessionID)

	if wire.SessionSummary != nil {
		var summary string
		if err := json.Unmarshal(wire.SessionSummary, &summary); err == nil {
			state.SessionSummary = summary
		}
	}

	if wire.SessionCategory != nil {
		var category string
		if err := json.Unmarshal(wire.SessionCategory, &category); err == nil {
			state.SessionCategory = types.SessionCategory(category).Normalize()
		}
	}

	if wire.SuggestedNotebookTitle != nil {
		var title *string
		if err := json.Unmarshal(wire.SuggestedNotebookTitle, &title); err == nil && title != nil && *title != "" {
			state.SuggestedNotebookTitle = title
		}
	}

	state.Entities = normalizeEntities(wire.Entities)
	state.Suggestions = normalizeSuggestions(wire.Suggestions)

	return state, nil
}

// normalizeEntities type-checks the proposed entity list. A malformed element
// is dropped on its own, it never invalidates the batch.
func normalizeEntities(raw json.RawMessage) []model.Entity {
	entities := []model.Entity{}
	if raw == nil {
		return entities
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return entities
	}

	for _, element := range elements {
		var wire entityWire
		if err := json.Unmarshal(element, &wire); err != nil {
			continue
		}
		if wire.Type == "" {
			continue
		}
		entities = append(entities, model.Entity{
			Type:       wire.Type,
			Title:      wire.Title,
			Attributes: wire.Attributes,
		})
	}

	return entities
}

// normalizeSuggestions keeps only well-formed suggestions of the three known
// types, preserving the model's relative order. Total function, worst case it
// returns an empty list.
func normalizeSuggestions(raw json.RawMessage) []model.Suggestion {
	suggestions := []model.Suggestion{}
	if raw == nil {
		return suggestions
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return suggestions
	}

	for _, element := range elements {
		var wire suggestionWire
		if err := json.Unmarshal(element, &wire); err != nil {
			continue
		}

		suggestion := model.Suggestion{
			Type:  types.SuggestionType(wire.Type),
			Text:  wire.Text,
			Basis: wire.Basis,
		}
		for _, item := range wire.Items {
			if item.EntityTitle == "" || item.Reason == "" {
				continue
			}
			suggestion.Items = append(suggestion.Items, model.RankingItem{
				EntityTitle: item.EntityTitle,
				Reason:      item.Reason,
			})
		}

		if !suggestion.IsWellFormed() {
			continue
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions
}
