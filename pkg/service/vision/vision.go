package vision

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

// Analyzer turns raw screenshot bytes into a structured analysis. Unlike the
// regeneration and chat boundaries, analysis failures propagate to the
// caller: an immutable analysis record should never be persisted from a
// failed extraction.
type Analyzer interface {
	Analyze(ctx context.Context, data []byte, mimeType string) (*model.ScreenshotAnalysis, error)
}

// analysisWire matches the JSON shape the model is instructed to produce
type analysisWire struct {
	RawText                json.RawMessage `json:"rawText"`
	Summary                json.RawMessage `json:"summary"`
	Category               json.RawMessage `json:"category"`
	Entities               json.RawMessage `json:"entities"`
	SuggestedNotebookTitle json.RawMessage `json:"suggestedNotebookTitle"`
}

type entityWire struct {
	Type       string            `json:"type"`
	Title      *string           `json:"title"`
	Attributes map[string]string `json:"attributes"`
}

// normalizeAnalysis parses the model's raw response. Malformed optional
// fields fall back to their defaults, an unparsable response is an error.
func normalizeAnalysis(raw string) (*model.ScreenshotAnalysis, error) {
	var wire analysisWire
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &wire); err != nil {
		return nil, goerr.Wrap(err, "response is not a JSON object")
	}

	analysis := &model.ScreenshotAnalysis{
		Category: types.CategoryOther,
		Entities: []model.Entity{},
	}

	if wire.RawText != nil {
		var text string
		if err := json.Unmarshal(wire.RawText, &text); err == nil {
			analysis.RawText = text
		}
	}

	if wire.Summary != nil {
		var summary string
		if err := json.Unmarshal(wire.Summary, &summary); err == nil {
			analysis.Summary = summary
		}
	}

	if wire.Category != nil {
		var category string
		if err := json.Unmarshal(wire.Category, &category); err == nil {
			analysis.Category = types.SessionCategory(category).Normalize()
		}
	}

	if wire.SuggestedNotebookTitle != nil {
		var title *string
		if err := json.Unmarshal(wire.SuggestedNotebookTitle, &title); err == nil && title != nil && *title != "" {
			analysis.SuggestedNotebookTitle = title
		}
	}

	if wire.Entities != nil {
		var elements []json.RawMessage
		if err := json.Unmarshal(wire.Entities, &elements); err == nil {
			for _, element := range elements {
				var e entityWire
				if err := json.Unmarshal(element, &e); err != nil {
					continue
				}
				if e.Type == "" {
					continue
				}
				analysis.Entities = append(analysis.Entities, model.Entity{
					Type:       e.Type,
					Title:      e.Title,
					Attributes: e.Attributes,
				})
			}
		}
	}

	return analysis, nil
}

func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
