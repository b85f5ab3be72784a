package notechat

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/gollem"
)

// contextRawTextLimit bounds how much per-screenshot text is embedded into
// the chat prompt.
const contextRawTextLimit = 500

const truncationMarker = "..."

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if strings.HasSuffix(s, truncationMarker) && len(runes) <= limit+len(truncationMarker) {
		return s
	}
	return string(runes[:limit]) + truncationMarker
}

// buildSystemPrompt creates the fixed classification prompt. The examples
// matter: ambiguity must resolve to QUESTION so the note is never mutated by
// accident.
func buildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a note-editing assistant. The user keeps a markdown note about their session and sends you one message. Classify the message as an EDIT command or a QUESTION, then respond.\n\n")
	sb.WriteString("## EDIT commands (the user tells you to change the note):\n")
	sb.WriteString("- \"Delete the third bullet point\"\n")
	sb.WriteString("- \"Add a section about pricing\"\n")
	sb.WriteString("- \"Rewrite the intro to be shorter\"\n")
	sb.WriteString("For an EDIT: set noteWasModified to true, put the COMPLETE replacement note in updatedNote (never a diff or a fragment), and write a short confirmation in reply.\n\n")
	sb.WriteString("## QUESTIONS (the user asks about the note or the session):\n")
	sb.WriteString("- \"What is the price of the second hotel?\"\n")
	sb.WriteString("- \"Which option did I look at first?\"\n")
	sb.WriteString("- \"Do you think option A is better?\"\n")
	sb.WriteString("For a QUESTION: set noteWasModified to false, do not change the note, and answer in reply.\n\n")
	sb.WriteString("If the message is ambiguous, treat it as a QUESTION.\n")
	sb.WriteString("Respond with JSON only.\n")

	return sb.String()
}

// buildUserPrompt embeds the current note verbatim plus optional context.
// Pure function of its inputs.
func buildUserPrompt(input Input, contextTextLimit int) string {
	var sb strings.Builder

	if input.Context != nil {
		sb.WriteString("## Session context:\n")
		if input.Context.SessionName != "" {
			fmt.Fprintf(&sb, "Session: %s\n", input.Context.SessionName)
		}
		if input.Context.SessionCategory != "" {
			fmt.Fprintf(&sb, "Category: %s\n", input.Context.SessionCategory)
		}
		for _, shot := range input.Context.Screenshots {
			fmt.Fprintf(&sb, "- Screenshot %s: %s\n", shot.ID, shot.Summary)
			if shot.RawText != "" {
				fmt.Fprintf(&sb, "  Text: %s\n", truncate(shot.RawText, contextTextLimit))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Current note:\n")
	sb.WriteString(input.Note)
	sb.WriteString("\n\n")

	sb.WriteString("## User message:\n")
	sb.WriteString(input.Message)
	sb.WriteString("\n")

	return sb.String()
}

// buildExchangeSchema creates the JSON schema for the chat response
func buildExchangeSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "NoteChatResponse",
		Description: "Classification result for one note chat turn",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"reply": {
				Type:        gollem.TypeString,
				Description: "Answer or confirmation shown to the user",
				Required:    true,
			},
			"updatedNote": {
				Type:        gollem.TypeString,
				Description: "Complete replacement note, only when noteWasModified is true",
			},
			"noteWasModified": {
				Type:        gollem.TypeBoolean,
				Description: "true for an edit command, false for a question",
				Required:    true,
			},
		},
	}
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
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
