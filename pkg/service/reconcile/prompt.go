package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

// RawTextLimit bounds how much of a screenshot's extracted text is embedded
// into the regeneration prompt.
const RawTextLimit = 200

const truncationMarker = "..."

// TruncateRawText cuts s at limit characters and appends the truncation
// marker. It is idempotent: truncating an already-truncated string at the
// same limit is a no-op.
func TruncateRawText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if strings.HasSuffix(s, truncationMarker) && len(runes) <= limit+len(truncationMarker) {
		return s
	}
	return string(runes[:limit]) + truncationMarker
}

// buildSystemPrompt creates the fixed system prompt for session state
// regeneration
func buildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a session analysis assistant. The user has collected a series of screenshots during one browsing session. Your task is to derive a single coherent state for the whole session.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Write session_summary: one or two sentences describing what the user is doing across all screenshots.\n")
	sb.WriteString("2. Pick session_category from exactly this list: trip-planning, shopping, job-search, research, content-writing, productivity, other.\n")
	sb.WriteString("3. Build entities: merge the entities from every screenshot into one deduplicated list. Two entities are duplicates when they have the same type and the same or nearly identical title. Keep every attribute seen for an entity, merging attribute maps when deduplicating.\n")
	sb.WriteString("4. Propose suggested_notebook_title: a short human-friendly name for a notebook about this session, or null if nothing fits.\n")
	sb.WriteString("5. Build suggestions: zero or more items, each one of exactly these types:\n")
	sb.WriteString("   - question: { \"type\": \"question\", \"text\": string } - a clarifying question to ask the user\n")
	sb.WriteString("   - ranking: { \"type\": \"ranking\", \"text\": string, \"basis\": string, \"items\": [{ \"entityTitle\": string, \"reason\": string }] } - a ranking of collected entities with a non-empty items list\n")
	sb.WriteString("   - next-step: { \"type\": \"next-step\", \"text\": string } - a concrete action the user could take next\n")
	sb.WriteString("6. Respond with JSON only.\n")

	return sb.String()
}

// buildUserPrompt assembles the regeneration prompt from the prior state and
// the ordered screenshot analyses. Pure function of its inputs.
func buildUserPrompt(prior *model.SessionState, screenshots []*model.Screenshot, rawTextLimit int) string {
	var sb strings.Builder

	if prior != nil {
		sb.WriteString("--- PREVIOUS SESSION STATE (MAINTAIN CONTINUITY) ---\n")
		fmt.Fprintf(&sb, "Summary: %s\n", prior.SessionSummary)
		fmt.Fprintf(&sb, "Category: %s\n", prior.SessionCategory)
		if len(prior.Entities) > 0 {
			sb.WriteString("Entities already established:\n")
			writeEntities(&sb, prior.Entities)
		}
		sb.WriteString("Preserve the core idea of the previous summary and reuse or extend the entities above. Do not restart the analysis from scratch, and do not drop established entities unless a screenshot below contradicts them.\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString("## Screenshots (in capture order):\n\n")
	for i, shot := range screenshots {
		fmt.Fprintf(&sb, "### Screenshot %d (id: %s)\n", i+1, shot.ID)
		fmt.Fprintf(&sb, "Summary: %s\n", shot.Analysis.Summary)
		fmt.Fprintf(&sb, "Category: %s\n", shot.Analysis.Category)
		if shot.Analysis.SuggestedNotebookTitle != nil {
			fmt.Fprintf(&sb, "Suggested title: %s\n", *shot.Analysis.SuggestedNotebookTitle)
		}
		if len(shot.Analysis.Entities) > 0 {
			sb.WriteString("Entities:\n")
			writeEntities(&sb, shot.Analysis.Entities)
		}
		fmt.Fprintf(&sb, "Raw text: %s\n\n", TruncateRawText(shot.Analysis.RawText, rawTextLimit))
	}

	sb.WriteString("Derive the merged session state for all screenshots above.\n")

	return sb.String()
}

func writeEntities(sb *strings.Builder, entities []model.Entity) {
	for _, e := range entities {
		title := ""
		if e.Title != nil {
			title = *e.Title
		}
		fmt.Fprintf(sb, "- type=%s title=%q", e.Type, title)
		if len(e.Attributes) > 0 {
			sb.WriteString(" attributes={")
			first := true
			for _, k := range sortedKeys(e.Attributes) {
				if !first {
					sb.WriteString(", ")
				}
				fmt.Fprintf(sb, "%s: %s", k, e.Attributes[k])
				first = false
			}
			sb.WriteString("}")
		}
		sb.WriteString("\n")
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// categoryList is embedded into schema descriptions
func categoryList() string {
	values := types.Categories()
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ", ")
}
