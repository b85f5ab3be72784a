package vision

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

const defaultVisionModel = "gemini-2.5-flash"

// GenAI analyzes screenshots with Google's Gemini API using inline image
// bytes.
type GenAI struct {
	client *genai.Client
	model  string
}

var _ Analyzer = &GenAI{}

type GenAIOption func(*GenAI)

func WithModel(model string) GenAIOption {
	return func(g *GenAI) {
		g.model = model
	}
}

func NewGenAI(ctx context.Context, apiKey string, opts ...GenAIOption) (*GenAI, error) {
	if apiKey == "" {
		return nil, goerr.New("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	g := &GenAI{
		client: client,
		model:  defaultVisionModel,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *GenAI) Analyze(ctx context.Context, data []byte, mimeType string) (*model.ScreenshotAnalysis, error) {
	if len(data) == 0 {
		return nil, goerr.New("image data is required")
	}
	if mimeType == "" {
		mimeType = "image/png"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(buildAnalysisPrompt()),
			genai.NewPartFromBytes(data, mimeType),
		}, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.1),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate analysis")
	}

	text := result.Text()
	if text == "" {
		return nil, goerr.New("no content returned from model")
	}

	analysis, err := normalizeAnalysis(text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse analysis", goerr.V("response", text))
	}
	return analysis, nil
}

// buildAnalysisPrompt is the fixed OCR and entity extraction prompt
func buildAnalysisPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are an OCR and entity extraction system. Analyze this screenshot image.\n\n")
	sb.WriteString("TASKS:\n")
	sb.WriteString("1. Extract ALL visible text via OCR (rawText field)\n")
	sb.WriteString("2. Write a one-sentence summary of what the screenshot shows\n")
	sb.WriteString("3. Pick the category from exactly: " + categoryList() + "\n")
	sb.WriteString("4. Extract the prominent entities (hotels, flights, products, jobs and similar) with their attributes such as price, rating, location or url\n")
	sb.WriteString("5. Propose suggestedNotebookTitle, a short notebook name for this content, or null\n\n")
	sb.WriteString("RULES:\n")
	sb.WriteString("- Return ONLY valid JSON\n")
	sb.WriteString("- No markdown, no explanations, no prose\n")
	sb.WriteString("- Missing fields must be null\n\n")
	sb.WriteString("OUTPUT FORMAT:\n")
	sb.WriteString(`{
  "rawText": "full ocr text here",
  "summary": "one sentence",
  "category": "shopping",
  "entities": [
    {"type": "hotel", "title": "name or null", "attributes": {"price": "...", "rating": "...", "location": "...", "url": "..."}}
  ],
  "suggestedNotebookTitle": "short title or null"
}`)

	return sb.String()
}

func categoryList() string {
	values := types.Categories()
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ", ")
}
