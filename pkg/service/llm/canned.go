package llm

import (
	"context"
	"strings"

	"github.com/m-mizutani/gollem"
)

// Canned is a gollem.LLMClient substitute for offline and demo operation.
// It is selected at configuration time when no Gemini credential is present
// and always answers with a fixed, schema-valid response. Dispatch between
// the regeneration and chat shapes is by prompt content, the two prompt
// builders emit distinct section headers.
type Canned struct{}

var _ gollem.LLMClient = &Canned{}

func NewCanned() *Canned {
	return &Canned{}
}

func (c *Canned) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return &cannedSession{}, nil
}

func (c *Canned) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	vec := make([]float64, dimension)
	return [][]float64{vec}, nil
}

type cannedSession struct{}

var _ gollem.Session = &cannedSession{}

const cannedState = `{
  "sessionSummary": "Researching Hotel Deluxe, a five star hotel in San Francisco",
  "sessionCategory": "trip-planning",
  "entities": [
    {"type": "hotel", "title": "Hotel Deluxe", "attributes": {"price": "$299/night", "rating": "5 Star", "location": "San Francisco, CA"}}
  ],
  "suggestedNotebookTitle": "Hotel Research",
  "suggestions": [
    {"type": "next-step", "text": "Compare Hotel Deluxe with two more options before booking"}
  ]
}`

const cannedExchange = `{
  "reply": "This is a demo response; connect a Gemini API key for real answers.",
  "noteWasModified": false
}`

func (s *cannedSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *cannedSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *cannedSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	var prompt strings.Builder
	for _, in := range input {
		if text, ok := in.(gollem.Text); ok {
			prompt.WriteString(string(text))
		}
	}

	if strings.Contains(prompt.String(), "## User message:") {
		return &gollem.Response{Texts: []string{cannedExchange}}, nil
	}
	return &gollem.Response{Texts: []string{cannedState}}, nil
}

func (s *cannedSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	ch := make(chan *gollem.Response, 1)
	resp, _ := s.GenerateContent(ctx, input...)
	ch <- resp
	close(ch)
	return ch, nil
}

func (s *cannedSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *cannedSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *cannedSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}
