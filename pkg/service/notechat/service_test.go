package notechat_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/service/notechat"
)

// ----- mock LLM client -----

type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"{}"}}, nil
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func respondWith(text string) *mockLLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{text}}, nil
				},
			}, nil
		},
	}
}

const note = "# Cabo hotels\n- Hotel El Ganzo: $240\n- Hotel B: $180\n- Check reviews\n"

func TestChat_Question(t *testing.T) {
	svc, err := notechat.New(respondWith(`{"reply": "The second hotel, Hotel B, is $180 per night.", "noteWasModified": false}`))
	gt.NoError(t, err).Required()

	exchange, err := svc.Chat(context.Background(), notechat.Input{
		Message: "What is the price of the second hotel?",
		Note:    note,
	})
	gt.NoError(t, err).Required()

	gt.Bool(t, exchange.NoteWasModified).False()
	gt.Value(t, exchange.UpdatedNote).Equal(note)
	gt.Value(t, exchange.Reply).Equal("The second hotel, Hotel B, is $180 per night.")
}

func TestChat_Edit(t *testing.T) {
	updated := "# Cabo hotels\n- Hotel El Ganzo: $240\n- Hotel B: $180\n"
	svc, err := notechat.New(respondWith(`{"reply": "Removed the third bullet point.", "updatedNote": "# Cabo hotels\n- Hotel El Ganzo: $240\n- Hotel B: $180\n", "noteWasModified": true}`))
	gt.NoError(t, err).Required()

	exchange, err := svc.Chat(context.Background(), notechat.Input{
		Message: "Delete the third bullet point",
		Note:    note,
	})
	gt.NoError(t, err).Required()

	gt.Bool(t, exchange.NoteWasModified).True()
	gt.Value(t, exchange.UpdatedNote).Equal(updated)
	gt.Value(t, exchange.UpdatedNote).NotEqual(note)
}

func TestChat_Fallback(t *testing.T) {
	ctx := context.Background()
	input := notechat.Input{Message: "Delete everything", Note: note}

	assertFallback := func(t *testing.T, exchange *model.ChatExchange) {
		t.Helper()
		gt.Bool(t, exchange.NoteWasModified).False()
		gt.Value(t, exchange.UpdatedNote).Equal(note)
		gt.Value(t, exchange.Reply).NotEqual("")
	}

	t.Run("generation error", func(t *testing.T) {
		llm := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockLLMSession{
					generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						return nil, goerr.New("model unavailable")
					},
				}, nil
			},
		}
		svc, err := notechat.New(llm)
		gt.NoError(t, err).Required()

		exchange, err := svc.Chat(ctx, input)
		gt.NoError(t, err).Required()
		assertFallback(t, exchange)
	})

	t.Run("unparsable response", func(t *testing.T) {
		svc, err := notechat.New(respondWith("sure, done!"))
		gt.NoError(t, err).Required()

		exchange, err := svc.Chat(ctx, input)
		gt.NoError(t, err).Required()
		assertFallback(t, exchange)
	})

	t.Run("modified without an updated note violates the invariant", func(t *testing.T) {
		svc, err := notechat.New(respondWith(`{"reply": "done", "noteWasModified": true}`))
		gt.NoError(t, err).Required()

		exchange, err := svc.Chat(ctx, input)
		gt.NoError(t, err).Required()
		assertFallback(t, exchange)
	})

	t.Run("modified with an empty note violates the invariant", func(t *testing.T) {
		svc, err := notechat.New(respondWith(`{"reply": "done", "updatedNote": "", "noteWasModified": true}`))
		gt.NoError(t, err).Required()

		exchange, err := svc.Chat(ctx, input)
		gt.NoError(t, err).Required()
		assertFallback(t, exchange)
	})

	t.Run("missing reply", func(t *testing.T) {
		svc, err := notechat.New(respondWith(`{"noteWasModified": false}`))
		gt.NoError(t, err).Required()

		exchange, err := svc.Chat(ctx, input)
		gt.NoError(t, err).Required()
		assertFallback(t, exchange)
	})
}

func TestChat_FenceStripping(t *testing.T) {
	svc, err := notechat.New(respondWith("```json\n{\"reply\": \"fenced answer\", \"noteWasModified\": false}\n```"))
	gt.NoError(t, err).Required()

	exchange, err := svc.Chat(context.Background(), notechat.Input{
		Message: "Is this fenced?",
		Note:    note,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, exchange.Reply).Equal("fenced answer")
	gt.Value(t, exchange.UpdatedNote).Equal(note)
}

func TestChat_InputValidation(t *testing.T) {
	svc, err := notechat.New(&mockLLMClient{})
	gt.NoError(t, err).Required()

	_, err = svc.Chat(context.Background(), notechat.Input{Note: note})
	gt.Error(t, err)

	_, err = notechat.New(nil)
	gt.Error(t, err)
}
