package notechat

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/utils/logging"
)

// Input is one chat turn against a session note. Context is optional.
type Input struct {
	Message string
	Note    string
	Context *model.ChatContext
}

// Service classifies a chat message as an edit command or a question and
// applies it to the note. The classification itself is delegated to the
// model; this service validates the response and guarantees the note
// invariant, degrading to model.FallbackExchange when the boundary fails.
type Service struct {
	llmClient        gollem.LLMClient
	contextTextLimit int
}

// Option is a functional option for Service configuration
type Option func(*Service)

// WithContextTextLimit overrides how much per-screenshot raw text is embedded
// into the chat prompt
func WithContextTextLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.contextTextLimit = limit
		}
	}
}

// New creates a note-chat service with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (*Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	s := &Service{
		llmClient:        llmClient,
		contextTextLimit: contextRawTextLimit,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Chat runs one turn. It returns an error only for caller-side problems;
// generation failures surface as the fallback exchange.
func (s *Service) Chat(ctx context.Context, input Input) (*model.ChatExchange, error) {
	if input.Message == "" {
		return nil, goerr.New("message is required")
	}

	exchange, err := s.generate(ctx, input)
	if err != nil {
		logging.From(ctx).Warn("note chat generation failed, falling back",
			"error", err,
		)
		return model.FallbackExchange(input.Note), nil
	}
	return exchange, nil
}

func (s *Service) generate(ctx context.Context, input Input) (*model.ChatExchange, error) {
	session, err := s.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildExchangeSchema()),
		gollem.WithSessionSystemPrompt(buildSystemPrompt()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(input, s.contextTextLimit)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM")
	}
	if len(resp.Texts) == 0 || resp.Texts[0] == "" {
		return nil, goerr.New("empty response from LLM")
	}

	exchange, err := normalizeExchange(resp.Texts[0], input.Note)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to normalize LLM response",
			goerr.V("response", resp.Texts[0]))
	}
	return exchange, nil
}

// exchangeWire matches the JSON shape the model is instructed to produce
type exchangeWire struct {
	Reply           json.RawMessage `json:"reply"`
	UpdatedNote     json.RawMessage `json:"updatedNote"`
	NoteWasModified json.RawMessage `json:"noteWasModified"`
}

// normalizeExchange parses and validates a chat response. Unlike the
// regeneration path, a violated note invariant fails the whole response.
func normalizeExchange(raw string, originalNote string) (*model.ChatExchange, error) {
	var wire exchangeWire
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &wire); err != nil {
		return nil, goerr.Wrap(err, "response is not a JSON object")
	}

	exchange := &model.ChatExchange{}

	if wire.Reply != nil {
		var reply string
		if err := json.Unmarshal(wire.Reply, &reply); err == nil {
			exchange.Reply = reply
		}
	}
	if exchange.Reply == "" {
		return nil, goerr.New("response has no reply")
	}

	if wire.NoteWasModified != nil {
		var modified bool
		if err := json.Unmarshal(wire.NoteWasModified, &modified); err == nil {
			exchange.NoteWasModified = modified
		}
	}

	if exchange.NoteWasModified {
		if wire.UpdatedNote == nil {
			return nil, goerr.New("modified exchange is missing the updated note")
		}
		var note string
		if err := json.Unmarshal(wire.UpdatedNote, &note); err != nil {
			return nil, goerr.Wrap(err, "updated note is not a string")
		}
		exchange.UpdatedNote = note
	} else {
		// a question never mutates the note, echo it back verbatim
		exchange.UpdatedNote = originalNote
	}

	if err := exchange.Validate(originalNote); err != nil {
		return nil, err
	}
	return exchange, nil
}
