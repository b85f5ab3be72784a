package reconcile

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
	"github.com/snapnote-lab/snapnote/pkg/utils/logging"
)

// Input carries everything one regeneration needs. PriorState is nil before
// the first regeneration of a session.
type Input struct {
	SessionID   types.SessionID
	PriorState  *model.SessionState
	Screenshots []*model.Screenshot
}

// Service re-derives a session's reconciled state from its screenshot history
// and prior state. Generation failures and malformed model output never
// propagate to the caller, the result degrades to the neutral state instead.
type Service struct {
	llmClient      gollem.LLMClient
	rawTextLimit   int
	maxSuggestions int
}

// Option is a functional option for Service configuration
type Option func(*Service)

// WithRawTextLimit overrides how much per-screenshot raw text is embedded
// into the prompt
func WithRawTextLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.rawTextLimit = limit
		}
	}
}

// WithMaxSuggestions caps how many suggestions survive normalization.
// Zero means no cap.
func WithMaxSuggestions(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxSuggestions = n
		}
	}
}

// New creates a reconciliation service with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (*Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	s := &Service{
		llmClient:    llmClient,
		rawTextLimit: RawTextLimit,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Reconcile produces the new session state. It returns an error only for
// caller-side problems; the generation boundary degrades to
// model.NeutralState on failure.
func (s *Service) Reconcile(ctx context.Context, input Input) (*model.SessionState, error) {
	if input.SessionID == "" {
		return nil, goerr.New("session ID is required")
	}
	if len(input.Screenshots) == 0 {
		return nil, goerr.New("at least one screenshot is required")
	}

	state, err := s.generate(ctx, input)
	if err != nil {
		logging.From(ctx).Warn("session state generation failed, falling back to neutral state",
			"sessionID", input.SessionID,
			"error", err,
		)
		return model.NeutralState(input.SessionID), nil
	}
	return state, nil
}

func (s *Service) generate(ctx context.Context, input Input) (*model.SessionState, error) {
	session, err := s.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildStateSchema()),
		gollem.WithSessionSystemPrompt(buildSystemPrompt()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	userPrompt := buildUserPrompt(input.PriorState, input.Screenshots, s.rawTextLimit)

	resp, err := session.GenerateContent(ctx, gollem.Text(userPrompt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM")
	}
	if len(resp.Texts) == 0 || resp.Texts[0] == "" {
		return nil, goerr.New("empty response from LLM")
	}

	state, err := normalizeState(input.SessionID, resp.Texts[0])
	if err != nil {
		return nil, goerr.Wrap(err, "failed to normalize LLM response",
			goerr.V("response", resp.Texts[0]))
	}
	if s.maxSuggestions > 0 && len(state.Suggestions) > s.maxSuggestions {
		state.Suggestions = state.Suggestions[:s.maxSuggestions]
	}
	return state, nil
}
