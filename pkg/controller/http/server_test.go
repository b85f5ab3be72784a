package http_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	server "github.com/snapnote-lab/snapnote/pkg/controller/http"
	"github.com/snapnote-lab/snapnote/pkg/repository/memory"
	"github.com/snapnote-lab/snapnote/pkg/service/imagestore"
	"github.com/snapnote-lab/snapnote/pkg/service/notechat"
	"github.com/snapnote-lab/snapnote/pkg/service/reconcile"
	"github.com/snapnote-lab/snapnote/pkg/service/vision"
	"github.com/snapnote-lab/snapnote/pkg/usecase"
)

// ----- mock LLM client -----

type mockLLMSession struct {
	text string
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	return &gollem.Response{Texts: []string{s.text}}, nil
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
	text string
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return &mockLLMSession{text: c.text}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func newServer(t *testing.T, llmText string, opts ...server.Options) *server.Server {
	t.Helper()

	llm := &mockLLMClient{text: llmText}
	reconciler, err := reconcile.New(llm)
	gt.NoError(t, err).Required()
	chat, err := notechat.New(llm)
	gt.NoError(t, err).Required()

	uc := usecase.New(memory.New(),
		usecase.WithImageStore(imagestore.NewMemory()),
		usecase.WithReconciler(reconciler),
		usecase.WithNoteChat(chat),
		usecase.WithAnalyzer(vision.NewCanned()),
	)
	return server.New(uc, opts...)
}

func doJSON(t *testing.T, srv *server.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body)).Required()
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, srv *server.Server) string {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/sessions", map[string]string{"name": "Hotel research"})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	var resp struct {
		ID string `json:"id"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Value(t, resp.ID).NotEqual("")
	return resp.ID
}

func addScreenshot(t *testing.T, srv *server.Server, sessionID string) string {
	t.Helper()

	image := base64.StdEncoding.EncodeToString([]byte{0x89, 0x50, 0x4e, 0x47})
	rec := doJSON(t, srv, http.MethodPost, "/api/sessions/"+sessionID+"/screenshots",
		map[string]string{"image": image, "mimeType": "image/png"})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	var resp struct {
		ID string `json:"id"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	return resp.ID
}

func TestSessionEndpoints(t *testing.T) {
	srv := newServer(t, "{}")

	t.Run("create rejects missing name", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/sessions", map[string]string{})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("create, list, get", func(t *testing.T) {
		sessionID := createSession(t, srv)
		addScreenshot(t, srv, sessionID)

		rec := doJSON(t, srv, http.MethodGet, "/api/sessions", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		rec = doJSON(t, srv, http.MethodGet, "/api/sessions/"+sessionID, nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var detail struct {
			Session struct {
				Name string `json:"name"`
			} `json:"session"`
			State       *json.RawMessage `json:"state"`
			Screenshots []struct {
				Category string `json:"category"`
			} `json:"screenshots"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail)).Required()
		gt.Value(t, detail.Session.Name).Equal("Hotel research")
		gt.Value(t, detail.State).Equal(nil)
		gt.Array(t, detail.Screenshots).Length(1)
		gt.Value(t, detail.Screenshots[0].Category).Equal("trip-planning")
	})

	t.Run("get unknown session is 404", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/sessions/1b4e28ba-2fa1-11d2-883f-0016d3cca427", nil)
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("get malformed session ID is 400", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/sessions/not-a-uuid", nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("screenshot image is served back", func(t *testing.T) {
		sessionID := createSession(t, srv)
		screenshotID := addScreenshot(t, srv, sessionID)

		rec := doJSON(t, srv, http.MethodGet,
			fmt.Sprintf("/api/sessions/%s/screenshots/%s/image", sessionID, screenshotID), nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, rec.Header().Get("Content-Type")).Equal("image/png")
		gt.Value(t, rec.Body.Bytes()).Equal([]byte{0x89, 0x50, 0x4e, 0x47})
	})

	t.Run("delete removes the session", func(t *testing.T) {
		sessionID := createSession(t, srv)

		rec := doJSON(t, srv, http.MethodDelete, "/api/sessions/"+sessionID, nil)
		gt.Value(t, rec.Code).Equal(http.StatusNoContent)

		rec = doJSON(t, srv, http.MethodGet, "/api/sessions/"+sessionID, nil)
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})
}

func TestRegenerateEndpoint(t *testing.T) {
	srv := newServer(t, `{
		"sessionSummary": "Researching Hotel Deluxe",
		"sessionCategory": "trip-planning",
		"entities": [{"type": "hotel", "title": "Hotel Deluxe"}]
	}`)

	t.Run("regenerates and persists state", func(t *testing.T) {
		sessionID := createSession(t, srv)
		addScreenshot(t, srv, sessionID)

		rec := doJSON(t, srv, http.MethodPost, "/api/sessions/"+sessionID+"/regenerate", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var state struct {
			SessionSummary  string `json:"sessionSummary"`
			SessionCategory string `json:"sessionCategory"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state)).Required()
		gt.Value(t, state.SessionCategory).Equal("trip-planning")
	})

	t.Run("session without screenshots is 400", func(t *testing.T) {
		sessionID := createSession(t, srv)

		rec := doJSON(t, srv, http.MethodPost, "/api/sessions/"+sessionID+"/regenerate", nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestStatelessEndpoints(t *testing.T) {
	t.Run("regenerate validates the request", func(t *testing.T) {
		srv := newServer(t, "{}")

		rec := doJSON(t, srv, http.MethodPost, "/api/regenerate", map[string]any{
			"screens": []any{map[string]any{"id": "s1"}},
		})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

		rec = doJSON(t, srv, http.MethodPost, "/api/regenerate", map[string]any{
			"sessionId": "abc",
			"screens":   []any{},
		})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("regenerate reconciles without persisting", func(t *testing.T) {
		srv := newServer(t, `{
			"sessionSummary": "stateless",
			"sessionCategory": "research",
			"entities": []
		}`)

		rec := doJSON(t, srv, http.MethodPost, "/api/regenerate", map[string]any{
			"sessionId": "abc",
			"screens": []any{map[string]any{
				"id":       "s1",
				"analysis": map[string]any{"rawText": "text", "summary": "s", "category": "research"},
			}},
		})
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var state struct {
			SessionSummary string `json:"sessionSummary"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state)).Required()
		gt.Value(t, state.SessionSummary).Equal("stateless")
	})

	t.Run("chat validates the request", func(t *testing.T) {
		srv := newServer(t, "{}")

		rec := doJSON(t, srv, http.MethodPost, "/api/chat", map[string]any{
			"sessionId": "abc", "currentNote": "note",
		})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

		rec = doJSON(t, srv, http.MethodPost, "/api/chat", map[string]any{
			"sessionId": "abc", "userMessage": "hello",
		})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("chat returns the exchange", func(t *testing.T) {
		srv := newServer(t, `{"reply": "It costs $299.", "noteWasModified": false}`)

		rec := doJSON(t, srv, http.MethodPost, "/api/chat", map[string]any{
			"sessionId":   "abc",
			"userMessage": "How much?",
			"currentNote": "# Hotels",
		})
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var exchange struct {
			Reply           string `json:"reply"`
			UpdatedNote     string `json:"updatedNote"`
			NoteWasModified bool   `json:"noteWasModified"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exchange)).Required()
		gt.Bool(t, exchange.NoteWasModified).False()
		gt.Value(t, exchange.UpdatedNote).Equal("# Hotels")
	})
}

func TestBearerAuth(t *testing.T) {
	srv := newServer(t, "{}", server.WithAPIToken("secret-token"))

	t.Run("missing token is 401", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/sessions", nil)
		gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("valid token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
		req.Header.Set("Authorization", "Bearer secret-token")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
	})

	t.Run("health needs no token", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/health", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
	})
}
