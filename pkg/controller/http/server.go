package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/snapnote-lab/snapnote/pkg/usecase"
	"github.com/snapnote-lab/snapnote/pkg/utils/logging"
)

type Server struct {
	router   *chi.Mux
	uc       *usecase.UseCases
	apiToken string
}

type Options func(*Server)

// WithAPIToken enables static bearer token authentication. Without it every
// caller is the anonymous user.
func WithAPIToken(token string) Options {
	return func(s *Server) {
		s.apiToken = token
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(userMiddleware(s.apiToken))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.createSessionHandler)
			r.Get("/", s.listSessionsHandler)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.getSessionHandler)
				r.Delete("/", s.deleteSessionHandler)
				r.Post("/screenshots", s.addScreenshotHandler)
				r.Get("/screenshots/{screenshotID}/image", s.screenshotImageHandler)
				r.Post("/regenerate", s.regenerateHandler)
				r.Post("/chat", s.chatHandler)
			})
		})

		// stateless paths, nothing is persisted
		r.Post("/regenerate", s.reconcileHandler)
		r.Post("/chat", s.chatDirectHandler)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
