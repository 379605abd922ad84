package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/slackline-io/slackline/pkg/usecase"
	"github.com/slackline-io/slackline/pkg/utils/logging"
)

type Server struct {
	router        *chi.Mux
	uc            *usecase.UseCases
	signingSecret string
	commandToken  string
}

type Options func(*Server)

// WithSigningSecret enables source-signature verification on the event hook
func WithSigningSecret(secret string) Options {
	return func(s *Server) {
		s.signingSecret = secret
	}
}

// WithCommandToken requires a bearer token on the command hook
func WithCommandToken(token string) Options {
	return func(s *Server) {
		s.commandToken = token
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

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck
	})

	// OAuth callback, hit by the user's browser after granting access
	r.Get("/oauth/callback", s.oauthCallbackHandler())

	// Event webhook: no auth, relies on signature verification when enabled
	r.Route("/hooks/slack", func(r chi.Router) {
		if s.signingSecret != "" {
			r.Use(SlackSignatureMiddleware(s.signingSecret))
		}
		r.Post("/event", s.slackEventHandler())
	})

	// Command hook called by the destination platform
	r.Post("/hooks/command", s.commandHandler())

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
