// Package devserver is a local stand-in for the Mazury backend. It serves
// the REST surface the client talks to, keeps profiles in memory and checks
// wallet signatures the same way production does.
package devserver

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mazury/mazury-client/internal/devserver/auth"
	"github.com/mazury/mazury-client/internal/devserver/profiles"
	"github.com/mazury/mazury-client/internal/logging"
)

// Server holds the handlers' dependencies.
type Server struct {
	issuer     *auth.Issuer
	profiles   profiles.Repository
	siweDomain string
	origins    []string
	log        logging.Logger

	mu     sync.Mutex
	nonces map[string]struct{}
}

type Option func(*Server)

func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithAllowedOrigins sets the CORS origins. The default allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

func NewServer(issuer *auth.Issuer, repo profiles.Repository, siweDomain string, opts ...Option) *Server {
	s := &Server{
		issuer:     issuer,
		profiles:   repo,
		siweDomain: siweDomain,
		origins:    []string{"*"},
		log:        logging.Nop(),
		nonces:     map[string]struct{}{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Signature"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Post("/auth/siwe/verify", s.verifySIWE)
	r.Post("/auth/refresh", s.refresh)
	r.Get("/validate/{field}", s.validate)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAccessToken)

		r.Get("/profile/{address}", s.getProfile)
		r.Patch("/profile/{address}", s.updateProfile)
	})

	return r
}
