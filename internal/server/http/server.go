// Package httpserver exposes the recipe API over HTTP/JSON.
package httpserver

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/and161185/recipebox/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth    service.AuthService
	recipes service.RecipeService
	reviews service.ReviewService
	ranking service.RankingService
	log     *zap.Logger
	cookie  CookiePolicy
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the logger used by handlers and middleware.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithCookiePolicy overrides session cookie attributes.
func WithCookiePolicy(p CookiePolicy) Option {
	return func(s *Server) { s.cookie = p }
}

// New constructs an HTTP server with injected services.
func New(auth service.AuthService, recipes service.RecipeService, reviews service.ReviewService,
	ranking service.RankingService, opts ...Option) *Server {
	s := &Server{
		auth:    auth,
		recipes: recipes,
		reviews: reviews,
		ranking: ranking,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API wrapped in request id, logging and recovery middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /register", s.register)
	mux.HandleFunc("POST /login", s.login)
	mux.Handle("GET /user", s.requireUser(s.currentUser))
	mux.HandleFunc("POST /logout", s.logout)

	mux.Handle("POST /createrecipe", s.requireUser(s.createRecipe))
	mux.Handle("PUT /updaterecipe", s.requireUser(s.updateRecipe))
	mux.Handle("DELETE /updaterecipe", s.requireUser(s.deleteRecipe))

	mux.Handle("POST /createreview", s.requireUser(s.createReview))
	mux.Handle("PUT /updatereview", s.requireUser(s.updateReview))
	mux.Handle("DELETE /updatereview", s.requireUser(s.deleteReview))

	mux.HandleFunc("GET /avgreciperating", s.rankRecipes)
	mux.HandleFunc("POST /userrecipes", s.userRecipes)

	return Chain(mux, RequestID(), Logging(s.log), Recover(s.log))
}
