package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/zorooz/dayrunner/internal/auth"
	"github.com/zorooz/dayrunner/internal/config"
	"github.com/zorooz/dayrunner/internal/github"
	"github.com/zorooz/dayrunner/internal/sandbox"
)

// Server is the HTTP gateway in front of the authenticator, the execution
// sandbox, and the repository proxy.
type Server struct {
	cfg     *config.Config
	auth    *auth.Service
	sandbox sandbox.Sandbox
	repo    *github.Client
	router  chi.Router
	http    *http.Server
}

// New creates a new Server.
func New(cfg *config.Config, authSvc *auth.Service, sb sandbox.Sandbox, repo *github.Client) *Server {
	s := &Server{
		cfg:     cfg,
		auth:    authSvc,
		sandbox: sb,
		repo:    repo,
		router:  chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// The API is consumed by a separately hosted frontend.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(jsonContentType)

		r.Post("/auth/login", s.handleLogin)

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Post("/auth/create-user", s.handleCreateUser)
			r.Get("/auth/verify", s.handleVerify)

			r.Get("/days", s.handleListDays)
			r.Get("/days/{day}/files", s.handleListDayFiles)
			r.Get("/file/{day}/{filename}", s.handleGetFile)

			r.Post("/execute", s.handleExecute)
		})
	})
}

// jsonContentType sets Content-Type to application/json for API routes.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening on the given port.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("dayrunner listening on http://localhost%s", addr)
	return s.http.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.http.Shutdown(shutdownCtx)
}
