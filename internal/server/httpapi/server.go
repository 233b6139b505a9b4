// Package httpapi exposes the server's REST surface: routing, JSON
// handlers, and the bearer-token middleware.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avolkovs/sessionkeeper/internal/logging"
	"github.com/avolkovs/sessionkeeper/internal/server/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	address   string
	users     *services.UserService
	logger    logging.Logger
	jwtSecret []byte
}

func NewServer(address string, l logging.Logger, us *services.UserService, secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		users:     us,
		jwtSecret: []byte(secretKey),
	}
}

// Router assembles the chi routing tree. Auth endpoints are public; profile
// and logout sit behind the bearer middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/api/ping", s.handlePing)

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Post("/logout", s.handleLogout)
			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)
			r.Delete("/profile", s.handleDeleteProfile)
		})
	})

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
