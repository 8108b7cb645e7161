package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fortuna/gridiron/internal/cache"
	"github.com/fortuna/gridiron/internal/scrape"
	"github.com/gorilla/mux"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server. The response cache may be nil;
// the API then scrapes on every request.
func NewServer(port string, scraper *scrape.Scraper, responses *cache.ResponseCache) *Server {
	handler := NewHandler(scraper, responses)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)

	// Health check and welcome page
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	router.HandleFunc("/", handler.Index).Methods("GET")

	// Leaderboard API; CORS is wide open so the public frontend can call it
	// from anywhere.
	api := router.PathPrefix("/api").Subrouter()
	api.Use(CORSMiddleware)
	api.HandleFunc("/", handler.GetGroupLeaderboard).Methods("GET", "OPTIONS")
	api.HandleFunc("", handler.GetGroupLeaderboard).Methods("GET", "OPTIONS")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
