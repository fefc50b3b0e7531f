package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/courtdata/gamelog/internal/cache"
	"github.com/courtdata/gamelog/internal/store"
)

// Server is the Query Service HTTP server. Every request is fully
// independent; the only shared state is the read path into the Row
// Store and the optional response cache.
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates the REST server. The cache may be nil, in which
// case every request reads the store directly.
func NewServer(port string, st store.RowStore, c *cache.Cache, cacheTTL time.Duration) *Server {
	handler := NewHandler(st, c, cacheTTL)

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           newRouter(handler),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// newRouter wires routes and the middleware chain.
func newRouter(handler *Handler) *mux.Router {
	router := mux.NewRouter()

	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)
	router.Use(MetricsMiddleware)

	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/players", handler.SearchPlayers).Methods("GET")
	api.HandleFunc("/bar", handler.GetBar).Methods("GET")
	api.HandleFunc("/rolling", handler.GetRolling).Methods("GET")

	return router
}

// Start starts the REST API server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
