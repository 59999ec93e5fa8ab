// ABOUTME: REST API server for assets, employees and asset histories
// ABOUTME: Wires chi routes, middleware, health, metrics and the assignment graph
package web

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/johanaerens/assetmanagement/db"
	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/viz"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Server struct {
	db         *sql.DB
	log        logrus.FieldLogger
	validate   *validator.Validate
	metrics    *metrics
	registry   *prometheus.Registry
	router     chi.Router
	mu         sync.Mutex
	httpServer *http.Server

	assets    *db.AssetRepository
	employees *db.EmployeeRepository
	histories *db.AssetHistoryRepository
}

func NewServer(database *sql.DB, log logrus.FieldLogger) *Server {
	registry := prometheus.NewRegistry()
	s := &Server{
		db:        database,
		log:       log,
		validate:  newValidator(),
		metrics:   newMetrics(registry),
		registry:  registry,
		assets:    db.NewAssetRepository(database),
		employees: db.NewEmployeeRepository(database),
		histories: db.NewAssetHistoryRepository(database),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.instrument)
	r.Use(s.recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/graph/assignments", s.handleAssignmentGraph)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	mountResource(r, s, models.AssetDescriptor, s.assets)
	mountResource(r, s, models.EmployeeDescriptor, s.employees)
	mountResource(r, s, models.AssetHistoryDescriptor, s.histories)

	return r
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	s.log.WithField("addr", addr).Info("Starting API server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DOWN", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

func (s *Server) handleAssignmentGraph(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in viz.Assignments
	var err error
	if in.Employees, err = s.employees.List(ctx, db.ListOptions{}); err != nil {
		s.internalError(w, r, err)
		return
	}
	if in.Assets, err = s.assets.List(ctx, db.ListOptions{}); err != nil {
		s.internalError(w, r, err)
		return
	}
	if in.Histories, err = s.histories.List(ctx, db.ListOptions{}); err != nil {
		s.internalError(w, r, err)
		return
	}

	dot, err := viz.GenerateAssignmentGraph(ctx, in)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dot))
}
