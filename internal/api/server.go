package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"rusunawa/internal/booking"
	"rusunawa/internal/config"
	"rusunawa/internal/domain"
	"rusunawa/internal/export"

	"github.com/rs/zerolog"
)

// Server exposes the tenant portal HTTP API.
type Server struct {
	cfg      config.Config
	backend  domain.BackendAPI
	sessions domain.SessionManager
	attempts domain.AttemptLog
	reports  domain.ReportEnqueuer
	exporter *export.Exporter
	flows    *flowRegistry
	logger   *zerolog.Logger
	server   *http.Server
	auth     *HTTPAuth
}

func NewServer(
	cfg config.Config,
	backend domain.BackendAPI,
	sessions domain.SessionManager,
	attempts domain.AttemptLog,
	reports domain.ReportEnqueuer,
	exporter *export.Exporter,
	newFlow func() *booking.Flow,
	logger *zerolog.Logger,
) *Server {
	mux := http.NewServeMux()
	srv := &Server{
		cfg:      cfg,
		backend:  backend,
		sessions: sessions,
		attempts: attempts,
		reports:  reports,
		exporter: exporter,
		flows:    newFlowRegistry(newFlow),
		logger:   logger,
	}
	srv.auth = NewHTTPAuth(cfg.HTTP)

	mux.HandleFunc("/api/v1/rooms", srv.handleRooms)
	mux.HandleFunc("/api/v1/rooms/", srv.handleRoomByID)
	mux.HandleFunc("/api/v1/eligibility", srv.handleEligibility)
	mux.HandleFunc("/api/v1/bookings", srv.handleSubmit)
	mux.HandleFunc("/api/v1/drafts/", srv.handleDraft)
	mux.HandleFunc("/api/v1/sessions", srv.handleSessionCreate)
	mux.HandleFunc("/api/v1/sessions/", srv.handleSessionByTenant)
	mux.HandleFunc("/api/v1/tenants/", srv.handleTenant)
	mux.HandleFunc("/api/v1/ops/stats", srv.handleOpsStats)
	mux.HandleFunc("/api/v1/ops/resync", srv.handleOpsResync)
	mux.HandleFunc("/healthz", srv.handleHealth)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// flowRegistry holds one booking flow per tenant. Flows are created
// lazily; a tenant's checks and submission always hit the same flow so
// the state machine guards apply across requests.
type flowRegistry struct {
	mu      sync.Mutex
	flows   map[int64]*booking.Flow
	newFlow func() *booking.Flow
}

func newFlowRegistry(newFlow func() *booking.Flow) *flowRegistry {
	return &flowRegistry{
		flows:   make(map[int64]*booking.Flow),
		newFlow: newFlow,
	}
}

func (r *flowRegistry) get(tenantID int64) *booking.Flow {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flows[tenantID]
	if !ok {
		f = r.newFlow()
		r.flows[tenantID] = f
	}
	return f
}

func (r *flowRegistry) drop(tenantID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flows, tenantID)
}
