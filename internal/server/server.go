//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/audit"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/session"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/view"
)

// AuditLogger receives one entry per console mutation.
type AuditLogger interface {
	Log(ctx context.Context, entry audit.Entry)
}

type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Sessions idle for longer than SessionIdle are dropped every SweepInterval.
	SessionIdle   time.Duration
	SweepInterval time.Duration
}

type Server struct {
	cfg      Config
	sessions *session.Registry
	renderer *view.Renderer
	audit    AuditLogger
	logger   *zap.Logger
	server   *http.Server
}

func New(cfg Config, sessions *session.Registry, auditLogger AuditLogger, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionIdle <= 0 {
		cfg.SessionIdle = 12 * time.Hour
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 10 * time.Minute
	}
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		renderer: view.NewRenderer(),
		audit:    auditLogger,
		logger:   logger,
	}
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	go s.sweepSessions(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("console server starting", zap.String("addr", s.cfg.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down console server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("console server stopped")
	return nil
}

func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sessions.Sweep(s.cfg.SessionIdle)
		}
	}
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(securityHeaders)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)

	app := router.NewRoute().Subrouter()
	app.Use(s.sessionMiddleware, s.auditMiddleware)

	app.HandleFunc("/", redirectTo("/console")).Methods(http.MethodGet)
	app.HandleFunc("/console", s.handleConsole).Methods(http.MethodGet)
	app.HandleFunc("/console/refresh", s.action(actRefresh)).Methods(http.MethodPost).Name("refresh")

	app.HandleFunc("/console/sources", s.action(actCreateSource)).Methods(http.MethodPost).Name("source_create")
	app.HandleFunc("/console/sources/{id:[0-9]+}/select", s.action(actSelectSource)).Methods(http.MethodPost).Name("source_select")
	app.HandleFunc("/console/sources/{id:[0-9]+}/delete", s.action(actDeleteSource)).Methods(http.MethodPost).Name("source_delete")

	app.HandleFunc("/console/warehouses", s.action(actCreateWarehouse)).Methods(http.MethodPost).Name("warehouse_create")
	app.HandleFunc("/console/warehouses/{id:[0-9]+}/select", s.action(actSelectWarehouse)).Methods(http.MethodPost).Name("warehouse_select")
	app.HandleFunc("/console/warehouses/{id:[0-9]+}/delete", s.action(actDeleteWarehouse)).Methods(http.MethodPost).Name("warehouse_delete")

	app.HandleFunc("/console/shipments", s.action(actCreateShipment)).Methods(http.MethodPost).Name("shipment_create")
	app.HandleFunc("/console/shipments/{id:[0-9]+}/select", s.action(actSelectShipment)).Methods(http.MethodPost).Name("shipment_select")
	app.HandleFunc("/console/shipments/{id:[0-9]+}/delete", s.action(actDeleteShipment)).Methods(http.MethodPost).Name("shipment_delete")
	app.HandleFunc("/console/shipments/{id:[0-9]+}/scans.xlsx", s.handleExportScans).Methods(http.MethodGet)

	app.HandleFunc("/console/shipment-warehouses", s.action(actAttachWarehouse)).Methods(http.MethodPost).Name("shipment_warehouse_attach")
	app.HandleFunc("/console/shipment-warehouses/{id:[0-9]+}/select", s.action(actSelectShipmentWarehouse)).Methods(http.MethodPost).Name("shipment_warehouse_select")
	app.HandleFunc("/console/shipment-warehouses/{id:[0-9]+}/delete", s.action(actDeleteShipmentWarehouse)).Methods(http.MethodPost).Name("shipment_warehouse_delete")

	app.HandleFunc("/console/boxes", s.action(actCreateBox)).Methods(http.MethodPost).Name("box_create")
	app.HandleFunc("/console/boxes/{id:[0-9]+}/select", s.action(actSelectBox)).Methods(http.MethodPost).Name("box_select")
	app.HandleFunc("/console/boxes/{id:[0-9]+}/delete", s.action(actDeleteBox)).Methods(http.MethodPost).Name("box_delete")

	app.HandleFunc("/console/scans", s.action(actScan)).Methods(http.MethodPost).Name("scan")
	app.HandleFunc("/console/scans/undo", s.action(actUndoScan)).Methods(http.MethodPost).Name("scan_undo")
	app.HandleFunc("/console/scans/{id:[0-9]+}/delete", s.action(actDeleteScan)).Methods(http.MethodPost).Name("scan_delete")

	app.HandleFunc("/profile", s.handleProfile).Methods(http.MethodGet)
	app.HandleFunc("/profile", s.handleSaveProfile).Methods(http.MethodPost).Name("profile_save")

	return router
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func redirectTo(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusSeeOther)
	}
}
