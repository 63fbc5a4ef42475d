package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ascend-app/ascend/internal/api"
	"github.com/ascend-app/ascend/internal/app/progression"
	_ "github.com/ascend-app/ascend/internal/infra/metrics" // Register Prometheus metrics
	"github.com/ascend-app/ascend/internal/infra/sqlite"
)

// Daemon is the Ascend runtime. It wires the store, the progression service,
// and the HTTP server together.
type Daemon struct {
	Config      Config
	DB          *sqlite.DB
	Progression *progression.Service
	Server      *api.Server
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dir := cfg.Storage.Dir
	if dir == "" {
		dir = ascendHome()
	}

	db, err := sqlite.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	svc := progression.NewService(db, db, db, progression.Limits{
		DailyXPLimit: cfg.Progression.DailyXPLimit,
	})

	srv := api.NewServer(svc, db)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:      cfg,
		DB:          db,
		Progression: svc,
		Server:      srv,
	}, nil
}

// Serve runs the HTTP server until the context is canceled or a signal
// arrives, then shuts down gracefully.
func (d *Daemon) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: d.Server.Handler(),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[daemon] listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return d.DB.Close()
}

// Close releases daemon resources without serving.
func (d *Daemon) Close() error {
	return d.DB.Close()
}
