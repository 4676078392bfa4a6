package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"formdetect/internal/classify"
	formhandler "formdetect/internal/form/handler"
	"formdetect/internal/form/service"
	"formdetect/internal/form/store"
	"formdetect/internal/form/tracer"
	"formdetect/internal/platform/config"
	"formdetect/internal/platform/health"
	"formdetect/internal/platform/logger"
	"formdetect/internal/platform/metrics"
	"formdetect/internal/seeder"
	httptransport "formdetect/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle
// small. Business logic lives in the internal form packages.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing formdetect",
		"addr", cfg.Addr,
		"db_path", cfg.DBPath,
		"phone_region", cfg.PhoneRegion,
	)

	classifier := classify.New(classify.WithDefaultRegion(cfg.PhoneRegion))
	catalog := store.NewInMemory()
	storage := store.NewFileStore(cfg.DBPath)
	m := metrics.New(prometheus.DefaultRegisterer)

	svc := service.New(catalog, storage, classifier, log,
		service.WithMetrics(m),
		service.WithTracer(tracer.NewOTel()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loaded, err := svc.Load(ctx)
	if err != nil {
		log.Error("loading catalog failed", "error", err)
		os.Exit(1)
	}
	log.Info("catalog loaded", "templates", loaded)

	if cfg.SeedDemo {
		seeded, err := seeder.New(svc, log).SeedAll(ctx)
		if err != nil {
			log.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		log.Info("demo templates seeded", "registered", seeded)
	}

	healthHandler := health.New()
	healthHandler.RegisterCheck("storage", storage.Health)

	router := httptransport.NewRouter(formhandler.New(svc, log), healthHandler, m, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
