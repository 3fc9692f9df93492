package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/api"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/config"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/formats"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build the handler registry before anything can classify.
	overrides, err := config.LoadFormatOverrides(cfg.FormatsFile)
	if err != nil {
		log.Error("invalid formats file", "error", err)
		os.Exit(1)
	}
	registry, err := formats.Registry(overrides)
	if err != nil {
		log.Error("handler registration failed", "error", err)
		os.Exit(1)
	}
	log.Info("registered format handlers", "count", registry.Len())

	// Initialize pipeline.
	analyzer := pipeline.NewAnalyzer(registry, log)
	orch := pipeline.NewOrchestrator(cfg, analyzer, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, registry, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting xml analysis service", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
