package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ByLCY/gabarito/internal/api"
	"github.com/ByLCY/gabarito/internal/config"
	"github.com/ByLCY/gabarito/layout"
	"github.com/ByLCY/gabarito/preset"
	"github.com/ByLCY/gabarito/renderer"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()

	catalog := preset.Default()
	if cfg.CatalogPath != "" {
		c, err := preset.LoadFile(cfg.CatalogPath)
		if err != nil {
			log.Error("invalid preset catalog", "path", cfg.CatalogPath, "error", err)
			os.Exit(1)
		}
		catalog = c
	}

	r, err := renderer.New(renderer.Options{
		Catalog: catalog,
		Labels:  layout.LabelsFor(cfg.DefaultLocale),
		Logger:  log,
	})
	if err != nil {
		log.Error("failed to create renderer", "error", err)
		os.Exit(1)
	}

	srv := api.NewServer(r, log, cfg)

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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting gabarito", "port", cfg.Port, "catalog", catalog.Name, "locale", cfg.DefaultLocale)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
