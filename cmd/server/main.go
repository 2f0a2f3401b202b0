package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/cahdeck/internal/api"
	"github.com/youruser/cahdeck/internal/cards"
	"github.com/youruser/cahdeck/internal/config"
	"github.com/youruser/cahdeck/internal/deck"
	"github.com/youruser/cahdeck/internal/logging"
	"github.com/youruser/cahdeck/internal/storage"
	"github.com/youruser/cahdeck/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	s, err := storage.Open(cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	// Load cards at startup (best-effort)
	cat, err := cards.LoadCatalogFromDataDir(cfg.Catalog.Dir)
	if err != nil {
		logger.Warn("no card catalog loaded", zap.String("dir", cfg.Catalog.Dir), zap.Error(err))
	}
	ctx := context.Background()
	defaultID, err := store.Seed(ctx, s, deck.NewBranding("", ""), cat, logger)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	h := api.NewHandler(s, cfg.Export.LogoDir, logger, api.WithIncludeBacks(cfg.Export.IncludeBacks))
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.Store.Driver),
			zap.String("default_deck", defaultID))
		errc <- srv.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-sig:
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
