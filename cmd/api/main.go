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

	"github.com/timmy/brunca/internal/api"
	"github.com/timmy/brunca/internal/api/middleware"
	"github.com/timmy/brunca/internal/catalog"
	"github.com/timmy/brunca/internal/config"
	"github.com/timmy/brunca/internal/logger"
	"github.com/timmy/brunca/internal/preferences"
	"github.com/timmy/brunca/internal/repository"
	"github.com/timmy/brunca/internal/session"
)

func main() {
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// CONFIG_PATH selects the config file in deployments.
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	db, err := repository.InitDB(&cfg.Database, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	prefs := preferences.NewService(repository.NewPreferencesRepository(db), preferences.Config{
		DefaultLanguage:    cfg.Preferences.DefaultLanguage,
		AvailableLanguages: cfg.Preferences.AvailableLanguages,
	}, appLogger)

	client := catalog.NewClient(&catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		APIKey:  cfg.Catalog.APIKey,
		Timeout: cfg.Catalog.Timeout,
	})

	registry := session.NewRegistry(session.Fetchers{
		Destinations: client.Destinations(),
		News:         client.News(),
		Search:       client.Search(),
	}, session.Config{
		IdleTTL:      cfg.Session.IdleTTL,
		FetchTimeout: cfg.Catalog.Timeout,
	}, appLogger)

	prefs.OnLanguageChange(registry.SetLocale)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go registry.Run(ctx, cfg.Session.SweepInterval)

	router := api.SetupRouter(registry, prefs, api.RouterConfig{
		Mode: cfg.Server.Mode,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
	}, appLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port":        cfg.Server.Port,
			"mode":        cfg.Server.Mode,
			"catalog_url": cfg.Catalog.BaseURL,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	appLogger.Info("Server exited")
}
