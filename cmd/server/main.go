package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hybrid-blog-api/internal/api"
	"github.com/hybrid-blog-api/internal/config"
	"github.com/hybrid-blog-api/internal/database"
	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/repository"
	"github.com/hybrid-blog-api/internal/service"
	"github.com/hybrid-blog-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info().Msg("Starting hybrid blog API server...")

	// Each store gets its own driver and connection pool
	dbA, err := database.New(&cfg.StoreA, models.StoreA, database.DriverStoreA, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to store A")
	}
	defer dbA.Close()

	dbB, err := database.New(&cfg.StoreB, models.StoreB, database.DriverStoreB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to store B")
	}
	defer dbB.Close()

	// Run migrations
	if cfg.StoreA.AutoMigrate {
		if err := dbA.RunMigrations(cfg.StoreA.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to run store A migrations")
		}
	}
	if cfg.StoreB.AutoMigrate {
		if err := dbB.RunEmbeddedMigrations(); err != nil {
			log.Fatal().Err(err).Msg("Failed to run store B migrations")
		}
	}

	// Initialize repositories
	stores := repository.New(dbA, dbB)

	// Initialize services
	services := service.NewServices(stores, cfg, log)

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Bool("cross_store_cascade", cfg.CrossStoreCascade).
			Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
