package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hyperengineering/lantern/internal/api"
	"github.com/hyperengineering/lantern/internal/worker"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Signal handling
	ctx, cancel := signal.NotifyContext(cmd.Context(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// 2. Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 3. Initialize logger
	logger := newLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)
	slog.Info("configuration loaded")
	slog.Info("logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	// 4. Initialize store and engine (migrations, WAL mode)
	a, err := openApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "path", cfg.Database.Path)
	slog.Info("engine initialized",
		"today", a.engine.Today(),
		"day_number", a.engine.DayNumber(),
		"window_start", a.engine.Window().Start,
		"tasks", a.engine.Registry().Len(),
	)

	// 5. Prayer lookup
	if a.prayer != nil {
		slog.Info("prayer service initialized",
			"city", cfg.Prayer.City,
			"country", cfg.Prayer.Country,
			"method", cfg.Prayer.Method,
		)
	} else {
		slog.Info("prayer lookup disabled")
	}

	// 6. Initialize HTTP router
	handler := api.NewHandler(a.engine, a.prayer, a.place(), Version)
	router := api.NewRouter(handler)
	slog.Info("router initialized")

	// 7. Configure HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
	}

	// 8. Background workers
	var wg sync.WaitGroup
	if a.prayer != nil {
		warm := worker.NewPrayerWarmWorker(a.prayer, a.place(), a.engine.Today,
			cfg.Worker.PrayerWarmInterval.Std())
		startWorker(ctx, &wg, "prayer-warm", warm.Run)
	}

	// 9. Start HTTP server in goroutine
	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is called gracefully.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	// 10. Block until signal received
	<-ctx.Done()
	slog.Info("shutdown initiated")

	// 11. Graceful shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	// 11a. Stop HTTP server (drains in-flight requests)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// 11b. Wait for workers to complete
	wg.Wait()

	// 11c. Close store
	if err := a.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
