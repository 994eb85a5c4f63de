package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"text/tabwriter"

	"github.com/hyperengineering/lantern/internal/config"
	"github.com/hyperengineering/lantern/internal/persist"
	"github.com/hyperengineering/lantern/internal/prayer"
	"github.com/hyperengineering/lantern/internal/store"
	"github.com/hyperengineering/lantern/internal/tracker"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var (
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "lantern",
	Short: "Lantern - Ramadan habit tracker",
	Long: "Track daily worship, health, and personal habits across the 30 days of Ramadan.\n" +
		"Run 'lantern serve' for the HTTP API or use the subcommands directly.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file path (overrides LANTERN_CONFIG_PATH)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output in JSON format")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(reflectCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(prayerCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads configuration from --config when given, otherwise from
// LANTERN_CONFIG_PATH or the default location.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// newLogger builds the process logger in the configured format.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// app holds the components shared by the server and the one-shot commands.
type app struct {
	cfg    *config.Config
	db     *store.SQLiteStore
	engine *tracker.Engine
	prayer *prayer.Service // nil when prayer lookup is disabled
}

// openApp opens the store and loads the engine from it.
func openApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	loc, err := cfg.Window.Location()
	if err != nil {
		return nil, err
	}
	window, err := tracker.NewWindow(cfg.Window.Start)
	if err != nil {
		return nil, err
	}

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	adapter := persist.New(db, logger)
	a := &app{
		cfg: cfg,
		db:  db,
		engine: tracker.New(ctx, adapter,
			tracker.WithLocation(loc),
			tracker.WithWindow(window),
		),
	}

	if cfg.Prayer.Enabled {
		client := prayer.NewClient(prayer.ClientOptions{
			BaseURL:  cfg.Prayer.BaseURL,
			Timeout:  cfg.Prayer.Timeout.Std(),
			RetryMax: cfg.Prayer.RetryMax,
			Logger:   logger,
		})
		a.prayer = prayer.NewService(client, adapter, logger)
	}

	return a, nil
}

// place returns the configured prayer location without a date.
func (a *app) place() prayer.Query {
	return prayer.Query{
		City:    a.cfg.Prayer.City,
		Country: a.cfg.Prayer.Country,
		Method:  a.cfg.Prayer.Method,
	}
}

// Close releases the store.
func (a *app) Close() error {
	return a.db.Close()
}

// openCommandApp loads config and opens the app for a one-shot command.
// Logs go to the command's stderr so stdout stays machine-readable.
func openCommandApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return openApp(cmd.Context(), cfg, newLogger(cfg.Log, cmd.ErrOrStderr()))
}

// startWorker launches a background worker goroutine that respects context cancellation.
// Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter creates a tabwriter for aligned columnar output.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
