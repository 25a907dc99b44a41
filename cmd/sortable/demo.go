package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/1broseidon/sortable/internal/metrics"
	"github.com/1broseidon/sortable/internal/runtimepath"
	"github.com/1broseidon/sortable/internal/tui"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Open the interactive demo board",
	Long: `Opens a terminal board whose cards can be reordered with the mouse or
the keyboard. Columns come from the board section of the configuration.

Keybindings:
  arrows, h/j/k/l  Move focus, or move the picked up card
  Enter, Space     Pick up or drop the focused card
  Esc              Cancel the current drag
  q, Ctrl+C        Quit`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().String("metrics-addr", "", "Serve prometheus metrics on this address (e.g. :9090)")
	demoCmd.Flags().String("log-file", "", "Write logs to this file (default: $XDG_RUNTIME_DIR/sortable.log)")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	res, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logPath, _ := cmd.Flags().GetString("log-file")
	if logPath == "" {
		if logPath, err = runtimepath.LogPath(); err != nil {
			return err
		}
	}
	logger, closeLog, err := newLogger(logPath, res.Config.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := tui.Options{Logger: logger}

	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		reg := prometheus.NewRegistry()
		collector, err := metrics.New(reg)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		opts.Metrics = collector

		stop := serveMetrics(addr, reg, logger)
		defer stop()
	}

	return tui.Run(res.Config, opts)
}

// newLogger opens path for appending. The board owns the terminal, so logs
// never go to stderr while it runs.
func newLogger(path, level string) (*slog.Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: logLevel(level),
	}))
	return logger, func() { _ = f.Close() }, nil
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

