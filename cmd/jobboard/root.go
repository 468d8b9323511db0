package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobboard/internal/adapter"
	"github.com/amishk599/jobboard/internal/config"
	"github.com/amishk599/jobboard/internal/model"
	"github.com/amishk599/jobboard/internal/ratelimit"
	"github.com/amishk599/jobboard/internal/retry"
)

var (
	cfgPath string
	debug   bool
	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "jobboard",
	Short: "Browse, save and apply to job postings from your terminal",
	Long:  "jobboard loads postings from the Empllo job board, lets you search, save and apply to them, and can watch the board for new matches.",
	// Default to `browse` so that `jobboard` with no args opens the TUI.
	RunE: runBrowse,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBBOARD_CONFIG env var or ./config.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file (the TUI otherwise discards them)")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBBOARD_CONFIG env var > "./config.yaml" > defaults.
func loadConfig(path string) (*config.Config, error) {
	return config.Load(config.ResolvePath(path))
}

func setupLogger(dbg bool) *slog.Logger {
	return newLogger(os.Stdout, dbg)
}

func newLogger(w io.Writer, dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// setupTUILogger keeps log output off the alt screen. Logs go to --log-file
// when given and are dropped otherwise. The returned func closes the file.
func setupTUILogger(path string, dbg bool) (*slog.Logger, func() error, error) {
	if path == "" {
		return newLogger(io.Discard, dbg), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return newLogger(f, dbg), f.Close, nil
}

// buildFetcher wires the board adapter with host rate limiting and retries.
// Each retry attempt goes through the limiter.
func buildFetcher(cfg *config.Config, logger *slog.Logger) model.JobFetcher {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	var fetcher model.JobFetcher = adapter.NewEmplloAdapter(cfg.Endpoint, httpClient, logger)
	limiter := ratelimit.NewHostRateLimiter(cfg.Refresh.MinInterval)
	fetcher = ratelimit.NewRateLimitedFetcher(fetcher, limiter, cfg.Endpoint)
	fetcher = retry.NewRetryFetcher(fetcher, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)

	logger.Debug("fetcher configured",
		"endpoint", cfg.Endpoint,
		"timeout", cfg.Timeout.String(),
		"max_retries", cfg.Retry.MaxRetries,
		"min_interval", cfg.Refresh.MinInterval.String(),
	)
	return fetcher
}
