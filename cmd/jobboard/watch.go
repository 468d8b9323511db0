package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobboard/internal/filter"
	"github.com/amishk599/jobboard/internal/notifier"
	"github.com/amishk599/jobboard/internal/poller"
	"github.com/amishk599/jobboard/internal/scheduler"
	"github.com/amishk599/jobboard/internal/session"
	"github.com/amishk599/jobboard/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the board and log new matches",
	Long:  "Poll the board on watch.interval (or watch.cron) and log postings matching watch.query that were not seen before; blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"endpoint", cfg.Endpoint,
		"interval", cfg.Watch.Interval.String(),
		"cron", cfg.Watch.Cron,
		"query", cfg.Watch.Query,
		"seen_ttl", cfg.Watch.SeenTTL.String(),
	)

	ledger, err := store.NewSQLiteStore()
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer ledger.Close()

	var opts []poller.Option
	if cfg.Watch.Baseline {
		opts = append(opts, poller.WithBaseline())
	}

	jobs := session.New(buildFetcher(cfg, logger), logger)
	p := poller.NewPoller(
		jobs,
		filter.NewSearchFilter(cfg.Watch.Query),
		ledger,
		notifier.NewLogNotifier(logger),
		cfg.Watch.SeenTTL,
		logger,
		opts...,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(p, cfg.Watch.Interval, cfg.Watch.Cron, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
