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
	"github.com/amishk599/jobboard/internal/session"
	"github.com/amishk599/jobboard/internal/store"
)

var checkQuery string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch once, print matches, exit",
	Long:  "One-shot fetch: loads the board, prints postings matching --query (or watch.query), exits. Nothing is recorded.",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkQuery, "query", "q", "", "search text matched against title, company and tags (default: watch.query)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	query := cfg.Watch.Query
	if cmd.Flags().Changed("query") {
		query = checkQuery
	}
	logger.Info("check mode: nothing will be recorded", "query", query)

	jobs := session.New(buildFetcher(cfg, logger), logger)
	p := poller.NewPoller(
		jobs,
		filter.NewSearchFilter(query),
		store.NewNopStore(),
		notifier.NewLogNotifier(logger),
		0,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.Poll(ctx); err != nil {
		logger.Error("check failed", "error", err)
		os.Exit(1)
	}

	logger.Info("check complete")
	return nil
}
