package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobboard/internal/apply"
	"github.com/amishk599/jobboard/internal/session"
	"github.com/amishk599/jobboard/internal/store"
	"github.com/amishk599/jobboard/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive job board",
	Long:  "Open the full-screen job board: search postings, save them, and fill in applications.",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, closeLog, err := setupTUILogger(logFile, debug)
	if err != nil {
		return err
	}
	defer closeLog()

	ledger, err := store.NewSQLiteStore()
	if err != nil {
		return fmt.Errorf("opening session ledger: %w", err)
	}
	defer ledger.Close()

	jobs := session.New(buildFetcher(cfg, logger), logger, session.WithDarkMode(cfg.DarkTheme()))
	submitter := apply.NewSubmitter(ledger, logger)

	logger.Info("starting tui", "endpoint", cfg.Endpoint, "theme", cfg.Theme)
	if err := tui.Run(jobs, submitter); err != nil {
		return err
	}

	apps, err := ledger.Applications()
	if err != nil {
		logger.Warn("reading applications", "error", err)
		return nil
	}
	logger.Info("session ended", "applications", len(apps))
	return nil
}
