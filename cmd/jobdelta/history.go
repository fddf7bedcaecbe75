package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdelta/internal/store"
)

var (
	historyLimit int
	historyPrune time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs from the run log",
	Long:  "Prints the most recent runs recorded in the SQLite run log (stores.history).",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete runs older than this before listing (e.g. 720h)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Stores.History == "" {
		return errors.New("run history is disabled; set stores.history in the config")
	}

	h, err := store.NewHistoryStore(cfg.Stores.History)
	if err != nil {
		return err
	}
	defer h.Close()

	if historyPrune > 0 {
		if err := h.Cleanup(historyPrune); err != nil {
			return err
		}
	}

	runs, err := h.RecentRuns(historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "%-19s %7s %5s %-7s %s\n", "Started", "Scraped", "New", "Mode", "Query")
	fmt.Fprintln(out, strings.Repeat("─", 60))
	for _, r := range runs {
		mode := "write"
		if r.DryRun {
			mode = "dry-run"
		}
		fmt.Fprintf(out, "%-19s %7d %5d %-7s %s\n", r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Scraped, r.New, mode, r.Query)
		if len(r.Failed) > 0 {
			fmt.Fprintf(out, "  failed: %s\n", strings.Join(r.Failed, ", "))
		}
	}
	return nil
}
