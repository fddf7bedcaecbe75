package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdelta/internal/audit"
	"github.com/amishk599/jobdelta/internal/config"
	"github.com/amishk599/jobdelta/internal/filter"
	"github.com/amishk599/jobdelta/internal/model"
	"github.com/amishk599/jobdelta/internal/store"
)

var auditQuery string

var auditCmd = &cobra.Command{
	Use:   "audit --query \"<terms>\"",
	Short: "Browse a board interactively (TUI)",
	Long: "Shows the board picker, then a split-pane view of the board's postings next to\n" +
		"the ones matching the query. Postings missing from the cumulative store are marked NEW.\n" +
		"Nothing is written.",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return requireTerms(auditQuery)
	},
	RunE: runAuditCmd,
}

func init() {
	auditCmd.Flags().StringVarP(&auditQuery, "query", "q", "", "search terms to highlight matches")
	_ = auditCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(auditCmd)
}

func runAuditCmd(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// Console output corrupts the alt screen; only the log file, if any, is written.
	logger, closeLog := setupLogger(cfg, io.Discard, debug)
	defer closeLog()

	stored, err := store.NewCSVStore(cfg.Stores.Cumulative).ReadAll()
	if err != nil {
		return fmt.Errorf("reading cumulative store: %w", err)
	}
	known := make(map[string]struct{}, len(stored))
	perSlug := make(map[string]int)
	for _, j := range stored {
		known[j.ID] = struct{}{}
		perSlug[j.Company]++
	}

	enabled := cfg.EnabledCompanies()
	if len(enabled) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No enabled companies in config.")
		return nil
	}

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	jobFilter := filter.NewQueryFilter(filter.ParseQuery(auditQuery))
	return runAudit(enabled, perSlug, known, jobFilter, cfg, httpClient, logger)
}

func runAudit(
	enabled []config.CompanyConfig,
	perSlug map[string]int,
	known map[string]struct{},
	jobFilter *filter.QueryFilter,
	cfg *config.Config,
	httpClient *http.Client,
	logger *slog.Logger,
) error {
	for {
		choice, err := audit.RunCompanyPicker(enabled, perSlug)
		if err != nil {
			return fmt.Errorf("picker: %w", err)
		}
		if choice < 0 {
			return nil
		}
		company := enabled[choice]

		fetcher, ok := createFetcher(company, cfg, httpClient, logger)
		if !ok {
			fmt.Printf("Unsupported provider: %s\n", company.Provider)
			continue
		}

		board, err := audit.RunLoader(company.Provider+"/"+company.Slug, cfg.HTTP.Timeout, fetcher.FetchJobs)
		if err != nil {
			logger.Warn("audit fetch failed", "company", company.Slug, "error", err)
			fmt.Printf("Error fetching %s: %v\n", company.Slug, err)
			continue
		}

		var matches []model.Job
		for _, j := range board {
			if jobFilter.Match(j) {
				matches = append(matches, j)
			}
		}

		wantQuit, err := audit.RunAuditTUI(board, matches, known, strings.Join(jobFilter.Terms(), " "))
		if err != nil {
			return fmt.Errorf("audit view: %w", err)
		}
		if wantQuit {
			return nil
		}
	}
}
