package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/amishk599/jobdelta/internal/adapter"
	"github.com/amishk599/jobdelta/internal/config"
	"github.com/amishk599/jobdelta/internal/model"
	"github.com/amishk599/jobdelta/internal/notifier"
	"github.com/amishk599/jobdelta/internal/pipeline"
	"github.com/amishk599/jobdelta/internal/poller"
	"github.com/amishk599/jobdelta/internal/store"
)

var (
	cfgPath string
	debug   bool
	query   string
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "jobdelta --query \"<terms>\"",
	Short: "Job board delta collector",
	Long: "jobdelta polls Lever and Ashby job boards, keeps postings that match any query term,\n" +
		"and appends the ones it has not seen before to the cumulative and delta CSV stores.",
	Example:       `  jobdelta --query "AI engineer europe remote"`,
	SilenceErrors: true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return requireTerms(query)
	},
	RunE: runCollect,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBDELTA_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.Flags().StringVarP(&query, "query", "q", "", "space-separated search terms; a posting matches if it contains any of them")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "fetch, filter and preview new jobs without writing the stores")
	_ = rootCmd.MarkFlagRequired("query")
}

// requireTerms rejects a query with no terms. It runs before RunE, so cobra
// still prints the usage text.
func requireTerms(q string) error {
	if strings.TrimSpace(q) == "" {
		return pipeline.ErrEmptyQuery
	}
	return nil
}

func runCollect(cmd *cobra.Command, args []string) error {
	// Past flag validation, failures are runtime errors, not usage errors.
	cmd.SilenceUsage = true

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, closeLog := setupLogger(cfg, os.Stdout, debug)
	defer closeLog()

	logger.Info("config loaded",
		"companies", len(cfg.EnabledCompanies()),
		"cumulative", cfg.Stores.Cumulative,
		"delta", cfg.Stores.Delta,
		"delay", cfg.HTTP.Delay.String(),
		"timeout", cfg.HTTP.Timeout.String(),
	)

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	pollers := buildPollers(cfg, httpClient, logger)
	if len(pollers) == 0 {
		logger.Error("no companies to poll")
		return errors.New("no companies to poll")
	}

	recorder, closeHistory, err := setupRecorder(cfg)
	if err != nil {
		logger.Error("failed to open run history", "error", err)
		return err
	}
	defer closeHistory()

	p := pipeline.New(
		pollers,
		store.NewCSVStore(cfg.Stores.Cumulative),
		store.NewCSVStore(cfg.Stores.Delta),
		setupNotifier(cfg, cmd.OutOrStdout(), httpClient, logger),
		recorder,
		cfg.HTTP.Delay,
		logger,
	)
	p.SetDryRun(dryRun)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := p.Run(ctx, query)
	if err != nil {
		logger.Error("run failed", "error", err)
		return err
	}

	logger.Info("run complete",
		"existing", sum.Existing,
		"scraped", len(sum.Scraped),
		"new", len(sum.New),
		"failed", sum.Failed(),
		"dry_run", sum.DryRun,
	)
	return nil
}

// loadConfig loads .env, resolves the config path and parses it.
// Priority: explicit path arg > JOBDELTA_CONFIG env var > "./config.yaml".
// Only the implicit default may be missing.
func loadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("JOBDELTA_CONFIG")
	}
	if path == "" {
		return config.LoadOrDefault("config.yaml")
	}
	return config.Load(path)
}

// setupLogger builds a text logger on console, teeing into a rotating file
// when log.file is set. The returned func closes the file.
func setupLogger(cfg *config.Config, console io.Writer, dbg bool) (*slog.Logger, func()) {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}

	w := console
	closeFn := func() {}
	if cfg.Log.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
		}
		w = io.MultiWriter(console, rotator)
		closeFn = func() { _ = rotator.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})), closeFn
}

// setupNotifier always previews on out; notification.type adds a Slack
// digest or a log line per job.
func setupNotifier(cfg *config.Config, out io.Writer, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	multi := notifier.Multi{notifier.NewConsoleNotifier(out, cfg.PreviewLimit)}
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		multi = append(multi, notifier.NewSlackNotifier(cfg.Notification.WebhookURL, cfg.PreviewLimit, httpClient, logger))
	case "log":
		multi = append(multi, notifier.NewLogNotifier(logger))
	}
	return multi
}

// setupRecorder opens the SQLite run log when stores.history is set.
func setupRecorder(cfg *config.Config) (model.RunRecorder, func(), error) {
	if cfg.Stores.History == "" {
		return store.NewNopRecorder(), func() {}, nil
	}
	h, err := store.NewHistoryStore(cfg.Stores.History)
	if err != nil {
		return nil, nil, err
	}
	return h, func() { _ = h.Close() }, nil
}

func createFetcher(company config.CompanyConfig, cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (model.JobFetcher, bool) {
	fetcher, err := adapter.New(company.Provider, company.Slug, httpClient, cfg.HTTP.UserAgent)
	if err != nil {
		logger.Warn("skipping company", "company", company.Slug, "error", err)
		return nil, false
	}
	return fetcher, true
}

func buildPollers(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []*poller.CompanyPoller {
	var pollers []*poller.CompanyPoller
	for _, company := range cfg.EnabledCompanies() {
		fetcher, ok := createFetcher(company, cfg, httpClient, logger)
		if !ok {
			continue
		}
		pollers = append(pollers, poller.NewCompanyPoller(company.Slug, company.Provider, fetcher))
		logger.Debug("registered company", "company", company.Slug, "provider", company.Provider)
	}
	return pollers
}
