package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/jobdelta/internal/filter"
	"github.com/amishk599/jobdelta/internal/model"
	"github.com/amishk599/jobdelta/internal/poller"
)

// ErrEmptyQuery is returned when the query has no terms.
var ErrEmptyQuery = errors.New("query has no terms")

// Summary is what one run fetched and stored.
type Summary struct {
	Terms    []string
	Existing int             // ids already in the cumulative store
	Results  []poller.Result // one per company, in polling order
	Scraped  []model.Job     // every post-filter match
	New      []model.Job     // matches not yet in the cumulative store
	DryRun   bool
}

// Failed returns "provider/slug" for every company whose fetch failed.
func (s Summary) Failed() []string {
	var out []string
	for _, r := range s.Results {
		if r.Failed() {
			out = append(out, r.Provider+"/"+r.Company)
		}
	}
	return out
}

// Pipeline runs fetch → filter → dedupe → persist → preview across all
// configured boards, one company at a time.
type Pipeline struct {
	pollers    []*poller.CompanyPoller
	cumulative model.RecordStore
	delta      model.RecordStore
	notifier   model.Notifier
	recorder   model.RunRecorder
	delay      time.Duration
	dryRun     bool
	logger     *slog.Logger
}

// New creates a pipeline. delay is the fixed pause after every company fetch.
func New(
	pollers []*poller.CompanyPoller,
	cumulative model.RecordStore,
	delta model.RecordStore,
	notifier model.Notifier,
	recorder model.RunRecorder,
	delay time.Duration,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		pollers:    pollers,
		cumulative: cumulative,
		delta:      delta,
		notifier:   notifier,
		recorder:   recorder,
		delay:      delay,
		logger:     logger,
	}
}

// SetDryRun makes Run skip every store write. New jobs are still previewed.
func (p *Pipeline) SetDryRun(dryRun bool) {
	p.dryRun = dryRun
}

// Run executes one batch for query. Fetch failures are logged and counted as
// zero matches; store failures abort the run.
func (p *Pipeline) Run(ctx context.Context, query string) (Summary, error) {
	started := time.Now()
	sum := Summary{Terms: filter.ParseQuery(query), DryRun: p.dryRun}
	if len(sum.Terms) == 0 {
		return sum, ErrEmptyQuery
	}

	existing, err := p.cumulative.LoadIDs()
	if err != nil {
		return sum, fmt.Errorf("loading existing ids: %w", err)
	}
	sum.Existing = len(existing)
	p.logger.Info("loaded existing job ids", "count", len(existing))
	p.logger.Info("query terms", "terms", sum.Terms)

	jobFilter := filter.NewQueryFilter(sum.Terms)
	if err := p.pollAll(ctx, jobFilter, &sum); err != nil {
		return sum, err
	}

	sum.New = newJobs(sum.Scraped, existing)
	p.logger.Info("scrape complete", "scraped", len(sum.Scraped), "new", len(sum.New), "failed", len(sum.Failed()))

	if len(sum.New) == 0 {
		p.logger.Info("no new jobs found")
	} else {
		if p.dryRun {
			p.logger.Info("dry-run: stores left untouched")
		} else {
			if err := p.cumulative.Append(sum.New); err != nil {
				return sum, fmt.Errorf("appending to cumulative store: %w", err)
			}
			if err := p.delta.Append(sum.New); err != nil {
				return sum, fmt.Errorf("appending to delta store: %w", err)
			}
			p.logger.Info("saved new jobs to stores", "count", len(sum.New))
		}
		if err := p.notifier.Notify(sum.New); err != nil {
			p.logger.Warn("notification failed", "error", err)
		}
	}

	run := model.RunSummary{
		StartedAt: started,
		Query:     query,
		Scraped:   len(sum.Scraped),
		New:       len(sum.New),
		Failed:    sum.Failed(),
		DryRun:    p.dryRun,
	}
	if err := p.recorder.RecordRun(run); err != nil {
		p.logger.Warn("recording run history failed", "error", err)
	}

	return sum, nil
}

// pollAll runs each poller in order, pausing for the fixed delay after every
// company regardless of outcome.
func (p *Pipeline) pollAll(ctx context.Context, jobFilter model.JobFilter, sum *Summary) error {
	provider := ""
	for _, cp := range p.pollers {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run cancelled: %w", err)
		}
		if cp.Provider != provider {
			provider = cp.Provider
			p.logger.Info("scraping provider", "provider", provider)
		}

		res := cp.Poll(ctx, jobFilter)
		if res.Failed() {
			p.logger.Warn("fetch failed", "company", res.Company, "provider", res.Provider, "error", res.Err)
		}
		p.logger.Info("polled company", "company", res.Company, "provider", res.Provider, "matches", len(res.Jobs))

		sum.Results = append(sum.Results, res)
		sum.Scraped = append(sum.Scraped, res.Jobs...)

		if p.delay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("run cancelled: %w", ctx.Err())
			case <-time.After(p.delay):
			}
		}
	}
	return nil
}

// newJobs keeps the first occurrence of every id absent from existing.
func newJobs(scraped []model.Job, existing map[string]struct{}) []model.Job {
	seen := make(map[string]struct{}, len(scraped))
	var out []model.Job
	for _, j := range scraped {
		if _, ok := existing[j.ID]; ok {
			continue
		}
		if _, ok := seen[j.ID]; ok {
			continue
		}
		seen[j.ID] = struct{}{}
		out = append(out, j)
	}
	return out
}
