package poller

import (
	"context"
	"fmt"

	"github.com/amishk599/jobdelta/internal/model"
)

// Result is the outcome of polling one company board. When Err is set the
// fetch failed and Jobs is empty.
type Result struct {
	Company  string
	Provider string
	Jobs     []model.Job
	Err      error
}

// Failed reports whether the board could not be fetched.
func (r Result) Failed() bool {
	return r.Err != nil
}

// CompanyPoller owns fetch → filter → normalize for a single company board.
type CompanyPoller struct {
	Name     string
	Provider string
	fetcher  model.JobFetcher
}

// NewCompanyPoller creates a poller for one board.
func NewCompanyPoller(name, provider string, fetcher model.JobFetcher) *CompanyPoller {
	return &CompanyPoller{
		Name:     name,
		Provider: provider,
		fetcher:  fetcher,
	}
}

// Poll fetches the board and keeps the postings that match filter. Matching
// runs on the full description; stored records carry the truncated one.
// Poll never returns an error: a failed fetch is reported in Result.Err with
// no jobs.
func (p *CompanyPoller) Poll(ctx context.Context, filter model.JobFilter) Result {
	res := Result{Company: p.Name, Provider: p.Provider}

	jobs, err := p.fetcher.FetchJobs(ctx)
	if err != nil {
		res.Err = fmt.Errorf("polling %s/%s: %w", p.Provider, p.Name, err)
		return res
	}

	for _, job := range jobs {
		if !filter.Match(job) {
			continue
		}
		job.Description = model.TruncateDescription(job.Description)
		res.Jobs = append(res.Jobs, job)
	}
	return res
}
