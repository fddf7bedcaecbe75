package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/amishk599/jobdelta/internal/model"
)

const (
	ashbyBaseURL    = "https://api.ashbyhq.com/posting-api/job-board"
	ashbyJobURLBase = "https://jobs.ashbyhq.com"
)

// ashbyJob represents a single posting in the Ashby API response.
type ashbyJob struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	DescriptionText string          `json:"descriptionText"`
	Locations       json.RawMessage `json:"locations"`
}

// ashbyResponse is the top-level Ashby job board API response. Postings are
// decoded one at a time in FetchJobs.
type ashbyResponse struct {
	Jobs []json.RawMessage `json:"jobs"`
}

// AshbyAdapter fetches postings from the Ashby public job board API.
type AshbyAdapter struct {
	boardToken string
	userAgent  string
	client     *http.Client
}

// NewAshbyAdapter creates a new adapter for an Ashby job board.
func NewAshbyAdapter(boardToken string, client *http.Client, userAgent string) *AshbyAdapter {
	return &AshbyAdapter{
		boardToken: boardToken,
		userAgent:  userAgent,
		client:     client,
	}
}

// FetchJobs retrieves every posting under the response's "jobs" field. The
// canonical URL is built from the board token and the posting id. A posting
// that does not decode is skipped.
func (a *AshbyAdapter) FetchJobs(ctx context.Context) ([]model.Job, error) {
	url := fmt.Sprintf("%s/%s", ashbyBaseURL, a.boardToken)

	var ashbyResp ashbyResponse
	if err := getJSON(ctx, a.client, url, a.userAgent, &ashbyResp); err != nil {
		return nil, fmt.Errorf("ashby fetch for %s: %w", a.boardToken, err)
	}

	jobs := make([]model.Job, 0, len(ashbyResp.Jobs))
	for _, raw := range ashbyResp.Jobs {
		var aj ashbyJob
		if err := json.Unmarshal(raw, &aj); err != nil {
			continue
		}
		jobURL := a.jobURL(aj.ID)
		jobs = append(jobs, model.Job{
			ID:          model.Fingerprint(jobURL),
			Company:     a.boardToken,
			Title:       aj.Title,
			Location:    joinLocations(aj.Locations),
			Description: aj.DescriptionText,
			URL:         jobURL,
			Source:      ProviderAshby,
		})
	}

	return jobs, nil
}

func (a *AshbyAdapter) jobURL(postingID string) string {
	return fmt.Sprintf("%s/%s/job/%s", ashbyJobURLBase, a.boardToken, postingID)
}

// joinLocations joins a JSON list of location strings with ", ".
// Anything that is not a list of strings yields "".
func joinLocations(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var locs []string
	if err := json.Unmarshal(raw, &locs); err != nil {
		return ""
	}
	return strings.Join(locs, ", ")
}
