package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amishk599/jobdelta/internal/model"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverCategories represents the categories object in a Lever posting.
type leverCategories struct {
	Team       string `json:"team"`
	Location   string `json:"location"`
	Commitment string `json:"commitment"`
}

// leverJob represents a single posting in the Lever API response.
type leverJob struct {
	ID               string           `json:"id"`
	Text             string           `json:"text"`
	DescriptionPlain string           `json:"descriptionPlain"`
	Categories       *leverCategories `json:"categories"`
	HostedURL        string           `json:"hostedUrl"`
}

// LeverAdapter fetches postings from the Lever public postings API.
type LeverAdapter struct {
	companySlug string
	userAgent   string
	client      *http.Client
}

// NewLeverAdapter creates a new adapter for a Lever board.
func NewLeverAdapter(companySlug string, client *http.Client, userAgent string) *LeverAdapter {
	return &LeverAdapter{
		companySlug: companySlug,
		userAgent:   userAgent,
		client:      client,
	}
}

// FetchJobs retrieves every posting on the board. The response body is the
// posting list itself. Postings without a hosted URL are dropped since they
// have no canonical link to fingerprint, and so are postings that do not
// decode; the rest of the board is kept.
func (a *LeverAdapter) FetchJobs(ctx context.Context) ([]model.Job, error) {
	url := fmt.Sprintf("%s/%s?mode=json", leverBaseURL, a.companySlug)

	var postings []json.RawMessage
	if err := getJSON(ctx, a.client, url, a.userAgent, &postings); err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", a.companySlug, err)
	}

	jobs := make([]model.Job, 0, len(postings))
	for _, raw := range postings {
		var lj leverJob
		if err := json.Unmarshal(raw, &lj); err != nil {
			continue
		}
		if lj.HostedURL == "" {
			continue
		}

		var location string
		if lj.Categories != nil {
			location = lj.Categories.Location
		}

		jobs = append(jobs, model.Job{
			ID:          model.Fingerprint(lj.HostedURL),
			Company:     a.companySlug,
			Title:       lj.Text,
			Location:    location,
			Description: lj.DescriptionPlain,
			URL:         lj.HostedURL,
			Source:      ProviderLever,
		})
	}

	return jobs, nil
}
