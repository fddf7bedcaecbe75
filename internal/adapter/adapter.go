package adapter

import (
	"fmt"
	"net/http"

	"github.com/amishk599/jobdelta/internal/model"
)

// Supported provider names, as used in config and in the Job.Source field.
const (
	ProviderLever = "lever"
	ProviderAshby = "ashby"
)

// Providers lists the supported providers in polling order.
var Providers = []string{ProviderLever, ProviderAshby}

// New returns the fetcher for slug on the named provider.
func New(provider, slug string, client *http.Client, userAgent string) (model.JobFetcher, error) {
	switch provider {
	case ProviderLever:
		return NewLeverAdapter(slug, client, userAgent), nil
	case ProviderAshby:
		return NewAshbyAdapter(slug, client, userAgent), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
}
