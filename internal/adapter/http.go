package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amishk599/jobdelta/internal/model"
)

// DefaultUserAgent is sent with every board request unless overridden in config.
const DefaultUserAgent = "Mozilla/5.0"

// getJSON issues a GET to url and decodes a 200 JSON response into v.
// Any other status is returned as *model.HTTPError.
func getJSON(ctx context.Context, client *http.Client, url, userAgent string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
