package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amishk599/jobdelta/internal/model"
)

func TestAshbyFetchJobs_Success(t *testing.T) {
	payload := `{
		"apiVersion": "1",
		"jobs": [
			{
				"id": "abc-123",
				"title": "AI Engineer",
				"descriptionText": "Build models",
				"locations": ["Paris", "London"]
			},
			{
				"id": "def-456",
				"title": "Backend Engineer",
				"descriptionText": null,
				"locations": "Remote"
			},
			{
				"id": "ghi-789",
				"title": "Designer"
			}
		]
	}`
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	jobs, err := newAshbyTestAdapter(srv, "acme").FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/posting-api/job-board/acme" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}

	j := jobs[0]
	if j.URL != "https://jobs.ashbyhq.com/acme/job/abc-123" {
		t.Errorf("expected templated URL, got %s", j.URL)
	}
	if j.ID != model.Fingerprint(j.URL) {
		t.Errorf("expected ID to be fingerprint of URL, got %s", j.ID)
	}
	if j.Location != "Paris, London" {
		t.Errorf("expected joined locations, got %q", j.Location)
	}
	if j.Title != "AI Engineer" || j.Description != "Build models" {
		t.Errorf("unexpected title/description %q / %q", j.Title, j.Description)
	}
	if j.Company != "acme" || j.Source != ProviderAshby {
		t.Errorf("unexpected company/source %s / %s", j.Company, j.Source)
	}

	if jobs[1].Location != "" {
		t.Errorf("expected empty location for non-list locations, got %q", jobs[1].Location)
	}
	if jobs[1].Description != "" {
		t.Errorf("expected empty description for null, got %q", jobs[1].Description)
	}
	if jobs[2].Location != "" {
		t.Errorf("expected empty location when field absent, got %q", jobs[2].Location)
	}
}

func TestAshbyFetchJobs_SkipsUndecodablePosting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jobs": [
			{"id": 77, "title": "Broken"},
			{"id": "abc", "title": "ML Engineer", "locations": ["Paris"]}
		]}`))
	}))
	defer srv.Close()

	jobs, err := newAshbyTestAdapter(srv, "acme").FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].URL != "https://jobs.ashbyhq.com/acme/job/abc" || jobs[0].Location != "Paris" {
		t.Errorf("unexpected job %+v", jobs[0])
	}
}

func TestAshbyFetchJobs_EmptyBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"apiVersion": "1", "jobs": []}`))
	}))
	defer srv.Close()

	jobs, err := newAshbyTestAdapter(srv, "empty-co").FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected 0 jobs, got %d", len(jobs))
	}
}

func TestAshbyFetchJobs_MissingJobsField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"apiVersion": "1"}`))
	}))
	defer srv.Close()

	jobs, err := newAshbyTestAdapter(srv, "acme").FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected 0 jobs, got %d", len(jobs))
	}
}

func TestAshbyFetchJobs_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not valid json`))
	}))
	defer srv.Close()

	_, err := newAshbyTestAdapter(srv, "bad-co").FetchJobs(context.Background())
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

func TestAshbyFetchJobs_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newAshbyTestAdapter(srv, "fail-co").FetchJobs(context.Background())
	if err == nil {
		t.Fatal("expected error for HTTP 500, got nil")
	}
}

func TestJoinLocations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"list", `["Berlin", "Remote"]`, "Berlin, Remote"},
		{"single", `["Berlin"]`, "Berlin"},
		{"empty list", `[]`, ""},
		{"string", `"Berlin"`, ""},
		{"null", `null`, ""},
		{"object", `{"name": "Berlin"}`, ""},
		{"absent", ``, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := joinLocations([]byte(tc.raw)); got != tc.want {
				t.Errorf("joinLocations(%s) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

// newAshbyTestAdapter creates an AshbyAdapter wired to a test server.
func newAshbyTestAdapter(srv *httptest.Server, token string) *AshbyAdapter {
	return NewAshbyAdapter(token, redirectClient(srv), DefaultUserAgent)
}
