package notifier

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/amishk599/jobdelta/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleJob(title, company string) model.Job {
	url := "https://jobs.lever.co/" + company + "/" + strings.ReplaceAll(title, " ", "-")
	return model.Job{
		ID:       model.Fingerprint(url),
		Company:  company,
		Title:    title,
		Location: "Remote, EU",
		URL:      url,
		Source:   "lever",
	}
}

func TestSlackNotifier_EmptyJobs(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, 10, srv.Client(), discardLogger())

	if err := n.Notify(nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if err := n.Notify([]model.Job{}); err != nil {
		t.Errorf("Notify([]) = %v, want nil", err)
	}
	if c := calls.Load(); c != 0 {
		t.Errorf("expected 0 HTTP calls, got %d", c)
	}
}

func TestSlackNotifier_SingleDigest(t *testing.T) {
	var calls atomic.Int32
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, 10, srv.Client(), discardLogger())
	jobs := []model.Job{sampleJob("AI Engineer", "mistralai"), sampleJob("ML Engineer", "cohere")}

	if err := n.Notify(jobs); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}
	if c := calls.Load(); c != 1 {
		t.Errorf("expected 1 HTTP call, got %d", c)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Text != "2 new jobs" {
		t.Errorf("fallback text = %q", payload.Text)
	}
	if payload.Blocks[0].Text.Text != "🚀 2 new jobs" {
		t.Errorf("header text = %q", payload.Blocks[0].Text.Text)
	}
	first := payload.Blocks[1].Text.Text
	if !strings.Contains(first, "|AI Engineer>") || !strings.Contains(first, "mistralai · Remote, EU") {
		t.Errorf("first section = %q", first)
	}
	if last := payload.Blocks[len(payload.Blocks)-1]; last.Type != "divider" {
		t.Errorf("expected trailing divider, got %s", last.Type)
	}
}

func TestBuildPayload_CapsJobs(t *testing.T) {
	jobs := []model.Job{
		sampleJob("Engineer 1", "a"),
		sampleJob("Engineer 2", "b"),
		sampleJob("Engineer 3", "c"),
	}

	p := buildPayload(jobs, 2)
	// header + 2 sections + context + divider
	if len(p.Blocks) != 5 {
		t.Fatalf("blocks = %d, want 5", len(p.Blocks))
	}
	ctx := p.Blocks[3]
	if ctx.Type != "context" || ctx.Elements[0].Text != "…and 1 more" {
		t.Errorf("unexpected context block: %+v", ctx)
	}
}

func TestBuildPayload_EscapesMrkdwn(t *testing.T) {
	j := sampleJob("R&D <Lead>", "acme")
	p := buildPayload([]model.Job{j}, 10)
	if got := p.Blocks[1].Text.Text; !strings.Contains(got, "R&amp;D &lt;Lead&gt;") {
		t.Errorf("title not escaped: %q", got)
	}
}

func TestSlackNotifier_SlackReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, 10, srv.Client(), discardLogger())
	if err := n.Notify([]model.Job{sampleJob("AI Engineer", "acme")}); err == nil {
		t.Fatal("expected error for HTTP 500, got nil")
	}
}
