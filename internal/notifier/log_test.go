package notifier

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/amishk599/jobdelta/internal/model"
)

func TestLogNotifier_Notify_zeroJobs(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
	if err := n.Notify(nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLogNotifier_Notify_multipleJobs(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
	jobs := []model.Job{sampleJob("AI Engineer", "acme"), sampleJob("Developer", "beta")}

	if err := n.Notify(jobs); err != nil {
		t.Errorf("Notify(jobs) = %v, want nil", err)
	}
	out := buf.String()
	if strings.Count(out, `msg="new job"`) != 2 {
		t.Errorf("expected 2 log records, got %q", out)
	}
	if !strings.Contains(out, "company=beta") {
		t.Errorf("missing company attr: %q", out)
	}
}
