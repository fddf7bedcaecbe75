package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/amishk599/jobdelta/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier posts a digest of new jobs to a Slack channel via an Incoming Webhook.
type SlackNotifier struct {
	webhookURL string
	maxJobs    int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts one message per run listing
// at most maxJobs jobs.
func NewSlackNotifier(webhookURL string, maxJobs int, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		maxJobs:    maxJobs,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends a single Block Kit digest. No message is sent for an empty batch.
func (s *SlackNotifier) Notify(jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	body, err := json.Marshal(buildPayload(jobs, s.maxJobs))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	s.logger.Info("slack digest sent", "jobs", len(jobs))
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func pluralJobs(n int) string {
	if n == 1 {
		return "1 new job"
	}
	return fmt.Sprintf("%d new jobs", n)
}

// escapeMrkdwn escapes the three characters Slack treats as control characters.
func escapeMrkdwn(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}

func buildPayload(jobs []model.Job, maxJobs int) slackPayload {
	summary := pluralJobs(len(jobs))
	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "🚀 " + summary},
		},
	}

	shown := jobs
	if maxJobs > 0 && len(shown) > maxJobs {
		shown = shown[:maxJobs]
	}
	for _, j := range shown {
		line := fmt.Sprintf("*<%s|%s>*\n%s · %s", j.URL, escapeMrkdwn(j.Title), escapeMrkdwn(j.Company), escapeMrkdwn(j.Location))
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: line},
		})
	}

	if rest := len(jobs) - len(shown); rest > 0 {
		blocks = append(blocks, slackBlock{
			Type:     "context",
			Elements: []slackText{{Type: "mrkdwn", Text: fmt.Sprintf("…and %d more", rest)}},
		})
	}
	blocks = append(blocks, slackBlock{Type: "divider"})

	return slackPayload{Text: summary, Blocks: blocks}
}
