package notifier

import (
	"log/slog"

	"github.com/amishk599/jobdelta/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new jobs to the given logger as structured records.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each job via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each job with company, title, location, url and id.
func (n *LogNotifier) Notify(jobs []model.Job) error {
	for _, j := range jobs {
		n.logger.Info("new job",
			"company", j.Company,
			"provider", j.Source,
			"title", j.Title,
			"location", j.Location,
			"url", j.URL,
			"id", j.ID,
		)
	}
	return nil
}
