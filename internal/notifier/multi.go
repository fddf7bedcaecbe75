package notifier

import (
	"errors"
	"time"

	"github.com/amishk599/jobdelta/internal/model"
)

// Multi fans a batch out to several notifiers. Every notifier is called even
// when an earlier one fails; the failures are joined.
type Multi []model.Notifier

func (m Multi) Notify(jobs []model.Job) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(jobs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SendTestMessage sends a dummy job through n to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	url := "https://jobs.lever.co/jobdelta/test-" + time.Now().Format("20060102")
	testJob := model.Job{
		ID:          model.Fingerprint(url),
		Company:     "jobdelta",
		Title:       "Test Notification - Integration Verified",
		Location:    "Everywhere",
		Description: "This is a test notification.",
		URL:         url,
		Source:      "test",
	}
	return n.Notify([]model.Job{testJob})
}
