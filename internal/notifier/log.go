package notifier

import (
	"log/slog"
	"strings"

	"github.com/amishk599/jobboard/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes newly seen postings to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each posting via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each posting with company, title, locations, application link
// and publish date. Returns nil (log output does not fail).
func (n *LogNotifier) Notify(jobs []model.JobPosting) error {
	for _, j := range jobs {
		args := []any{"id", j.ID, "company", j.CompanyName, "title", j.Title}
		if len(j.Locations) > 0 {
			args = append(args, "location", strings.Join(j.Locations, "; "))
		}
		if j.WorkModel != "" {
			args = append(args, "work_model", j.WorkModel)
		}
		args = append(args, "url", j.ApplicationLink)
		if j.PubDate != "" {
			args = append(args, "pub_date", j.PubDate)
		}
		n.logger.Info("new job", args...)
	}
	return nil
}
