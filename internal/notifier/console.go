package notifier

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobdelta/internal/model"
)

// Ensure ConsoleNotifier implements model.Notifier.
var _ model.Notifier = (*ConsoleNotifier)(nil)

// ConsoleNotifier prints a bounded preview of new jobs. Styling is dropped
// automatically when w is not a terminal.
type ConsoleNotifier struct {
	w     io.Writer
	limit int

	headingStyle lipgloss.Style
	titleStyle   lipgloss.Style
	metaStyle    lipgloss.Style
	urlStyle     lipgloss.Style
}

// NewConsoleNotifier returns a notifier that previews at most limit jobs on w.
func NewConsoleNotifier(w io.Writer, limit int) *ConsoleNotifier {
	r := lipgloss.NewRenderer(w)
	return &ConsoleNotifier{
		w:            w,
		limit:        limit,
		headingStyle: r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		titleStyle:   r.NewStyle().Bold(true),
		metaStyle:    r.NewStyle().Foreground(lipgloss.Color("245")),
		urlStyle:     r.NewStyle().Foreground(lipgloss.Color("33")).Underline(true),
	}
}

// Notify writes one entry per job: "- title | company | location" followed
// by the indented URL and a blank line.
func (n *ConsoleNotifier) Notify(jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	shown := jobs
	if n.limit > 0 && len(shown) > n.limit {
		shown = shown[:n.limit]
	}

	if _, err := fmt.Fprintln(n.w, n.headingStyle.Render("[PREVIEW]")); err != nil {
		return fmt.Errorf("writing preview: %w", err)
	}
	for _, j := range shown {
		_, err := fmt.Fprintf(n.w, "- %s %s\n  %s\n\n",
			n.titleStyle.Render(j.Title),
			n.metaStyle.Render("| "+j.Company+" | "+j.Location),
			n.urlStyle.Render(j.URL),
		)
		if err != nil {
			return fmt.Errorf("writing preview: %w", err)
		}
	}
	if rest := len(jobs) - len(shown); rest > 0 {
		if _, err := fmt.Fprintf(n.w, "  ...and %d more\n", rest); err != nil {
			return fmt.Errorf("writing preview: %w", err)
		}
	}
	return nil
}
