package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobdelta/internal/model"
)

var errLoadCancelled = errors.New("cancelled")

type boardLoadedMsg struct {
	jobs []model.Job
	err  error
}

type loaderModel struct {
	board   string
	timeout time.Duration
	fetchFn func(ctx context.Context) ([]model.Job, error)
	spinner spinner.Model
	jobs    []model.Job
	err     error
	done    bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.spinner.Tick)
}

func (m loaderModel) fetch() tea.Cmd {
	fetchFn, timeout := m.fetchFn, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		jobs, err := fetchFn(ctx)
		return boardLoadedMsg{jobs: jobs, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		m.jobs, m.err, m.done = msg.jobs, msg.err, true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err, m.done = errLoadCancelled, true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Fetching %s...\n", m.spinner.View(), m.board)
}

// RunLoader shows a spinner while fetchFn loads a board. It renders inline
// (no alt screen) and gives up after timeout.
func RunLoader(board string, timeout time.Duration, fetchFn func(ctx context.Context) ([]model.Job, error)) ([]model.Job, error) {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	m := loaderModel{
		board:   board,
		timeout: timeout,
		fetchFn: fetchFn,
		spinner: s,
	}
	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, err
	}
	final := result.(loaderModel)
	return final.jobs, final.err
}
