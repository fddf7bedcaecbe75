package audit

import (
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobdelta/internal/model"
)

// Lines per posting in a pane (title + subtitle + blank separator).
const rowHeight = 3

const (
	paneBoard = iota
	paneMatches
)

type screen int

const (
	screenPanes screen = iota
	screenDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39"))

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	paneHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle   = paneHeaderStyle.Foreground(lipgloss.Color("39"))
	inactiveHeaderStyle = paneHeaderStyle.Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	rowTitleStyle    = lipgloss.NewStyle().Bold(true)
	rowSubtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	newBadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("42"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Width(12)

	detailHeadingStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15"))

	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	bodyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// auditModel shows a board's full listing next to the postings that match
// the query. Postings whose id is absent from the cumulative store carry a
// NEW badge.
type auditModel struct {
	board   []model.Job
	matches []model.Job
	known   map[string]struct{}
	query   string

	panes   [2]viewport.Model
	cursors [2]int
	active  int
	onlyNew bool

	width, height int
	ready         bool

	screen   screen
	selected model.Job
	detail   viewport.Model
	showDesc bool

	wantQuit bool
}

func newAuditModel(board, matches []model.Job, known map[string]struct{}, query string) auditModel {
	m := auditModel{
		board:   append([]model.Job(nil), board...),
		matches: append([]model.Job(nil), matches...),
		known:   known,
		query:   query,
	}
	sortNewFirst(m.board, known)
	sortNewFirst(m.matches, known)
	return m
}

func (m auditModel) isNew(j model.Job) bool {
	_, seen := m.known[j.ID]
	return !seen
}

// visible returns the rows of pane p after the NEW-only toggle.
func (m auditModel) visible(p int) []model.Job {
	jobs := m.board
	if p == paneMatches {
		jobs = m.matches
	}
	if !m.onlyNew {
		return jobs
	}
	var out []model.Job
	for _, j := range jobs {
		if m.isNew(j) {
			out = append(out, j)
		}
	}
	return out
}

func (m auditModel) Init() tea.Cmd {
	return nil
}

func (m auditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		if m.screen == screenDetail {
			m.detail.Width = m.width - 4
			m.detail.Height = m.height - 4
			m.detail.SetContent(m.renderDetail())
		}
		return m, nil
	case tea.KeyMsg:
		if m.screen == screenDetail {
			return m.updateDetail(msg)
		}
		return m.updatePanes(msg)
	}
	return m, nil
}

func (m auditModel) updatePanes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		return m, tea.Quit
	case "tab", "left", "right":
		m.active = 1 - m.active
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "n":
		m.onlyNew = !m.onlyNew
		m.cursors = [2]int{}
		for p := range m.panes {
			m.panes[p].SetYOffset(0)
		}
	case "enter":
		rows := m.visible(m.active)
		if len(rows) == 0 {
			return m, nil
		}
		m.selected = rows[m.cursors[m.active]]
		m.screen = screenDetail
		m.showDesc = false
		m.detail = viewport.New(m.width-4, m.height-4)
		m.detail.SetContent(m.renderDetail())
		return m, nil
	default:
		// pgup/pgdn/home/end scroll the active pane.
		var cmd tea.Cmd
		m.panes[m.active], cmd = m.panes[m.active].Update(msg)
		return m, cmd
	}
	m.refresh()
	return m, nil
}

func (m auditModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.screen = screenPanes
		return m, nil
	case "o":
		openURL(m.selected.URL)
		return m, nil
	case "r":
		if m.selected.Description != "" {
			m.showDesc = !m.showDesc
			m.detail.SetContent(m.renderDetail())
			m.detail.SetYOffset(0)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *auditModel) move(delta int) {
	last := max(len(m.visible(m.active))-1, 0)
	m.cursors[m.active] = clamp(m.cursors[m.active]+delta, 0, last)

	vp := &m.panes[m.active]
	top := m.cursors[m.active] * rowHeight
	bottom := top + rowHeight - 1
	if top < vp.YOffset {
		vp.SetYOffset(top)
	} else if bottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(bottom - vp.Height + 1)
	}
}

func (m *auditModel) layout() {
	// Two borders per pane plus a one-column gap.
	w := max((m.width-5)/2, 20)
	// Header, top and bottom border, status bar.
	h := max(m.height-4, 5)

	for p := range m.panes {
		if !m.ready {
			m.panes[p] = viewport.New(w, h)
			continue
		}
		m.panes[p].Width, m.panes[p].Height = w, h
	}
	m.ready = true
	m.refresh()
}

func (m *auditModel) refresh() {
	for p := range m.panes {
		m.panes[p].SetContent(m.renderRows(m.visible(p), m.cursors[p], p == m.active))
	}
}

func (m auditModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.screen == screenDetail {
		return m.viewDetail()
	}
	return m.viewPanes()
}

func (m auditModel) viewPanes() string {
	w := m.panes[paneBoard].Width
	titles := [2]string{
		fmt.Sprintf(" Board (%d)", len(m.visible(paneBoard))),
		fmt.Sprintf(" Matches for %q (%d)", m.query, len(m.visible(paneMatches))),
	}

	var headers, bodies [2]string
	for p := range m.panes {
		header, border := inactiveHeaderStyle, inactiveBorderStyle
		if p == m.active {
			header, border = activeHeaderStyle, activeBorderStyle
		}
		headers[p] = lipgloss.NewStyle().Width(w + 2).Render(header.Render(titles[p]))
		bodies[p] = border.Width(w).Render(m.panes[p].View())
	}

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top, headers[0], " ", headers[1])
	paneRow := lipgloss.JoinHorizontal(lipgloss.Top, bodies[0], " ", bodies[1])

	fresh := 0
	for _, j := range m.matches {
		if m.isNew(j) {
			fresh++
		}
	}
	mode := "all"
	if m.onlyNew {
		mode = "new only"
	}
	status := fmt.Sprintf(" %d on board | %d matched | %d new [%s]    tab switch  ↑/↓ move  n new-only  enter detail  esc back  q quit",
		len(m.board), len(m.matches), fresh, mode)

	return headerRow + "\n" + paneRow + "\n" + statusBarStyle.Width(m.width).Render(status)
}

func (m auditModel) viewDetail() string {
	heading := detailHeadingStyle.Render("Posting")
	body := activeBorderStyle.Width(m.width - 2).Render(m.detail.View())

	status := " o open URL  esc back  ↑/↓ scroll  q quit"
	if m.selected.Description != "" {
		status = " o open URL  r description  esc back  ↑/↓ scroll  q quit"
	}
	return heading + "\n" + body + "\n" + statusBarStyle.Width(m.width).Render(status)
}

func (m auditModel) renderDetail() string {
	j := m.selected
	var b strings.Builder

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	field("Title", j.Title)
	field("Company", j.Company)
	field("Location", j.Location)
	field("Provider", j.Source)
	field("ID", j.ID)
	field("URL", j.URL)
	b.WriteByte('\n')
	if m.isNew(j) {
		b.WriteString(newBadgeStyle.Render(" NEW ") + " not yet in the cumulative store\n")
	} else {
		b.WriteString(hintStyle.Render("  already stored") + "\n")
	}

	if j.Description == "" {
		return b.String()
	}

	wrap := max(m.width-8, 20)
	b.WriteByte('\n')
	if !m.showDesc {
		b.WriteString(hintStyle.Render("  press r to read the description") + "\n")
		return b.String()
	}
	label := "── Description "
	b.WriteString(dividerStyle.Render(label+strings.Repeat("─", max(wrap-len(label), 3))) + "\n\n")
	b.WriteString(bodyStyle.Render(wordWrap(j.Description, wrap)) + "\n")
	return b.String()
}

func (m auditModel) renderRows(jobs []model.Job, cursor int, active bool) string {
	if len(jobs) == 0 {
		return "  (no postings)"
	}

	var b strings.Builder
	for i, j := range jobs {
		title, sub, prefix := rowTitleStyle, rowSubtitleStyle, "  "
		if active && i == cursor {
			title, sub, prefix = selectedTitleStyle, selectedSubtitleStyle, "> "
		}

		b.WriteString(prefix)
		if m.isNew(j) {
			b.WriteString(newBadgeStyle.Render("NEW") + " ")
		}
		b.WriteString(title.Render(j.Title))
		b.WriteByte('\n')

		loc := j.Location
		if loc == "" {
			loc = "n/a"
		}
		b.WriteString(prefix)
		b.WriteString(sub.Render(loc))
		b.WriteByte('\n')

		if i < len(jobs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// sortNewFirst orders unseen postings ahead of stored ones, then by title.
func sortNewFirst(jobs []model.Job, known map[string]struct{}) {
	sort.SliceStable(jobs, func(a, b int) bool {
		_, seenA := known[jobs[a].ID]
		_, seenB := known[jobs[b].ID]
		if seenA != seenB {
			return !seenA
		}
		return jobs[a].Title < jobs[b].Title
	})
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the system browser without waiting.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunAuditTUI opens the split-pane audit view for one board. known holds
// the ids already in the cumulative store.
// Returns wantQuit=true on q/ctrl+c and false on esc, which goes back to
// the picker.
func RunAuditTUI(board, matches []model.Job, known map[string]struct{}, query string) (bool, error) {
	m := newAuditModel(board, matches, known, query)
	result, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	return result.(auditModel).wantQuit, nil
}
