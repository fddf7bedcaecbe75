package audit

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobdelta/internal/config"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerProviderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 0, 0, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

const (
	pickerPending = -1
	pickerQuit    = -2
)

type pickerModel struct {
	companies []config.CompanyConfig
	stored    map[string]int // records in the cumulative store per slug
	cursor    int
	chosen    int
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.chosen = pickerQuit
		return m, tea.Quit
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, len(m.companies)-1)
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, len(m.companies)-1)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.companies) - 1
	case "enter":
		m.chosen = m.cursor
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("Board audit: pick a company"))
	b.WriteByte('\n')

	provider := ""
	for i, c := range m.companies {
		if c.Provider != provider {
			provider = c.Provider
			b.WriteString(pickerProviderStyle.Render(strings.ToUpper(provider)) + "\n")
		}
		label := fmt.Sprintf("%-20s %4d stored", c.Slug, m.stored[c.Slug])
		if i == m.cursor {
			b.WriteString(pickerSelectedStyle.Render("> "+label) + "\n")
		} else {
			b.WriteString(pickerItemStyle.Render(label) + "\n")
		}
	}

	b.WriteString(pickerHintStyle.Render("↑/↓/j/k move  g/G first/last  enter audit  q quit"))
	return b.String()
}

// RunCompanyPicker shows an interactive board selector. stored maps a slug
// to its number of records in the cumulative store.
// Returns the index of the chosen company, or -1 if the user quit.
func RunCompanyPicker(companies []config.CompanyConfig, stored map[string]int) (int, error) {
	m := pickerModel{
		companies: companies,
		stored:    stored,
		chosen:    pickerPending,
	}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return -1, err
	}

	final := result.(pickerModel)
	if final.chosen < 0 {
		return -1, nil
	}
	return final.chosen, nil
}
