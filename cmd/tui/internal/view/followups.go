package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/followup"
)

var followupThresholds = []int{3, 7, 14, 30}

type FollowupsModel struct {
	CommonModel
	followupService *followup.Service

	table        table.Model
	entries      []followup.Entry
	thresholdIdx int
	loading      bool
	err          error
}

func NewFollowupsModel(followupSvc *followup.Service) FollowupsModel {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Company", Width: 20},
		{Title: "Last Contact", Width: 12},
		{Title: "Stale", Width: 8},
		{Title: "Open Deals", Width: 10},
		{Title: "Weighted", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return FollowupsModel{
		followupService: followupSvc,
		table:           t,
	}
}

func (m FollowupsModel) Title() string     { return "Follow-Up Queue" }
func (m FollowupsModel) ShortHelp() string { return "Esc: back | d: days threshold | r: refresh" }

func (m FollowupsModel) Init() tea.Cmd {
	m.loading = true
	return m.loadQueueCmd()
}

func (m FollowupsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadFollowupsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.entries = msg.entries
		m.refreshTable()

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadQueueCmd()
		case "d":
			m.thresholdIdx = (m.thresholdIdx + 1) % len(followupThresholds)
			m.loading = true

			return m, m.loadQueueCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m FollowupsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading follow-up queue...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"Contacts with open deals untouched for %s+ days",
		activeStyle(fmt.Sprintf("%d", followupThresholds[m.thresholdIdx])),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			tableView,
		),
	)
}

func (m *FollowupsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		lastContact := "never"
		if e.LastContact != nil {
			lastContact = FormatDate(*e.LastContact)
		}

		rows = append(rows, table.Row{
			e.Name,
			e.Company,
			lastContact,
			fmt.Sprintf("%dd", e.StaleDays),
			fmt.Sprintf("%d", e.OpenDeals),
			FormatMoney(e.OpenDealWeighted),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadFollowupsMsg struct {
	entries []followup.Entry
	err     error
}

func (m FollowupsModel) loadQueueCmd() tea.Cmd {
	days := followupThresholds[m.thresholdIdx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		entries, err := m.followupService.Queue(ctx, days)
		return loadFollowupsMsg{entries: entries, err: err}
	}
}
