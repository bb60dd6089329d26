package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/report"
)

type PipelineModel struct {
	CommonModel
	reportService *report.Service

	table    table.Model
	pipeline *report.Pipeline
	loading  bool
	err      error
}

func NewPipelineModel(reportSvc *report.Service) PipelineModel {
	columns := []table.Column{
		{Title: "Stage", Width: 14},
		{Title: "Deals", Width: 7},
		{Title: "Total", Width: 14},
		{Title: "Weighted", Width: 14},
		{Title: "Conversion", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
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

	return PipelineModel{
		reportService: reportSvc,
		table:         t,
	}
}

func (m PipelineModel) Title() string     { return "Pipeline Report" }
func (m PipelineModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m PipelineModel) Init() tea.Cmd {
	m.loading = true
	return m.loadPipelineCmd()
}

func (m PipelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPipelineMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.pipeline = msg.pipeline
		m.refreshTable()

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadPipelineCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m PipelineModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading pipeline...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	totals := ""
	if m.pipeline != nil {
		totals = fmt.Sprintf(
			"Open pipeline: %s | Weighted: %s",
			FormatMoney(m.pipeline.PipelineValue),
			FormatMoney(m.pipeline.PipelineWeighted),
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			tableView,
			"",
			lipgloss.NewStyle().Bold(true).Render(totals),
		),
	)
}

func (m *PipelineModel) refreshTable() {
	if m.pipeline == nil {
		return
	}

	rows := make([]table.Row, 0, len(m.pipeline.Stages))
	for _, sr := range m.pipeline.Stages {
		conversion := "-"
		if sr.ConversionRate != nil {
			conversion = FormatPercent(*sr.ConversionRate)
		}

		rows = append(rows, table.Row{
			string(sr.Stage),
			fmt.Sprintf("%d", sr.Count),
			FormatMoney(sr.TotalValue),
			FormatMoney(sr.WeightedValue),
			conversion,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadPipelineMsg struct {
	pipeline *report.Pipeline
	err      error
}

func (m PipelineModel) loadPipelineCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		p, err := m.reportService.Pipeline(ctx)
		return loadPipelineMsg{pipeline: p, err: err}
	}
}
