package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/forecast"
)

type forecastState int

const (
	forecastStateSelect forecastState = iota
	forecastStateReport
)

var forecastHorizons = []int{14, 30, 60, 90}

type ForecastModel struct {
	CommonModel
	forecastService *forecast.Service

	state    forecastState
	selected int

	forecast *forecast.Forecast
	loading  bool
	err      error
}

func NewForecastModel(forecastSvc *forecast.Service) ForecastModel {
	return ForecastModel{
		forecastService: forecastSvc,
		selected:        1, // 30 days
	}
}

func (m ForecastModel) Title() string { return "Revenue Forecast" }

func (m ForecastModel) ShortHelp() string {
	if m.state == forecastStateSelect {
		return "Enter: select | Esc: back"
	}

	return "Esc: back | h: change horizon"
}

func (m ForecastModel) Init() tea.Cmd {
	return nil
}

func (m ForecastModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadForecastMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.forecast = msg.forecast
		m.state = forecastStateReport

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case forecastStateSelect:
			return m.updateSelect(msg)
		case forecastStateReport:
			switch msg.String() {
			case "esc":
				return m, Back
			case "h":
				m.state = forecastStateSelect
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ForecastModel) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > 0 {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < len(forecastHorizons)-1 {
			m.selected++
		}
	case tea.KeyEnter:
		m.loading = true
		return m, m.loadForecastCmd(forecastHorizons[m.selected])
	case tea.KeyEsc:
		return m, Back
	}

	return m, nil
}

func (m ForecastModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Computing forecast...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.state == forecastStateSelect {
		s := "Forecast Horizon:\n\n"
		for i, days := range forecastHorizons {
			cursor := " "
			if m.selected == i {
				cursor = ">"
			}

			s += fmt.Sprintf("%s %d days\n", cursor, days)
		}

		s += "\n(Enter to select, Esc to back)"

		return lipgloss.NewStyle().Padding(1).Render(s)
	}

	return lipgloss.NewStyle().Padding(1).Render(m.viewReport())
}

func (m ForecastModel) viewReport() string {
	f := m.forecast
	if f == nil {
		return "No forecast"
	}

	var b strings.Builder

	header := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("Next %d days: %s weighted", f.HorizonDays, FormatMoney(f.TotalWeighted)),
	)
	b.WriteString(header + "\n\n")

	maxWeighted := int64(1)
	for _, wk := range f.Weeks {
		if wk.WeightedValue > maxWeighted {
			maxWeighted = wk.WeightedValue
		}
	}

	for _, wk := range f.Weeks {
		barLen := int(wk.WeightedValue * 30 / maxWeighted)
		bar := strings.Repeat("█", barLen)

		b.WriteString(fmt.Sprintf(
			"Week %d  %-30s %12s  (%d deals)\n",
			wk.Week,
			bar,
			FormatMoney(wk.WeightedValue),
			wk.DealCount,
		))
	}

	if f.Undated.Count > 0 {
		b.WriteString(fmt.Sprintf(
			"\n%d open deal(s) without a close date: %s weighted\n",
			f.Undated.Count,
			FormatMoney(f.Undated.WeightedValue),
		))
	}

	return b.String()
}

// Messages

type loadForecastMsg struct {
	forecast *forecast.Forecast
	err      error
}

func (m ForecastModel) loadForecastCmd(days int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		f, err := m.forecastService.Forecast(ctx, days)
		return loadForecastMsg{forecast: f, err: err}
	}
}
