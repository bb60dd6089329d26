package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
)

type dealsState int

const (
	dealsStateBrowse dealsState = iota
	dealsStateNew
	dealsStateAdvance
)

type DealsModel struct {
	CommonModel
	dealService *deal.Service

	state dealsState
	table table.Model
	deals []*deal.Deal
	form  *huh.Form

	openOnly bool
	loading  bool
	err      error
	status   string

	// Form bindings
	formContactID string
	formTitle     string
	formValue     string
	formClose     string
	formStage     string
}

func NewDealsModel(dealSvc *deal.Service) DealsModel {
	columns := []table.Column{
		{Title: "Title", Width: 30},
		{Title: "Stage", Width: 12},
		{Title: "Value", Width: 12},
		{Title: "Prob", Width: 6},
		{Title: "Weighted", Width: 12},
		{Title: "Close", Width: 12},
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

	return DealsModel{
		dealService: dealSvc,
		table:       t,
		openOnly:    true,
	}
}

func (m DealsModel) Title() string { return "Deals" }

func (m DealsModel) ShortHelp() string {
	if m.state != dealsStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | s: advance stage | o: toggle open/all | r: refresh"
}

func (m DealsModel) Init() tea.Cmd {
	m.loading = true
	return m.loadDealsCmd()
}

func (m DealsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDealsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.deals = msg.deals
		m.refreshTable()

		return m, nil

	case dealSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = ""
		}

		m.state = dealsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadDealsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case dealsStateBrowse:
		return m.updateBrowse(msg)
	case dealsStateNew, dealsStateAdvance:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m DealsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadDealsCmd()
		case "o":
			m.openOnly = !m.openOnly
			m.loading = true

			return m, m.loadDealsCmd()
		case "n":
			return m.enterNewMode()
		case "s":
			if d := m.selectedDeal(); d != nil && d.IsOpen() {
				return m.enterAdvanceMode(d)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DealsModel) selectedDeal() *deal.Deal {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.deals) {
		return nil
	}

	return m.deals[idx]
}

func (m DealsModel) enterNewMode() (tea.Model, tea.Cmd) {
	m.formContactID = ""
	m.formTitle = ""
	m.formValue = ""
	m.formClose = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("contact_id").
				Title("Contact ID").
				Value(&m.formContactID).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("contact id is required")
					}
					return nil
				}),

			huh.NewInput().
				Key("title").
				Title("Title").
				Value(&m.formTitle).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("value").
				Title("Value").
				Placeholder("10000.00").
				Value(&m.formValue),

			huh.NewInput().
				Key("expected_close").
				Title("Expected Close").
				Placeholder("YYYY-MM-DD").
				Value(&m.formClose),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = dealsStateNew
	m.table.Blur()

	return m, m.form.Init()
}

func (m DealsModel) enterAdvanceMode(d *deal.Deal) (tea.Model, tea.Cmd) {
	options := make([]huh.Option[string], 0)
	for _, s := range deal.Stages() {
		if deal.IsValidTransition(d.Stage, s) {
			options = append(options, huh.NewOption(string(s), string(s)))
		}
	}

	if len(options) == 0 {
		m.status = "No valid transitions from " + string(d.Stage)
		return m, nil
	}

	m.formStage = options[0].Value

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("stage").
				Title(fmt.Sprintf("Move %q from %s to:", d.Title, d.Stage)).
				Options(options...).
				Value(&m.formStage),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = dealsStateAdvance
	m.table.Blur()

	return m, m.form.Init()
}

func (m DealsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = dealsStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == dealsStateAdvance {
		m.formStage = m.form.GetString("stage")
		return m, m.advanceCmd()
	}

	m.formContactID = m.form.GetString("contact_id")
	m.formTitle = m.form.GetString("title")
	m.formValue = m.form.GetString("value")
	m.formClose = m.form.GetString("expected_close")

	return m, m.createCmd()
}

func (m DealsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading deals...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	scope := "Open"
	if !m.openOnly {
		scope = "All"
	}

	header := fmt.Sprintf("Showing: %s deals", activeStyle(scope))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != dealsStateBrowse && m.form != nil {
		title := "New Deal"
		if m.state == dealsStateAdvance {
			title = "Advance Stage"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *DealsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.deals))
	for _, d := range m.deals {
		closeDate := ""
		if d.ExpectedClose != nil {
			closeDate = FormatDate(*d.ExpectedClose)
		}

		rows = append(rows, table.Row{
			d.Title,
			string(d.Stage),
			FormatMoney(d.Value),
			FormatPercent(d.Probability),
			FormatMoney(d.WeightedValue()),
			closeDate,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadDealsMsg struct {
	deals []*deal.Deal
	err   error
}

func (m DealsModel) loadDealsCmd() tea.Cmd {
	openOnly := m.openOnly

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		filter := deal.ListFilter{}
		if openOnly {
			filter.Open = new(true)
		}

		deals, err := m.dealService.List(ctx, filter)
		return loadDealsMsg{deals: deals, err: err}
	}
}

type dealSavedMsg struct {
	err error
}

func (m DealsModel) createCmd() tea.Cmd {
	contactID := m.formContactID
	title := m.formTitle
	value := m.formValue
	closeDate := m.formClose

	return func() tea.Msg {
		id, err := uuid.Parse(strings.TrimSpace(contactID))
		if err != nil {
			return dealSavedMsg{err: fmt.Errorf("invalid contact id: %w", err)}
		}

		cents, err := parseMoney(value)
		if err != nil {
			return dealSavedMsg{err: err}
		}

		params := deal.CreateParams{
			ContactID: id,
			Title:     title,
			Value:     cents,
		}

		if closeDate != "" {
			t, err := time.Parse("2006-01-02", closeDate)
			if err != nil {
				return dealSavedMsg{err: fmt.Errorf("invalid expected close date (YYYY-MM-DD)")}
			}

			params.ExpectedClose = new(t)
		}

		ctx, cancel := DbCtx()
		defer cancel()

		_, err = m.dealService.Create(ctx, params)

		return dealSavedMsg{err: err}
	}
}

func (m DealsModel) advanceCmd() tea.Cmd {
	d := m.selectedDeal()
	if d == nil {
		return nil
	}

	stage := deal.Stage(m.formStage)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.dealService.AdvanceStage(ctx, d.ID, stage, nil)
		return dealSavedMsg{err: err}
	}
}

// parseMoney converts a decimal string like "10000.00" into cents.
func parseMoney(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value: %s", s)
	}

	return int64(f*100 + 0.5), nil
}
