package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/interaction"
)

type contactsState int

const (
	contactsStateBrowse contactsState = iota
	contactsStateEdit
	contactsStateLog
)

type ContactsModel struct {
	CommonModel
	contactService     *contact.Service
	interactionService *interaction.Service

	state    contactsState
	table    table.Model
	contacts []*contact.Contact
	form     *huh.Form

	// editing is the contact being edited; nil when creating a new one.
	editing *contact.Contact

	loading bool
	err     error
	status  string

	// Form bindings
	formName    string
	formEmail   string
	formPhone   string
	formCompany string
	formTags    string
	formNotes   string

	// Log-interaction bindings
	formType        string
	formInteraction string
}

func NewContactsModel(contactSvc *contact.Service, interactionSvc *interaction.Service) ContactsModel {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Email", Width: 28},
		{Title: "Company", Width: 20},
		{Title: "Tags", Width: 18},
		{Title: "Last Contact", Width: 12},
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

	return ContactsModel{
		contactService:     contactSvc,
		interactionService: interactionSvc,
		table:              t,
	}
}

func (m ContactsModel) Title() string { return "Contacts" }

func (m ContactsModel) ShortHelp() string {
	switch m.state {
	case contactsStateEdit:
		return "Navigate form | Esc: cancel"
	case contactsStateLog:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | e: edit | i: log interaction | x: delete | r: refresh"
}

func (m ContactsModel) Init() tea.Cmd {
	m.loading = true
	return m.loadContactsCmd()
}

func (m ContactsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadContactsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.contacts = msg.contacts
		m.refreshTable()

		return m, nil

	case contactSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = ""
		}

		m.state = contactsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadContactsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case contactsStateBrowse:
		return m.updateBrowse(msg)
	case contactsStateEdit, contactsStateLog:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m ContactsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadContactsCmd()
		case "n":
			return m.enterEditMode(nil)
		case "e":
			if c := m.selectedContact(); c != nil {
				return m.enterEditMode(c)
			}
		case "i":
			if c := m.selectedContact(); c != nil {
				return m.enterLogMode()
			}
		case "x":
			if c := m.selectedContact(); c != nil {
				return m, m.deleteCmd(c)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ContactsModel) selectedContact() *contact.Contact {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.contacts) {
		return nil
	}

	return m.contacts[idx]
}

func (m ContactsModel) enterEditMode(c *contact.Contact) (tea.Model, tea.Cmd) {
	m.editing = c

	if c != nil {
		m.formName = c.Name
		m.formEmail = c.Email
		m.formPhone = c.Phone
		m.formCompany = c.Company
		m.formTags = strings.Join(c.Tags, ";")
		m.formNotes = c.Notes
	} else {
		m.formName = ""
		m.formEmail = ""
		m.formPhone = ""
		m.formCompany = ""
		m.formTags = ""
		m.formNotes = ""
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&m.formEmail),

			huh.NewInput().
				Key("phone").
				Title("Phone").
				Value(&m.formPhone),

			huh.NewInput().
				Key("company").
				Title("Company").
				Value(&m.formCompany),

			huh.NewInput().
				Key("tags").
				Title("Tags").
				Placeholder("vip;enterprise").
				Value(&m.formTags),

			huh.NewInput().
				Key("notes").
				Title("Notes").
				Value(&m.formNotes),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = contactsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ContactsModel) enterLogMode() (tea.Model, tea.Cmd) {
	m.formType = string(interaction.TypeCall)
	m.formInteraction = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Call", string(interaction.TypeCall)),
					huh.NewOption("Email", string(interaction.TypeEmail)),
					huh.NewOption("Meeting", string(interaction.TypeMeeting)),
					huh.NewOption("Demo", string(interaction.TypeDemo)),
					huh.NewOption("Note", string(interaction.TypeNote)),
				).
				Value(&m.formType),

			huh.NewInput().
				Key("notes").
				Title("Notes").
				Value(&m.formInteraction),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = contactsStateLog
	m.table.Blur()

	return m, m.form.Init()
}

func (m ContactsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = contactsStateBrowse
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

	if m.state == contactsStateLog {
		m.formType = m.form.GetString("type")
		m.formInteraction = m.form.GetString("notes")

		return m, m.logInteractionCmd()
	}

	m.formName = m.form.GetString("name")
	m.formEmail = m.form.GetString("email")
	m.formPhone = m.form.GetString("phone")
	m.formCompany = m.form.GetString("company")
	m.formTags = m.form.GetString("tags")
	m.formNotes = m.form.GetString("notes")

	return m, m.saveCmd()
}

func (m ContactsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading contacts...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state != contactsStateBrowse && m.form != nil {
		title := "Edit Contact"
		if m.state == contactsStateLog {
			title = "Log Interaction"
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

func (m *ContactsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.contacts))
	for _, c := range m.contacts {
		lastContact := "never"
		if c.LastContact != nil {
			lastContact = FormatDate(*c.LastContact)
		}

		rows = append(rows, table.Row{
			c.Name,
			c.Email,
			c.Company,
			strings.Join(c.Tags, ";"),
			lastContact,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadContactsMsg struct {
	contacts []*contact.Contact
	err      error
}

func (m ContactsModel) loadContactsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		contacts, err := m.contactService.List(ctx, contact.ListFilter{})
		return loadContactsMsg{contacts: contacts, err: err}
	}
}

type contactSavedMsg struct {
	err error
}

func (m ContactsModel) saveCmd() tea.Cmd {
	existing := m.editing

	params := contact.CreateParams{
		Name:    m.formName,
		Email:   m.formEmail,
		Phone:   m.formPhone,
		Company: m.formCompany,
		Tags:    splitTags(m.formTags),
		Notes:   m.formNotes,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if existing == nil {
			_, err := m.contactService.Create(ctx, params)
			return contactSavedMsg{err: err}
		}

		existing.Name = params.Name
		existing.Email = params.Email
		existing.Phone = params.Phone
		existing.Company = params.Company
		existing.Tags = params.Tags
		existing.Notes = params.Notes

		return contactSavedMsg{err: m.contactService.Update(ctx, existing)}
	}
}

func (m ContactsModel) logInteractionCmd() tea.Cmd {
	c := m.selectedContact()
	if c == nil {
		return nil
	}

	params := interaction.LogParams{
		ContactID: c.ID,
		Type:      interaction.Type(m.formType),
		Notes:     m.formInteraction,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.interactionService.Log(ctx, params)
		return contactSavedMsg{err: err}
	}
}

func (m ContactsModel) deleteCmd(c *contact.Contact) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return contactSavedMsg{err: m.contactService.Delete(ctx, c.ID)}
	}
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}

	var tags []string

	for _, t := range strings.Split(s, ";") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}

	return tags
}
