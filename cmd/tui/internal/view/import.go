package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/importer"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/matching"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	contactService  *contact.Service
	importService   *importer.Service
	matchingService *matching.Service

	state      importState
	filePicker filepicker.Model

	imported  []*contact.Contact
	conflicts []contact.Conflict

	status string
	err    error
}

func NewImportModel(contactSvc *contact.Service, impSvc *importer.Service, matchSvc *matching.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		contactService:  contactSvc,
		importService:   impSvc,
		matchingService: matchSvc,
		filePicker:      fp,
	}
}

func (m ImportModel) Title() string     { return "Import Contacts" }
func (m ImportModel) ShortHelp() string { return "Esc: back | Enter: select" }

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == importStateResult {
				m.state = importStateFilePick
				m.err = nil
				m.status = ""

				return m, m.filePicker.Init()
			}

			return m, Back
		}

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.imported = msg.imported
		m.conflicts = msg.conflicts
		m.status = fmt.Sprintf("Imported %d contacts.", len(m.imported))

		if len(m.conflicts) > 0 {
			m.status += fmt.Sprintf(" Skipped %d duplicates.", len(m.conflicts))
		}

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select contact CSV to import:\n\n%s", m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) +
				"\n\n(Esc to go back)",
		)
	}

	body := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status)

	for _, c := range m.conflicts {
		body += fmt.Sprintf("\n  duplicate: %s <%s>", c.Incoming.Name, c.Incoming.Email)
	}

	return style.Render(body + "\n\n(Esc to go back)")
}

// Messages

type importResultMsg struct {
	imported  []*contact.Contact
	conflicts []contact.Conflict
	err       error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Import(importer.SourceCSV, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		for i, p := range params {
			if p.Company == "" {
				continue
			}

			canonical, err := m.matchingService.Canonicalize(ctx, p.Company)
			if err != nil || canonical == "" {
				continue
			}

			params[i].Company = canonical
		}

		result, err := m.contactService.ImportBatch(ctx, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{imported: result.Imported, conflicts: result.Conflicts}
	}
}
