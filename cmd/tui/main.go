package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/cmd/tui/internal/view"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/config"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
	contactStore "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact/store"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/database"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
	dealStore "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal/store"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/export"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/followup"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/forecast"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/importer"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/interaction"
	interactionStore "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/interaction/store"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/matching"
	matchingStore "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/matching/store"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/report"
)

type model struct {
	contactService     *contact.Service
	dealService        *deal.Service
	interactionService *interaction.Service
	matchingService    *matching.Service
	importService      *importer.Service
	exportService      *export.Service
	reportService      *report.Service
	forecastService    *forecast.Service
	followupService    *followup.Service

	currentView View

	contactsView  view.ContactsModel
	dealsView     view.DealsModel
	pipelineView  view.PipelineModel
	forecastView  view.ForecastModel
	followupsView view.FollowupsModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewContacts  View = 1
	ViewDeals     View = 2
	ViewPipeline  View = 3
	ViewForecast  View = 4
	ViewFollowups View = 5
	ViewImport    View = 6
	ViewExport    View = 7
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.DefaultPool())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	contacts := contactStore.New(db)
	deals := dealStore.New(db)
	interactions := interactionStore.New(db)

	contactSvc := contact.NewService(contacts, deals)
	dealSvc := deal.NewService(deals, contacts)
	interactionSvc := interaction.NewService(interactions, contacts, deals)
	matchSvc := matching.NewService(matchingStore.New(db))
	impSvc := importer.NewService()
	expSvc := export.NewService(contactSvc, dealSvc)
	reportSvc := report.NewService(dealSvc)
	forecastSvc := forecast.NewService(dealSvc)
	followupSvc := followup.NewService(contactSvc, dealSvc)

	return model{
		contactService:     contactSvc,
		dealService:        dealSvc,
		interactionService: interactionSvc,
		matchingService:    matchSvc,
		importService:      impSvc,
		exportService:      expSvc,
		reportService:      reportSvc,
		forecastService:    forecastSvc,
		followupService:    followupSvc,
		currentView:        ViewMenu,
		contactsView:       view.NewContactsModel(contactSvc, interactionSvc),
		dealsView:          view.NewDealsModel(dealSvc),
		pipelineView:       view.NewPipelineModel(reportSvc),
		forecastView:       view.NewForecastModel(forecastSvc),
		followupsView:      view.NewFollowupsModel(followupSvc),
		importView:         view.NewImportModel(contactSvc, impSvc, matchSvc),
		exportView:         view.NewExportModel(expSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewContacts
				m.contactsView = view.NewContactsModel(m.contactService, m.interactionService)

				return m, m.contactsView.Init()
			case "2":
				m.currentView = ViewDeals
				m.dealsView = view.NewDealsModel(m.dealService)

				return m, m.dealsView.Init()
			case "3":
				m.currentView = ViewPipeline
				m.pipelineView = view.NewPipelineModel(m.reportService)

				return m, m.pipelineView.Init()
			case "4":
				m.currentView = ViewForecast
				m.forecastView = view.NewForecastModel(m.forecastService)

				return m, m.forecastView.Init()
			case "5":
				m.currentView = ViewFollowups
				m.followupsView = view.NewFollowupsModel(m.followupService)

				return m, m.followupsView.Init()
			case "6":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.contactService, m.importService, m.matchingService)

				return m, m.importView.Init()
			case "7":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewContacts:
		var newModel tea.Model
		newModel, cmd = m.contactsView.Update(msg)
		m.contactsView = newModel.(view.ContactsModel)
	case ViewDeals:
		var newModel tea.Model
		newModel, cmd = m.dealsView.Update(msg)
		m.dealsView = newModel.(view.DealsModel)
	case ViewPipeline:
		var newModel tea.Model
		newModel, cmd = m.pipelineView.Update(msg)
		m.pipelineView = newModel.(view.PipelineModel)
	case ViewForecast:
		var newModel tea.Model
		newModel, cmd = m.forecastView.Update(msg)
		m.forecastView = newModel.(view.ForecastModel)
	case ViewFollowups:
		var newModel tea.Model
		newModel, cmd = m.followupsView.Update(msg)
		m.followupsView = newModel.(view.FollowupsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"BlackRoad CRM\n\n" +
				"1. Contacts\n" +
				"2. Deals\n" +
				"3. Pipeline Report\n" +
				"4. Revenue Forecast\n" +
				"5. Follow-Up Queue\n" +
				"6. Import Contacts\n" +
				"7. Export Data\n\n" +
				"q. Quit",
		)
	case ViewContacts:
		return m.contactsView.View()
	case ViewDeals:
		return m.dealsView.View()
	case ViewPipeline:
		return m.pipelineView.View()
	case ViewForecast:
		return m.forecastView.View()
	case ViewFollowups:
		return m.followupsView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
