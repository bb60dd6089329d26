package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/config"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
	contactStore "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact/store"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/database"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
	dealStore "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal/store"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/export"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/followup"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/forecast"
	crmHttp "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/http"
	contactHandler "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/http/contact"
	dealHandler "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/http/deal"
	exportHandler "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/http/export"
	importHandler "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/http/importcsv"
	interactionHandler "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/http/interaction"
	matchingHandler "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/http/matching"
	reportHandler "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/http/report"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/importer"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/interaction"
	interactionStore "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/interaction/store"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/matching"
	matchingStore "github.com/BlackRoad-Foundation/blackroad-crm-core/internal/matching/store"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.Pool{
		MaxOpen:     cfg.DB.MaxOpenConns,
		MaxIdle:     cfg.DB.MaxIdleConns,
		MaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var (
		contacts     = contactStore.New(db)
		deals        = dealStore.New(db)
		interactions = interactionStore.New(db)
	)

	var (
		contactService     = contact.NewService(contacts, deals)
		dealService        = deal.NewService(deals, contacts)
		interactionService = interaction.NewService(interactions, contacts, deals)
		matchingService    = matching.NewService(matchingStore.New(db))
		importService      = importer.NewService()
		exportService      = export.NewService(contactService, dealService)
		reportService      = report.NewService(dealService)
		forecastService    = forecast.NewService(dealService)
		followupService    = followup.NewService(contactService, dealService)
	)

	var (
		contactH     = contactHandler.NewHandler(contactService)
		dealH        = dealHandler.NewHandler(dealService)
		interactionH = interactionHandler.NewHandler(interactionService)
		reportH      = reportHandler.NewHandler(reportService, forecastService, followupService,
			cfg.Forecast.HorizonDays, cfg.FollowUp.OverdueDays)
		importH   = importHandler.NewHandler(importService, contactService, matchingService)
		matchingH = matchingHandler.NewHandler(matchingService)
		exportH   = exportHandler.NewHandler(exportService)
	)

	router := crmHttp.New(contactH, dealH, interactionH, reportH, importH, matchingH, exportH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
