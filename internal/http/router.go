package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/http/contact"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/http/deal"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/http/export"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/http/importcsv"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/http/interaction"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/http/matching"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/http/report"
)

func New(
	contactsV1 *contact.Handler,
	dealsV1 *deal.Handler,
	interactionsV1 *interaction.Handler,
	reportsV1 *report.Handler,
	importV1 *importcsv.Handler,
	matchingV1 *matching.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/contacts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			contactsV1.Routes(r)
		})

		r.Route("/deals", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			dealsV1.Routes(r)
		})

		r.Route("/interactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			interactionsV1.Routes(r)
		})

		r.Route("/reports", reportsV1.Routes)

		r.Route("/import", importV1.Routes)

		r.Route("/matching", func(r chi.Router) {
			matchingV1.Routes(r)
		})

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			exportV1.Routes(r)
		})
	})

	return router
}
