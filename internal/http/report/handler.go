package report

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/followup"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/forecast"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/report"
)

type Handler struct {
	reports     *report.Service
	forecasts   *forecast.Service
	followups   *followup.Service
	horizonDays int
	overdueDays int
}

func NewHandler(
	reports *report.Service,
	forecasts *forecast.Service,
	followups *followup.Service,
	horizonDays int,
	overdueDays int,
) *Handler {
	return &Handler{
		reports:     reports,
		forecasts:   forecasts,
		followups:   followups,
		horizonDays: horizonDays,
		overdueDays: overdueDays,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/pipeline", h.pipeline)
	r.Get("/forecast", h.forecast)
	r.Get("/followups", h.followupQueue)
}

type stageReportResponse struct {
	Stage          deal.Stage `json:"stage"`
	Count          int        `json:"count"`
	TotalValue     int64      `json:"total_value"`
	WeightedValue  int64      `json:"weighted_value"`
	ConversionRate *float64   `json:"conversion_rate,omitempty"`
}

type pipelineResponse struct {
	Stages           []stageReportResponse `json:"stages"`
	PipelineValue    int64                 `json:"pipeline_value"`
	PipelineWeighted int64                 `json:"pipeline_weighted"`
}

func (h *Handler) pipeline(w http.ResponseWriter, r *http.Request) {
	p, err := h.reports.Pipeline(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := pipelineResponse{
		Stages:           make([]stageReportResponse, 0, len(p.Stages)),
		PipelineValue:    p.PipelineValue,
		PipelineWeighted: p.PipelineWeighted,
	}

	for _, sr := range p.Stages {
		resp.Stages = append(resp.Stages, stageReportResponse{
			Stage:          sr.Stage,
			Count:          sr.Count,
			TotalValue:     sr.TotalValue,
			WeightedValue:  sr.WeightedValue,
			ConversionRate: sr.ConversionRate,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type weekBucketResponse struct {
	Week          int   `json:"week"`
	WeightedValue int64 `json:"weighted_value"`
	DealCount     int   `json:"deal_count"`
}

type undatedResponse struct {
	Count         int   `json:"count"`
	WeightedValue int64 `json:"weighted_value"`
}

type forecastDealResponse struct {
	DealID        uuid.UUID `json:"deal_id"`
	Title         string    `json:"title"`
	Value         int64     `json:"value"`
	Probability   float64   `json:"probability"`
	WeightedValue int64     `json:"weighted_value"`
	ExpectedClose string    `json:"expected_close"`
}

type forecastResponse struct {
	HorizonDays   int                    `json:"horizon_days"`
	Weeks         []weekBucketResponse   `json:"weeks"`
	TotalWeighted int64                  `json:"total_weighted"`
	Undated       undatedResponse        `json:"undated"`
	Deals         []forecastDealResponse `json:"deals"`
}

func (h *Handler) forecast(w http.ResponseWriter, r *http.Request) {
	days := h.horizonDays

	if s := r.URL.Query().Get("days"); s != "" {
		d, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}

		days = d
	}

	f, err := h.forecasts.Forecast(r.Context(), days)
	if err != nil {
		if errors.Is(err, forecast.ErrInvalidHorizon) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := forecastResponse{
		HorizonDays:   f.HorizonDays,
		Weeks:         make([]weekBucketResponse, 0, len(f.Weeks)),
		TotalWeighted: f.TotalWeighted,
		Undated: undatedResponse{
			Count:         f.Undated.Count,
			WeightedValue: f.Undated.WeightedValue,
		},
		Deals: make([]forecastDealResponse, 0, len(f.Deals)),
	}

	for _, wk := range f.Weeks {
		resp.Weeks = append(resp.Weeks, weekBucketResponse{
			Week:          wk.Week,
			WeightedValue: wk.WeightedValue,
			DealCount:     wk.DealCount,
		})
	}

	for _, d := range f.Deals {
		resp.Deals = append(resp.Deals, forecastDealResponse{
			DealID:        d.DealID,
			Title:         d.Title,
			Value:         d.Value,
			Probability:   d.Probability,
			WeightedValue: d.WeightedValue,
			ExpectedClose: d.ExpectedClose.Format(time.DateOnly),
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type followupResponse struct {
	ContactID        uuid.UUID  `json:"contact_id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Company          string     `json:"company,omitempty"`
	LastContact      *time.Time `json:"last_contact,omitempty"`
	StaleDays        int        `json:"stale_days"`
	OpenDeals        int        `json:"open_deals"`
	OpenDealWeighted int64      `json:"open_deal_weighted"`
}

func (h *Handler) followupQueue(w http.ResponseWriter, r *http.Request) {
	days := h.overdueDays

	if s := r.URL.Query().Get("days"); s != "" {
		d, err := strconv.Atoi(s)
		if err != nil || d < 0 {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}

		days = d
	}

	entries, err := h.followups.Queue(r.Context(), days)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]followupResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, followupResponse{
			ContactID:        e.ContactID,
			Name:             e.Name,
			Email:            e.Email,
			Company:          e.Company,
			LastContact:      e.LastContact,
			StaleDays:        e.StaleDays,
			OpenDeals:        e.OpenDeals,
			OpenDealWeighted: e.OpenDealWeighted,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
