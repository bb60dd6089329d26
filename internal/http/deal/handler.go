package deal

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
)

type Handler struct {
	svc *deal.Service
}

func NewHandler(svc *deal.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/stages", h.stages)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Patch("/{id}/stage", h.advanceStage)
}

type createDealRequest struct {
	ContactID     uuid.UUID  `json:"contact_id"`
	Title         string     `json:"title"`
	Value         int64      `json:"value"`
	Stage         deal.Stage `json:"stage,omitempty"`
	Probability   *float64   `json:"probability,omitempty"`
	ExpectedClose *string    `json:"expected_close,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := deal.CreateParams{
		ContactID:   req.ContactID,
		Title:       req.Title,
		Value:       req.Value,
		Stage:       req.Stage,
		Probability: req.Probability,
		Notes:       req.Notes,
	}

	if req.ExpectedClose != nil {
		t, err := time.Parse(time.DateOnly, *req.ExpectedClose)
		if err != nil {
			http.Error(w, "invalid expected_close, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		params.ExpectedClose = new(t)
	}

	d, err := h.svc.Create(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, deal.ErrInvalid), errors.Is(err, deal.ErrUnknownStage):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, contact.ErrNotFound):
			http.Error(w, "contact not found", http.StatusNotFound)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(d)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := deal.ListFilter{}

	if s := r.URL.Query().Get("contact_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid contact_id", http.StatusBadRequest)
			return
		}

		filter.ContactID = new(id)
	}

	if s := r.URL.Query().Get("stage"); s != "" {
		filter.Stage = new(deal.Stage(s))
	}

	if s := r.URL.Query().Get("open"); s == "true" {
		filter.Open = new(true)
	}

	deals, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(deals)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type stageInfo struct {
	Stage              deal.Stage `json:"stage"`
	DefaultProbability float64    `json:"default_probability"`
	Terminal           bool       `json:"terminal"`
}

// stages exposes the pipeline stage policy so clients do not hardcode it.
func (h *Handler) stages(w http.ResponseWriter, _ *http.Request) {
	stages := deal.Stages()

	resp := make([]stageInfo, 0, len(stages))
	for _, s := range stages {
		p, _ := deal.DefaultProbability(s)
		resp = append(resp, stageInfo{
			Stage:              s,
			DefaultProbability: p,
			Terminal:           deal.IsTerminal(s),
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, deal.ErrNotFound) {
			http.Error(w, "deal not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(d)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateDealRequest struct {
	Title         *string `json:"title,omitempty"`
	Value         *int64  `json:"value,omitempty"`
	ExpectedClose *string `json:"expected_close,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, deal.ErrNotFound) {
			http.Error(w, "deal not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if req.Title != nil {
		d.Title = *req.Title
	}

	if req.Value != nil {
		d.Value = *req.Value
	}

	if req.ExpectedClose != nil {
		if *req.ExpectedClose == "" {
			d.ExpectedClose = nil
		} else {
			t, err := time.Parse(time.DateOnly, *req.ExpectedClose)
			if err != nil {
				http.Error(w, "invalid expected_close, want YYYY-MM-DD", http.StatusBadRequest)
				return
			}

			d.ExpectedClose = new(t)
		}
	}

	if req.Notes != nil {
		d.Notes = *req.Notes
	}

	if err := h.svc.Update(r.Context(), d); err != nil {
		if errors.Is(err, deal.ErrInvalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(d)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type advanceStageRequest struct {
	Stage       deal.Stage `json:"stage"`
	Probability *float64   `json:"probability,omitempty"`
}

func (h *Handler) advanceStage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req advanceStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d, err := h.svc.AdvanceStage(r.Context(), id, req.Stage, req.Probability)
	if err != nil {
		switch {
		case errors.Is(err, deal.ErrNotFound):
			http.Error(w, "deal not found", http.StatusNotFound)
		case errors.Is(err, deal.ErrUnknownStage), errors.Is(err, deal.ErrInvalid):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, deal.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(d)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
