package interaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/interaction"
)

type Handler struct {
	svc *interaction.Service
}

func NewHandler(svc *interaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.log)
	r.Get("/", h.list)
}

type logInteractionRequest struct {
	ContactID  uuid.UUID        `json:"contact_id"`
	DealID     *uuid.UUID       `json:"deal_id,omitempty"`
	Type       interaction.Type `json:"type"`
	Notes      string           `json:"notes,omitempty"`
	Outcome    string           `json:"outcome,omitempty"`
	OccurredAt *time.Time       `json:"occurred_at,omitempty"`
}

func (h *Handler) log(w http.ResponseWriter, r *http.Request) {
	var req logInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	in, err := h.svc.Log(r.Context(), interaction.LogParams{
		ContactID:  req.ContactID,
		DealID:     req.DealID,
		Type:       req.Type,
		Notes:      req.Notes,
		Outcome:    req.Outcome,
		OccurredAt: req.OccurredAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, interaction.ErrInvalid):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, contact.ErrNotFound):
			http.Error(w, "contact not found", http.StatusNotFound)
		case errors.Is(err, deal.ErrNotFound):
			http.Error(w, "deal not found", http.StatusNotFound)
		case errors.Is(err, interaction.ErrDealMismatch):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(in)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := interaction.ListFilter{}

	if s := r.URL.Query().Get("contact_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid contact_id", http.StatusBadRequest)
			return
		}

		filter.ContactID = new(id)
	}

	if s := r.URL.Query().Get("deal_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid deal_id", http.StatusBadRequest)
			return
		}

		filter.DealID = new(id)
	}

	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}

		filter.Limit = limit
	}

	interactions, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(interactions)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type interactionResponse struct {
	ID         uuid.UUID        `json:"id"`
	ContactID  uuid.UUID        `json:"contact_id"`
	DealID     *uuid.UUID       `json:"deal_id,omitempty"`
	Type       interaction.Type `json:"type"`
	Notes      string           `json:"notes,omitempty"`
	Outcome    string           `json:"outcome,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func toResponse(in *interaction.Interaction) interactionResponse {
	return interactionResponse{
		ID:         in.ID,
		ContactID:  in.ContactID,
		DealID:     in.DealID,
		Type:       in.Type,
		Notes:      in.Notes,
		Outcome:    in.Outcome,
		OccurredAt: in.OccurredAt,
	}
}

func toResponseList(interactions []*interaction.Interaction) []interactionResponse {
	resp := make([]interactionResponse, len(interactions))
	for i, in := range interactions {
		resp[i] = toResponse(in)
	}

	return resp
}
