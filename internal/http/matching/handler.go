package matching

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/canonical", h.canonical)
	r.Post("/", h.learn)
}

type canonicalResponse struct {
	Company   string `json:"company"`
	Canonical string `json:"canonical"`
}

func (h *Handler) canonical(w http.ResponseWriter, r *http.Request) {
	company := r.URL.Query().Get("company")
	if company == "" {
		http.Error(w, "company query parameter is required", http.StatusBadRequest)
		return
	}

	canonical, err := h.svc.Canonicalize(r.Context(), company)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(canonicalResponse{
		Company:   company,
		Canonical: canonical,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type learnRequest struct {
	RawPattern    string `json:"raw_pattern"`
	CanonicalName string `json:"canonical_name"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.RawPattern == "" || req.CanonicalName == "" {
		http.Error(w, "raw_pattern and canonical_name are required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Learn(r.Context(), req.RawPattern, req.CanonicalName); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
