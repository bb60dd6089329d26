package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/importer"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/matching"
)

type Handler struct {
	importSvc  *importer.Service
	contactSvc *contact.Service
	matchSvc   *matching.Service
}

func NewHandler(importSvc *importer.Service, contactSvc *contact.Service, matchSvc *matching.Service) *Handler {
	return &Handler{
		importSvc:  importSvc,
		contactSvc: contactSvc,
		matchSvc:   matchSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type contactResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type createParamsDTO struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone,omitempty"`
	Company string   `json:"company,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Notes   string   `json:"notes,omitempty"`
}

type conflictDTO struct {
	Incoming createParamsDTO `json:"incoming"`
	Existing contactResponse `json:"existing"`
}

type importResponse struct {
	Imported  int               `json:"imported"`
	Skipped   int               `json:"skipped"`
	Contacts  []contactResponse `json:"contacts"`
	Conflicts []conflictDTO     `json:"conflicts,omitempty"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	source := importer.Source(r.FormValue("source"))
	if source == "" {
		source = importer.SourceCSV
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(source, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for i, p := range params {
		if p.Company == "" {
			continue
		}

		canonical, err := h.matchSvc.Canonicalize(r.Context(), p.Company)
		if err != nil || canonical == "" {
			continue
		}

		params[i].Company = canonical
	}

	result, err := h.contactSvc.ImportBatch(r.Context(), params)
	if err != nil {
		if errors.Is(err, contact.ErrInvalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	resp := importResponse{
		Imported: len(result.Imported),
		Skipped:  len(result.Conflicts),
		Contacts: make([]contactResponse, 0, len(result.Imported)),
	}

	for _, c := range result.Imported {
		resp.Contacts = append(resp.Contacts, toContactResponse(c))
	}

	for _, conflict := range result.Conflicts {
		resp.Conflicts = append(resp.Conflicts, conflictDTO{
			Incoming: toParamsDTO(conflict.Incoming),
			Existing: toContactResponse(conflict.Existing),
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if len(resp.Conflicts) > 0 {
		w.WriteHeader(http.StatusConflict)
	} else {
		w.WriteHeader(http.StatusCreated)
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toContactResponse(c *contact.Contact) contactResponse {
	return contactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Company:   c.Company,
		CreatedAt: c.CreatedAt,
	}
}

func toParamsDTO(p contact.CreateParams) createParamsDTO {
	return createParamsDTO{
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Company: p.Company,
		Tags:    p.Tags,
		Notes:   p.Notes,
	}
}
