package contact

import (
	"time"

	"github.com/google/uuid"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
)

type contactResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Company     string     `json:"company,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastContact *time.Time `json:"last_contact,omitempty"`
}

func toResponse(c *contact.Contact) contactResponse {
	return contactResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Company:     c.Company,
		Tags:        c.Tags,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		LastContact: c.LastContact,
	}
}

func toResponseList(contacts []*contact.Contact) []contactResponse {
	resp := make([]contactResponse, len(contacts))
	for i, c := range contacts {
		resp[i] = toResponse(c)
	}

	return resp
}
