package interaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=interaction
type Repository interface {
	// CreateInteraction stores the interaction and advances the contact's
	// last_contact timestamp in the same database transaction.
	CreateInteraction(ctx context.Context, ix *Interaction) error
	ListInteractions(ctx context.Context, filter ListFilter) ([]*Interaction, error)
}

type Contacts interface {
	GetContact(ctx context.Context, id uuid.UUID) (*contact.Contact, error)
}

type Deals interface {
	GetDeal(ctx context.Context, id uuid.UUID) (*deal.Deal, error)
}

type Service struct {
	repo     Repository
	contacts Contacts
	deals    Deals
}

func NewService(repo Repository, contacts Contacts, deals Deals) *Service {
	return &Service{repo: repo, contacts: contacts, deals: deals}
}

type LogParams struct {
	ContactID  uuid.UUID
	DealID     *uuid.UUID
	Type       Type
	Notes      string
	Outcome    string
	OccurredAt *time.Time
}

type ListFilter struct {
	ContactID *uuid.UUID
	DealID    *uuid.UUID
	Limit     int
}

// Log records a touchpoint with a contact. The referenced contact must
// exist; a referenced deal must belong to that contact. OccurredAt
// defaults to now.
func (s *Service) Log(ctx context.Context, params LogParams) (*Interaction, error) {
	if params.Type == "" {
		return nil, fmt.Errorf("%w: type is required", ErrInvalid)
	}

	if _, err := s.contacts.GetContact(ctx, params.ContactID); err != nil {
		return nil, err
	}

	if params.DealID != nil {
		d, err := s.deals.GetDeal(ctx, *params.DealID)
		if err != nil {
			return nil, err
		}

		if d.ContactID != params.ContactID {
			return nil, fmt.Errorf("%w: deal %s belongs to contact %s", ErrDealMismatch, d.ID, d.ContactID)
		}
	}

	occurredAt := time.Now().UTC()
	if params.OccurredAt != nil {
		occurredAt = *params.OccurredAt
	}

	ix := &Interaction{
		ContactID:  params.ContactID,
		DealID:     params.DealID,
		Type:       params.Type,
		Notes:      params.Notes,
		Outcome:    params.Outcome,
		OccurredAt: occurredAt,
	}
	if err := s.repo.CreateInteraction(ctx, ix); err != nil {
		return nil, err
	}

	return ix, nil
}

// History returns a contact's interactions, most recent first.
func (s *Service) History(ctx context.Context, contactID uuid.UUID, limit int) ([]*Interaction, error) {
	if limit <= 0 {
		limit = 50
	}

	return s.repo.ListInteractions(ctx, ListFilter{ContactID: &contactID, Limit: limit})
}

// List returns interactions matching the filter, most recent first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Interaction, error) {
	return s.repo.ListInteractions(ctx, filter)
}
