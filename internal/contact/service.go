package contact

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=contact
type Repository interface {
	CreateContact(ctx context.Context, c *Contact) error
	GetContact(ctx context.Context, id uuid.UUID) (*Contact, error)
	FindByEmail(ctx context.Context, email string) (*Contact, error)
	UpdateContact(ctx context.Context, c *Contact) error
	ListContacts(ctx context.Context, filter ListFilter) ([]*Contact, error)
	DeleteContact(ctx context.Context, id uuid.UUID) error
}

// OpenDealCounter reports how many open deals reference a contact. It is
// implemented by the deal store and injected at wiring time so deletion
// can refuse to orphan an active pipeline.
type OpenDealCounter interface {
	CountOpenDeals(ctx context.Context, contactID uuid.UUID) (int, error)
}

type Service struct {
	repo  Repository
	deals OpenDealCounter
}

func NewService(repo Repository, deals OpenDealCounter) *Service {
	return &Service{repo: repo, deals: deals}
}

type CreateParams struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Tags    []string
	Notes   string
}

type ListFilter struct {
	Company *string
	Tag     *string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Contact, error) {
	if err := validate(params.Name, params.Email); err != nil {
		return nil, err
	}

	c := &Contact{
		Name:    strings.TrimSpace(params.Name),
		Email:   strings.TrimSpace(params.Email),
		Phone:   params.Phone,
		Company: params.Company,
		Tags:    params.Tags,
		Notes:   params.Notes,
	}
	if err := s.repo.CreateContact(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Contact, error) {
	return s.repo.GetContact(ctx, id)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*Contact, error) {
	return s.repo.FindByEmail(ctx, strings.TrimSpace(email))
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Contact, error) {
	return s.repo.ListContacts(ctx, filter)
}

func (s *Service) Update(ctx context.Context, c *Contact) error {
	if err := validate(c.Name, c.Email); err != nil {
		return err
	}

	return s.repo.UpdateContact(ctx, c)
}

// Delete removes a contact. It fails with ErrHasOpenDeals while any
// non-terminal deal still references the contact.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	open, err := s.deals.CountOpenDeals(ctx, id)
	if err != nil {
		return fmt.Errorf("counting open deals: %w", err)
	}

	if open > 0 {
		return ErrHasOpenDeals
	}

	return s.repo.DeleteContact(ctx, id)
}

type ImportResult struct {
	Imported  []*Contact
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Contact
}

// ImportBatch creates contacts in bulk. Rows whose email is already
// known are reported as conflicts instead of created; the remaining rows
// are created individually.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	result := &ImportResult{}

	for _, p := range params {
		existing, err := s.repo.FindByEmail(ctx, strings.TrimSpace(p.Email))
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("checking for duplicate: %w", err)
		}

		if existing != nil {
			result.Conflicts = append(result.Conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		c, err := s.Create(ctx, p)
		if err != nil {
			return nil, err
		}

		result.Imported = append(result.Imported, c)
	}

	return result, nil
}

func validate(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}

	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return fmt.Errorf("%w: email %q is not valid", ErrInvalid, email)
	}

	return nil
}
