package deal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=deal
type Repository interface {
	CreateDeal(ctx context.Context, d *Deal) error
	GetDeal(ctx context.Context, id uuid.UUID) (*Deal, error)
	UpdateDeal(ctx context.Context, d *Deal) error
	UpdateStage(ctx context.Context, id uuid.UUID, stage Stage, probability float64) error
	ListDeals(ctx context.Context, filter ListFilter) ([]*Deal, error)
}

// Contacts resolves contact references when a deal is created.
type Contacts interface {
	GetContact(ctx context.Context, id uuid.UUID) (*contact.Contact, error)
}

type Service struct {
	repo     Repository
	contacts Contacts
}

func NewService(repo Repository, contacts Contacts) *Service {
	return &Service{repo: repo, contacts: contacts}
}

type CreateParams struct {
	ContactID     uuid.UUID
	Title         string
	Value         int64 // cents
	Stage         Stage
	Probability   *float64
	ExpectedClose *time.Time
	Notes         string
}

type ListFilter struct {
	ContactID *uuid.UUID
	Stage     *Stage
	Open      *bool
}

// Create validates and stores a new deal. An omitted stage defaults to
// lead; an omitted probability derives from the stage policy.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Deal, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalid)
	}

	if params.Value < 0 {
		return nil, fmt.Errorf("%w: value must be non-negative", ErrInvalid)
	}

	stage := params.Stage
	if stage == "" {
		stage = StageLead
	}

	if !KnownStage(stage) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
	}

	probability, err := resolveProbability(stage, params.Probability)
	if err != nil {
		return nil, err
	}

	if _, err := s.contacts.GetContact(ctx, params.ContactID); err != nil {
		return nil, err
	}

	d := &Deal{
		ContactID:     params.ContactID,
		Title:         strings.TrimSpace(params.Title),
		Value:         params.Value,
		Stage:         stage,
		Probability:   probability,
		ExpectedClose: params.ExpectedClose,
		Notes:         params.Notes,
	}
	if err := s.repo.CreateDeal(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

// AdvanceStage moves a deal to a new stage and updates its probability in
// the same write. The probability comes from the stage policy unless a
// valid override is supplied; terminal stages force 1.0 (won) or 0.0
// (lost) regardless of any override.
func (s *Service) AdvanceStage(ctx context.Context, id uuid.UUID, newStage Stage, override *float64) (*Deal, error) {
	if !KnownStage(newStage) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, newStage)
	}

	d, err := s.repo.GetDeal(ctx, id)
	if err != nil {
		return nil, err
	}

	if IsTerminal(d.Stage) {
		return nil, fmt.Errorf("%w: deal already closed as %s", ErrInvalidTransition, d.Stage)
	}

	if !IsValidTransition(d.Stage, newStage) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Stage, newStage)
	}

	probability, err := resolveProbability(newStage, override)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStage(ctx, id, newStage, probability); err != nil {
		return nil, err
	}

	d.Stage = newStage
	d.Probability = probability

	return d, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Deal, error) {
	return s.repo.GetDeal(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Deal, error) {
	return s.repo.ListDeals(ctx, filter)
}

// ListOpen returns all deals in a non-terminal stage.
func (s *Service) ListOpen(ctx context.Context) ([]*Deal, error) {
	return s.repo.ListDeals(ctx, ListFilter{Open: new(true)})
}

// Update edits a deal's descriptive fields. Stage and probability are
// never touched here; they only move together through AdvanceStage.
// Closed deals are immutable.
func (s *Service) Update(ctx context.Context, d *Deal) error {
	current, err := s.repo.GetDeal(ctx, d.ID)
	if err != nil {
		return err
	}

	if IsTerminal(current.Stage) {
		return fmt.Errorf("%w: deal already closed as %s", ErrInvalid, current.Stage)
	}

	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}

	if d.Value < 0 {
		return fmt.Errorf("%w: value must be non-negative", ErrInvalid)
	}

	return s.repo.UpdateDeal(ctx, d)
}

func resolveProbability(stage Stage, override *float64) (float64, error) {
	if IsTerminal(stage) {
		// Terminal outcomes are unambiguous.
		return stageProbabilities[stage], nil
	}

	if override != nil {
		if *override < 0 || *override > 1 {
			return 0, fmt.Errorf("%w: probability %v outside [0,1]", ErrInvalid, *override)
		}

		return *override, nil
	}

	return DefaultProbability(stage)
}
