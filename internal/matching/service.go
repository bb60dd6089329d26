package matching

import (
	"context"
)

type Repository interface {
	FindCanonical(ctx context.Context, rawCompany string) (string, error)
	CreateMapping(ctx context.Context, rawPattern, canonicalName string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Canonicalize tries to map a raw company name, as it appears in an
// imported file, to the canonical name used in the CRM.
// Returns empty string if no mapping is known.
func (s *Service) Canonicalize(ctx context.Context, rawCompany string) (string, error) {
	return s.repo.FindCanonical(ctx, rawCompany)
}

// Learn remembers a new mapping between a raw company pattern and its
// canonical name.
func (s *Service) Learn(ctx context.Context, rawPattern, canonicalName string) error {
	return s.repo.CreateMapping(ctx, rawPattern, canonicalName)
}
