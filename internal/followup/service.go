// Package followup selects contacts that are going stale: they have an
// active pipeline but have not been contacted recently.
package followup

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/contact"
	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
)

type Service struct {
	contacts *contact.Service
	deals    *deal.Service
}

func NewService(contacts *contact.Service, deals *deal.Service) *Service {
	return &Service{contacts: contacts, deals: deals}
}

// Entry is one contact due for a follow-up.
type Entry struct {
	ContactID   uuid.UUID
	Name        string
	Email       string
	Company     string
	LastContact *time.Time
	// StaleDays is the whole days elapsed since the contact's reference
	// time (last interaction, or creation when never contacted).
	StaleDays int
	// OpenDeals and OpenDealWeighted summarize the contact's active
	// pipeline.
	OpenDeals        int
	OpenDealWeighted int64 // cents
}

// Queue returns the contacts that have at least one open deal and whose
// reference time is at least daysOverdue days in the past, most overdue
// first. Ties are broken by contact id so the ordering is deterministic.
func (s *Service) Queue(ctx context.Context, daysOverdue int) ([]Entry, error) {
	open, err := s.deals.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing open deals: %w", err)
	}

	if len(open) == 0 {
		return nil, nil
	}

	type pipelineSummary struct {
		count    int
		weighted int64
	}

	byContact := make(map[uuid.UUID]pipelineSummary)

	for _, d := range open {
		sum := byContact[d.ContactID]
		sum.count++
		sum.weighted += d.WeightedValue()
		byContact[d.ContactID] = sum
	}

	contacts, err := s.contacts.List(ctx, contact.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}

	now := time.Now().UTC()
	cutoff := now.Add(-time.Duration(daysOverdue) * 24 * time.Hour)

	type candidate struct {
		entry Entry
		ref   time.Time
	}

	var candidates []candidate

	for _, c := range contacts {
		sum, ok := byContact[c.ID]
		if !ok {
			continue
		}

		ref := c.ReferenceTime()
		if ref.After(cutoff) {
			continue
		}

		candidates = append(candidates, candidate{
			ref: ref,
			entry: Entry{
				ContactID:        c.ID,
				Name:             c.Name,
				Email:            c.Email,
				Company:          c.Company,
				LastContact:      c.LastContact,
				StaleDays:        int(now.Sub(ref).Hours() / 24),
				OpenDeals:        sum.count,
				OpenDealWeighted: sum.weighted,
			},
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].ref.Equal(candidates[j].ref) {
			return candidates[i].ref.Before(candidates[j].ref)
		}

		return candidates[i].entry.ContactID.String() < candidates[j].entry.ContactID.String()
	})

	entries := make([]Entry, len(candidates))
	for i, c := range candidates {
		entries[i] = c.entry
	}

	return entries, nil
}
