// Package forecast projects expected revenue from open deals across a
// future time window, bucketed by week.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
)

// ErrInvalidHorizon is returned for a non-positive forecast window.
var ErrInvalidHorizon = errors.New("forecast horizon must be positive")

type Service struct {
	deals *deal.Service
}

func NewService(deals *deal.Service) *Service {
	return &Service{deals: deals}
}

// WeekBucket is one week of projected revenue. Week 0 covers days 0-6
// from today, week 1 days 7-13, and so on.
type WeekBucket struct {
	Week          int
	WeightedValue int64 // cents
	DealCount     int
}

// Undated summarizes open deals that carry no expected close date and so
// cannot be placed in a week bucket.
type Undated struct {
	Count         int
	WeightedValue int64 // cents
}

// DealProjection is the forecast's view of one qualifying deal.
type DealProjection struct {
	DealID        uuid.UUID
	Title         string
	Value         int64
	Probability   float64
	WeightedValue int64
	ExpectedClose time.Time
}

// Forecast is the weekly revenue projection over a horizon.
type Forecast struct {
	HorizonDays   int
	Weeks         []WeekBucket // zero-filled, week 0 through horizon/7
	TotalWeighted int64        // cents, dated deals within the horizon
	Undated       Undated
	Deals         []DealProjection // sorted by expected close date
}

// Forecast sums value x probability across open deals whose expected
// close falls within [today, today+days], bucketed by week. Open deals
// with no close date are reported in Undated; deals dated outside the
// horizon (including past due) are excluded entirely. Won deals are
// realized, not forecast, and lost deals contribute nothing, so only
// non-terminal deals are considered.
func (s *Service) Forecast(ctx context.Context, days int) (*Forecast, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHorizon, days)
	}

	open, err := s.deals.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing open deals: %w", err)
	}

	today := dateOnly(time.Now().UTC())

	numWeeks := days/7 + 1
	weeks := make([]WeekBucket, numWeeks)

	for i := range weeks {
		weeks[i].Week = i
	}

	f := &Forecast{HorizonDays: days}

	for _, d := range open {
		if d.ExpectedClose == nil {
			f.Undated.Count++
			f.Undated.WeightedValue += d.WeightedValue()

			continue
		}

		daysUntil := daysBetween(today, dateOnly(*d.ExpectedClose))
		if daysUntil < 0 || daysUntil > days {
			continue
		}

		weighted := d.WeightedValue()
		week := daysUntil / 7

		weeks[week].WeightedValue += weighted
		weeks[week].DealCount++
		f.TotalWeighted += weighted

		f.Deals = append(f.Deals, DealProjection{
			DealID:        d.ID,
			Title:         d.Title,
			Value:         d.Value,
			Probability:   d.Probability,
			WeightedValue: weighted,
			ExpectedClose: dateOnly(*d.ExpectedClose),
		})
	}

	sort.Slice(f.Deals, func(i, j int) bool {
		if !f.Deals[i].ExpectedClose.Equal(f.Deals[j].ExpectedClose) {
			return f.Deals[i].ExpectedClose.Before(f.Deals[j].ExpectedClose)
		}

		return f.Deals[i].Title < f.Deals[j].Title
	})

	f.Weeks = weeks

	return f, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
