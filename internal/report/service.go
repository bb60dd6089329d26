// Package report builds the pipeline aggregation report: per-stage deal
// totals, probability-weighted values, and snapshot conversion rates.
package report

import (
	"context"
	"fmt"

	"github.com/BlackRoad-Foundation/blackroad-crm-core/internal/deal"
)

type Service struct {
	deals *deal.Service
}

func NewService(deals *deal.Service) *Service {
	return &Service{deals: deals}
}

// StageReport aggregates the deals currently sitting in one stage.
type StageReport struct {
	Stage         deal.Stage
	Count         int
	TotalValue    int64 // cents
	WeightedValue int64 // cents
	// ConversionRate is the share of deals at or past this stage that
	// have not been lost. It is a snapshot approximation: without a
	// stage-transition log the true cohort rate is unrecoverable, so the
	// rate is computed over current-stage counts. Nil for terminal
	// stages.
	ConversionRate *float64
}

// Pipeline is the full per-stage report. Stages appear in progression
// order; stages with no deals are zero-filled. The pipeline totals cover
// open stages only.
type Pipeline struct {
	Stages           []StageReport
	PipelineValue    int64
	PipelineWeighted int64
}

// Pipeline aggregates all deals, open and closed, by current stage. It is
// read-only: no deal is ever mutated.
func (s *Service) Pipeline(ctx context.Context) (*Pipeline, error) {
	deals, err := s.deals.List(ctx, deal.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}

	stages := deal.Stages()
	index := make(map[deal.Stage]int, len(stages))

	for i, st := range stages {
		index[st] = i
	}

	counts := make([]int, len(stages))
	totals := make([]int64, len(stages))
	weighted := make([]int64, len(stages))

	for _, d := range deals {
		i, ok := index[d.Stage]
		if !ok {
			return nil, fmt.Errorf("%w: %q", deal.ErrUnknownStage, d.Stage)
		}

		counts[i]++
		totals[i] += d.Value
		weighted[i] += d.WeightedValue()
	}

	p := &Pipeline{Stages: make([]StageReport, len(stages))}

	for i, st := range stages {
		sr := StageReport{
			Stage:         st,
			Count:         counts[i],
			TotalValue:    totals[i],
			WeightedValue: weighted[i],
		}

		if !deal.IsTerminal(st) {
			rate := conversionRate(stages, counts, i)
			sr.ConversionRate = &rate

			p.PipelineValue += totals[i]
			p.PipelineWeighted += weighted[i]
		}

		p.Stages[i] = sr
	}

	return p, nil
}

// conversionRate computes count(stage' >= s, stage' != lost) over
// count(stage' >= s) from the current-stage snapshot. Returns 0 when no
// deal has reached the stage.
func conversionRate(stages []deal.Stage, counts []int, from int) float64 {
	var reached, surviving int

	for i := from; i < len(stages); i++ {
		reached += counts[i]

		if stages[i] != deal.StageLost {
			surviving += counts[i]
		}
	}

	if reached == 0 {
		return 0
	}

	return float64(surviving) / float64(reached)
}
